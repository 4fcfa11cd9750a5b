package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/vigil/internal/adapters/sqlite"
)

func TestEntityProvider_ListCandidateMilestones(t *testing.T) {
	db := setupTestDB(t)
	provider := sqlite.NewEntityProvider(
		sqlite.NewMilestoneRepository(db),
		sqlite.NewMetricSampleRepository(db),
	)
	ctx := context.Background()

	seedProject(t, db, "PROJ-001", "Brand refresh")
	seedProject(t, db, "PROJ-002", "Website rebuild")
	seedMilestone(t, db, "MS-001", "PROJ-001", "pending", "2026-08-24T00:00:00Z")
	seedMilestone(t, db, "MS-002", "PROJ-001", "completed", "2026-08-10T00:00:00Z")
	seedMilestone(t, db, "MS-003", "PROJ-001", "cancelled", "2026-08-01T00:00:00Z")
	seedMilestone(t, db, "MS-004", "PROJ-002", "in_progress", "")

	t.Run("scoped listing excludes cancelled, keeps completed", func(t *testing.T) {
		got, err := provider.ListCandidateMilestones(ctx, "PROJ-001")
		if err != nil {
			t.Fatalf("ListCandidateMilestones failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("returned %d candidates, want 2", len(got))
		}
		if got[0].ID != "MS-001" || got[1].ID != "MS-002" {
			t.Errorf("candidates = [%s %s], want [MS-001 MS-002]", got[0].ID, got[1].ID)
		}
	})

	t.Run("empty scope spans projects", func(t *testing.T) {
		got, err := provider.ListCandidateMilestones(ctx, "")
		if err != nil {
			t.Fatalf("ListCandidateMilestones failed: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("returned %d candidates, want 3", len(got))
		}
	})

	t.Run("missing due date stays empty", func(t *testing.T) {
		got, err := provider.ListCandidateMilestones(ctx, "PROJ-002")
		if err != nil {
			t.Fatalf("ListCandidateMilestones failed: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("returned %d candidates, want 1", len(got))
		}
		if got[0].DueDate != "" {
			t.Errorf("DueDate = %q, want empty", got[0].DueDate)
		}
	})
}

func TestEntityProvider_ListMetricSamples(t *testing.T) {
	db := setupTestDB(t)
	provider := sqlite.NewEntityProvider(
		sqlite.NewMilestoneRepository(db),
		sqlite.NewMetricSampleRepository(db),
	)
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	seedSample(t, db, "SMP-3", "PROJ-001", "task_failure_rate", 0.30, base.Add(48*time.Hour))
	seedSample(t, db, "SMP-1", "PROJ-001", "task_failure_rate", 0.05, base)
	seedSample(t, db, "SMP-2", "PROJ-001", "task_failure_rate", 0.06, base.Add(24*time.Hour))
	seedSample(t, db, "SMP-4", "PROJ-002", "task_failure_rate", 0.99, base)

	got, err := provider.ListMetricSamples(ctx, "PROJ-001", "task_failure_rate")
	if err != nil {
		t.Fatalf("ListMetricSamples failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("returned %d samples, want 3", len(got))
	}
	for i, want := range []float64{0.05, 0.06, 0.30} {
		if got[i].Value != want {
			t.Errorf("sample[%d] = %v, want %v (oldest first)", i, got[i].Value, want)
		}
	}
}

func TestEntityMutator(t *testing.T) {
	db := setupTestDB(t)
	projects := sqlite.NewProjectRepository(db)
	milestones := sqlite.NewMilestoneRepository(db)
	mutator := sqlite.NewEntityMutator(projects, milestones)
	ctx := context.Background()

	seedProject(t, db, "PROJ-001", "")
	seedMilestone(t, db, "MS-001", "PROJ-001", "pending", "2026-08-24T00:00:00Z")

	t.Run("updates project status", func(t *testing.T) {
		if err := mutator.UpdateProjectStatus(ctx, "PROJ-001", "at_risk"); err != nil {
			t.Fatalf("UpdateProjectStatus failed: %v", err)
		}
		got, err := projects.GetByID(ctx, "PROJ-001")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Status != "at_risk" {
			t.Errorf("Status = %q, want at_risk", got.Status)
		}
	})

	t.Run("completing a milestone stamps completed date", func(t *testing.T) {
		if err := mutator.UpdateMilestoneStatus(ctx, "MS-001", "completed"); err != nil {
			t.Fatalf("UpdateMilestoneStatus failed: %v", err)
		}
		got, err := milestones.GetByID(ctx, "MS-001")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Status != "completed" {
			t.Errorf("Status = %q, want completed", got.Status)
		}
		if got.CompletedDate == "" {
			t.Error("CompletedDate not stamped")
		}
	})

	t.Run("reopening clears completed date", func(t *testing.T) {
		if err := mutator.UpdateMilestoneStatus(ctx, "MS-001", "in_progress"); err != nil {
			t.Fatalf("UpdateMilestoneStatus failed: %v", err)
		}
		got, err := milestones.GetByID(ctx, "MS-001")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.CompletedDate != "" {
			t.Errorf("CompletedDate = %q after reopening, want empty", got.CompletedDate)
		}
	})

	t.Run("unknown entity errors", func(t *testing.T) {
		if err := mutator.UpdateProjectStatus(ctx, "PROJ-999", "at_risk"); err == nil {
			t.Error("expected error for unknown project")
		}
		if err := mutator.UpdateMilestoneStatus(ctx, "MS-999", "completed"); err == nil {
			t.Error("expected error for unknown milestone")
		}
	})
}
