package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/vigil/internal/adapters/sqlite"
	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/ports/secondary"
)

func overdueRule(id, scope string) *secondary.RuleRecord {
	return &secondary.RuleRecord{
		Rule: rule.Rule{
			ID:          id,
			Name:        "Overdue milestone ladder",
			Scope:       scope,
			TriggerType: rule.TriggerMilestoneOverdue,
			Levels: []rule.EscalationLevel{
				{Level: "manager", ThresholdValue: 1, NotifyRoles: []string{"manager"}},
				{Level: "director", ThresholdValue: 3, NotifyRoles: []string{"director"}},
				{Level: "admin", ThresholdValue: 7, NotifyRoles: []string{"admin"}},
			},
			Actions: []rule.Action{
				{Type: rule.ActionNotifyTeam},
			},
			Enabled:   true,
			CreatedBy: "tester",
		},
	}
}

func TestRuleRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRuleRepository(db)
	ctx := context.Background()

	t.Run("round-trips a ladder rule", func(t *testing.T) {
		if err := repo.Create(ctx, overdueRule("RULE-001", "PROJ-001")); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.GetByID(ctx, "RULE-001")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}

		if got.Rule.Name != "Overdue milestone ladder" {
			t.Errorf("Name = %q, want %q", got.Rule.Name, "Overdue milestone ladder")
		}
		if got.Rule.TriggerType != rule.TriggerMilestoneOverdue {
			t.Errorf("TriggerType = %q, want %q", got.Rule.TriggerType, rule.TriggerMilestoneOverdue)
		}
		if len(got.Rule.Levels) != 3 {
			t.Fatalf("len(Levels) = %d, want 3", len(got.Rule.Levels))
		}
		if got.Rule.Levels[2].Level != "admin" || got.Rule.Levels[2].ThresholdValue != 7 {
			t.Errorf("top level = %+v, want admin at 7", got.Rule.Levels[2])
		}
		if len(got.Rule.Actions) != 1 || got.Rule.Actions[0].Type != rule.ActionNotifyTeam {
			t.Errorf("Actions = %+v, want one notify_team", got.Rule.Actions)
		}
		if !got.Rule.Enabled {
			t.Error("Enabled = false, want true")
		}
		if got.CreatedAt == "" || got.UpdatedAt == "" {
			t.Error("expected timestamps to be populated")
		}
	})

	t.Run("round-trips a metric rule with trigger config", func(t *testing.T) {
		threshold := 0.1
		record := &secondary.RuleRecord{
			Rule: rule.Rule{
				ID:          "RULE-002",
				Name:        "High failure rate",
				TriggerType: rule.TriggerMetricThreshold,
				Trigger: rule.TriggerConfig{
					Metric:    "task_failure_rate",
					Operator:  rule.OpGT,
					Threshold: &threshold,
				},
				Severity: "warning",
				Actions:  []rule.Action{{Type: rule.ActionCreateAlert, Message: "failure rate high"}},
				Enabled:  true,
			},
		}
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.GetByID(ctx, "RULE-002")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Rule.Trigger.Metric != "task_failure_rate" {
			t.Errorf("Trigger.Metric = %q, want %q", got.Rule.Trigger.Metric, "task_failure_rate")
		}
		if got.Rule.Trigger.Operator != rule.OpGT {
			t.Errorf("Trigger.Operator = %q, want gt", got.Rule.Trigger.Operator)
		}
		if got.Rule.Trigger.Threshold == nil || *got.Rule.Trigger.Threshold != 0.1 {
			t.Errorf("Trigger.Threshold = %v, want 0.1", got.Rule.Trigger.Threshold)
		}
	})

	t.Run("returns error for non-existent ID", func(t *testing.T) {
		if _, err := repo.GetByID(ctx, "RULE-999"); err == nil {
			t.Error("expected error for non-existent rule")
		}
	})
}

func TestRuleRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRuleRepository(db)
	ctx := context.Background()

	record := overdueRule("RULE-001", "")
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("updates definition fields", func(t *testing.T) {
		record.Rule.Name = "Renamed rule"
		record.Rule.Levels = record.Rule.Levels[:2]
		if err := repo.Update(ctx, record); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, err := repo.GetByID(ctx, "RULE-001")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if got.Rule.Name != "Renamed rule" {
			t.Errorf("Name = %q, want %q", got.Rule.Name, "Renamed rule")
		}
		if len(got.Rule.Levels) != 2 {
			t.Errorf("len(Levels) = %d, want 2", len(got.Rule.Levels))
		}
	})

	t.Run("returns error for non-existent rule", func(t *testing.T) {
		missing := overdueRule("RULE-999", "")
		if err := repo.Update(ctx, missing); err == nil {
			t.Error("expected error updating non-existent rule")
		}
	})
}

func TestRuleRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRuleRepository(db)
	states := sqlite.NewStateRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, overdueRule("RULE-001", "")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := states.Save(ctx, &secondary.StateRecord{
		RuleID: "RULE-001", EntityID: "MS-001", HighestRank: 2, HighestLevel: "director",
	})
	if err != nil {
		t.Fatalf("Save state failed: %v", err)
	}

	t.Run("delete cascades to escalation state", func(t *testing.T) {
		if err := repo.Delete(ctx, "RULE-001"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		if _, err := repo.GetByID(ctx, "RULE-001"); err == nil {
			t.Error("expected rule to be gone")
		}
		st, err := states.Load(ctx, "RULE-001", "MS-001")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if st != nil {
			t.Errorf("expected state to cascade away, got %+v", st)
		}
	})

	t.Run("returns error for non-existent rule", func(t *testing.T) {
		if err := repo.Delete(ctx, "RULE-999"); err == nil {
			t.Error("expected error deleting non-existent rule")
		}
	})
}

func TestRuleRepository_ListActive(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRuleRepository(db)
	ctx := context.Background()

	global := overdueRule("RULE-001", "")
	scoped := overdueRule("RULE-002", "PROJ-001")
	other := overdueRule("RULE-003", "PROJ-002")
	disabled := overdueRule("RULE-004", "PROJ-001")
	disabled.Rule.Enabled = false

	for _, r := range []*secondary.RuleRecord{global, scoped, other, disabled} {
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("Create %s failed: %v", r.Rule.ID, err)
		}
	}

	t.Run("scoped listing includes global rules", func(t *testing.T) {
		got, err := repo.ListActive(ctx, "PROJ-001")
		if err != nil {
			t.Fatalf("ListActive failed: %v", err)
		}
		ids := ruleIDs(got)
		want := []string{"RULE-001", "RULE-002"}
		if len(ids) != len(want) {
			t.Fatalf("ListActive returned %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("ListActive[%d] = %s, want %s", i, ids[i], want[i])
			}
		}
	})

	t.Run("empty scope lists all enabled rules", func(t *testing.T) {
		got, err := repo.ListActive(ctx, "")
		if err != nil {
			t.Fatalf("ListActive failed: %v", err)
		}
		if len(got) != 3 {
			t.Errorf("ListActive returned %d rules, want 3", len(got))
		}
	})

	t.Run("disabled rules are excluded", func(t *testing.T) {
		got, err := repo.ListActive(ctx, "PROJ-001")
		if err != nil {
			t.Fatalf("ListActive failed: %v", err)
		}
		for _, r := range got {
			if r.Rule.ID == "RULE-004" {
				t.Error("ListActive returned a disabled rule")
			}
		}
	})
}

func TestRuleRepository_List(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRuleRepository(db)
	ctx := context.Background()

	overdue := overdueRule("RULE-001", "PROJ-001")
	threshold := 0.1
	metricRule := &secondary.RuleRecord{
		Rule: rule.Rule{
			ID:          "RULE-002",
			Name:        "Failure threshold",
			TriggerType: rule.TriggerMetricThreshold,
			Trigger:     rule.TriggerConfig{Metric: "task_failure_rate", Operator: rule.OpGT, Threshold: &threshold},
			Severity:    "warning",
			Actions:     []rule.Action{{Type: rule.ActionCreateAlert, Message: "x"}},
			Enabled:     false,
		},
	}
	if err := repo.Create(ctx, overdue); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, metricRule); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("filters by trigger type", func(t *testing.T) {
		got, err := repo.List(ctx, secondary.RuleFilters{TriggerType: "metric_threshold"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 1 || got[0].Rule.ID != "RULE-002" {
			t.Errorf("List = %v, want [RULE-002]", ruleIDs(got))
		}
	})

	t.Run("filters by enabled flag", func(t *testing.T) {
		enabled := true
		got, err := repo.List(ctx, secondary.RuleFilters{Enabled: &enabled})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 1 || got[0].Rule.ID != "RULE-001" {
			t.Errorf("List = %v, want [RULE-001]", ruleIDs(got))
		}
	})
}

func TestRuleRepository_SetEnabled(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRuleRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, overdueRule("RULE-001", "")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.SetEnabled(ctx, "RULE-001", false); err != nil {
		t.Fatalf("SetEnabled failed: %v", err)
	}
	got, err := repo.GetByID(ctx, "RULE-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Rule.Enabled {
		t.Error("Enabled = true after disabling")
	}

	if err := repo.SetEnabled(ctx, "RULE-999", true); err == nil {
		t.Error("expected error for non-existent rule")
	}
}

func TestRuleRepository_GetNextID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewRuleRepository(db)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "RULE-001" {
		t.Errorf("GetNextID = %s, want RULE-001", id)
	}

	if err := repo.Create(ctx, overdueRule("RULE-007", "")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	id, err = repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "RULE-008" {
		t.Errorf("GetNextID = %s, want RULE-008", id)
	}
}

func ruleIDs(records []*secondary.RuleRecord) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.Rule.ID
	}
	return ids
}
