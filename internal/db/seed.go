package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: two
// projects, milestones in assorted states, and enough metric samples
// to exercise threshold and deviation rules.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()
	ts := now.Format(time.RFC3339)

	projects := []struct{ id, name, status string }{
		{"PROJ-001", "Riverside Office Refit", "active"},
		{"PROJ-002", "Harbor View Apartments", "active"},
	}
	for _, p := range projects {
		if _, err := database.Exec(
			"INSERT INTO projects (id, name, status, created_at) VALUES (?, ?, ?, ?)",
			p.id, p.name, p.status, ts,
		); err != nil {
			return fmt.Errorf("seed projects: %w", err)
		}
	}

	milestones := []struct {
		id, projectID, name string
		dueOffsetDays       int
		status              string
	}{
		{"MS-001", "PROJ-001", "Schematic sign-off", -6, "pending"},
		{"MS-002", "PROJ-001", "Permit submission", 2, "in_progress"},
		{"MS-003", "PROJ-001", "Design development", -1, "completed"},
		{"MS-004", "PROJ-002", "Concept review", -12, "pending"},
		{"MS-005", "PROJ-002", "Budget approval", 10, "pending"},
	}
	for _, m := range milestones {
		due := now.AddDate(0, 0, m.dueOffsetDays).Format(time.RFC3339)
		var completed sql.NullString
		if m.status == "completed" {
			completed = sql.NullString{String: ts, Valid: true}
		}
		if _, err := database.Exec(
			"INSERT INTO milestones (id, project_id, name, due_date, status, completed_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			m.id, m.projectID, m.name, due, m.status, completed, ts,
		); err != nil {
			return fmt.Errorf("seed milestones: %w", err)
		}
	}

	// A failure-rate series ending in a spike, and a compliance series
	// drifting low.
	samples := []struct {
		scope, metric string
		value         float64
		hoursAgo      int
	}{
		{"PROJ-001", "task_failure_rate", 0.05, 96},
		{"PROJ-001", "task_failure_rate", 0.06, 72},
		{"PROJ-001", "task_failure_rate", 0.04, 48},
		{"PROJ-001", "task_failure_rate", 0.31, 24},
		{"PROJ-002", "compliance_rate", 0.93, 72},
		{"PROJ-002", "compliance_rate", 0.88, 48},
		{"PROJ-002", "compliance_rate", 0.64, 24},
	}
	for i, s := range samples {
		recorded := now.Add(-time.Duration(s.hoursAgo) * time.Hour).Format(time.RFC3339)
		if _, err := database.Exec(
			"INSERT INTO metric_samples (id, scope, metric, value, recorded_at) VALUES (?, ?, ?, ?, ?)",
			fmt.Sprintf("SMP-%03d", i+1), s.scope, s.metric, s.value, recorded,
		); err != nil {
			return fmt.Errorf("seed metric samples: %w", err)
		}
	}

	return nil
}
