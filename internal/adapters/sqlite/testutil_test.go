// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/vigil/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository
// tests. Uses db.GetSchemaSQL() to prevent test schemas from drifting.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedProject inserts a test project and returns its ID.
func seedProject(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "PROJ-001"
	}
	if name == "" {
		name = "Test Project"
	}
	_, err := db.Exec("INSERT INTO projects (id, name, status) VALUES (?, ?, 'active')", id, name)
	if err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return id
}

// seedMilestone inserts a test milestone and returns its ID. dueDate
// may be empty for milestones without a due date.
func seedMilestone(t *testing.T, db *sql.DB, id, projectID, status, dueDate string) string {
	t.Helper()
	if id == "" {
		id = "MS-001"
	}
	if projectID == "" {
		projectID = "PROJ-001"
	}
	if status == "" {
		status = "pending"
	}
	var due any
	if dueDate != "" {
		due = dueDate
	}
	_, err := db.Exec("INSERT INTO milestones (id, project_id, name, due_date, status) VALUES (?, ?, 'Test Milestone', ?, ?)",
		id, projectID, due, status)
	if err != nil {
		t.Fatalf("failed to seed milestone: %v", err)
	}
	return id
}

// seedRule inserts a minimal enabled rule row and returns its ID. The
// JSON columns get their defaults; tests that care about rule content
// go through RuleRepository.Create instead.
func seedRule(t *testing.T, db *sql.DB, id, scope, triggerType string) string {
	t.Helper()
	if id == "" {
		id = "RULE-001"
	}
	if triggerType == "" {
		triggerType = "milestone_overdue"
	}
	_, err := db.Exec("INSERT INTO rules (id, name, scope, trigger_type) VALUES (?, 'Test Rule', ?, ?)",
		id, scope, triggerType)
	if err != nil {
		t.Fatalf("failed to seed rule: %v", err)
	}
	return id
}

var sampleSeq int

// seedSample inserts a metric sample with an explicit timestamp.
func seedSample(t *testing.T, db *sql.DB, id, scope, metric string, value float64, recordedAt time.Time) {
	t.Helper()
	if id == "" {
		sampleSeq++
		id = fmt.Sprintf("SMP-SEED-%03d", sampleSeq)
	}
	_, err := db.Exec("INSERT INTO metric_samples (id, scope, metric, value, recorded_at) VALUES (?, ?, ?, ?, ?)",
		id, scope, metric, value, recordedAt.UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("failed to seed metric sample: %v", err)
	}
}
