package db

// SchemaSQL is the complete schema for fresh vigil installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Tests use
// this schema via GetSchemaSQL() so that repository code referencing a
// column that doesn't exist here fails immediately with "no such
// column" at development time, not in production.
//
// When adding new columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Projects (local view of the design-project tool's projects)
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('active', 'on_hold', 'at_risk', 'complete', 'archived')) DEFAULT 'active',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Milestones (local view; the engine evaluates these snapshots)
CREATE TABLE IF NOT EXISTS milestones (
	id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	name TEXT NOT NULL,
	due_date DATETIME,
	status TEXT NOT NULL CHECK(status IN ('pending', 'in_progress', 'completed', 'cancelled')) DEFAULT 'pending',
	completed_date DATETIME,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_milestones_project ON milestones(project_id);
CREATE INDEX IF NOT EXISTS idx_milestones_status ON milestones(status);

-- Metric samples (anomaly rules evaluate these)
CREATE TABLE IF NOT EXISTS metric_samples (
	id TEXT PRIMARY KEY,
	scope TEXT NOT NULL,
	metric TEXT NOT NULL,
	value REAL NOT NULL,
	recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_metric_samples_lookup ON metric_samples(scope, metric, recorded_at);

-- Automation rules. Trigger config, ladder, and actions are stored as
-- JSON documents validated at save time; the engine never re-validates
-- at evaluation time.
CREATE TABLE IF NOT EXISTS rules (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	scope TEXT NOT NULL DEFAULT '',
	trigger_type TEXT NOT NULL CHECK(trigger_type IN ('milestone_overdue', 'milestone_due_soon', 'milestone_completed', 'metric_threshold', 'metric_deviation')),
	trigger_config TEXT NOT NULL DEFAULT '{}',
	severity TEXT NOT NULL DEFAULT '',
	escalation_levels TEXT NOT NULL DEFAULT '[]',
	actions TEXT NOT NULL DEFAULT '[]',
	enabled INTEGER NOT NULL DEFAULT 1,
	created_by TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_rules_enabled ON rules(enabled);
CREATE INDEX IF NOT EXISTS idx_rules_scope ON rules(scope);

-- Escalation state, one row per (rule, entity) pair that has matched.
-- Owned exclusively by the engine; rows survive process restarts so
-- escalation never restarts from the bottom after a restart.
CREATE TABLE IF NOT EXISTS escalation_states (
	rule_id TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	highest_rank INTEGER NOT NULL DEFAULT 0,
	highest_level TEXT NOT NULL DEFAULT '',
	last_evaluated_at DATETIME,
	last_action_at DATETIME,
	PRIMARY KEY (rule_id, entity_id),
	FOREIGN KEY (rule_id) REFERENCES rules(id) ON DELETE CASCADE
);

-- Execution log, append-only. Audit trail independent of the mutable
-- escalation state.
CREATE TABLE IF NOT EXISTS execution_log (
	id TEXT PRIMARY KEY,
	rule_id TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	matched_level TEXT NOT NULL DEFAULT '',
	actions_attempted TEXT NOT NULL DEFAULT '[]',
	status TEXT NOT NULL CHECK(status IN ('success', 'partial', 'error', 'skipped')),
	error_message TEXT,
	executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_execution_log_pair ON execution_log(rule_id, entity_id);
CREATE INDEX IF NOT EXISTS idx_execution_log_executed ON execution_log(executed_at);

-- Alerts raised by create_alert actions
CREATE TABLE IF NOT EXISTS alerts (
	id TEXT PRIMARY KEY,
	scope TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL,
	severity TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_alerts_scope ON alerts(scope);
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount == 0 {
		// Fresh install - create the modern schema directly and mark
		// all migrations as applied.
		if _, err = db.Exec(SchemaSQL); err != nil {
			return err
		}
		_, err = db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY,
				applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		for i := 1; i <= len(migrations); i++ {
			if _, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", i); err != nil {
				return err
			}
		}
		return nil
	}

	// schema_version table exists - run any pending migrations
	return RunMigrations()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
