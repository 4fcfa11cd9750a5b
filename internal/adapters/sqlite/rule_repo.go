// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/ports/secondary"
)

// RuleRepository implements secondary.RuleRepository with SQLite.
// Trigger config, ladder, and actions are stored as JSON documents;
// they were validated before reaching the repository.
type RuleRepository struct {
	db *sql.DB
}

// NewRuleRepository creates a new SQLite rule repository.
func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

const ruleColumns = `id, name, description, scope, trigger_type, trigger_config, severity, escalation_levels, actions, enabled, created_by, created_at, updated_at`

// Create persists a new rule.
func (r *RuleRepository) Create(ctx context.Context, record *secondary.RuleRecord) error {
	triggerJSON, levelsJSON, actionsJSON, err := encodeRule(&record.Rule)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO rules (id, name, description, scope, trigger_type, trigger_config, severity, escalation_levels, actions, enabled, created_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Rule.ID,
		record.Rule.Name,
		record.Rule.Description,
		record.Rule.Scope,
		string(record.Rule.TriggerType),
		triggerJSON,
		record.Rule.Severity,
		levelsJSON,
		actionsJSON,
		record.Rule.Enabled,
		record.Rule.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}

	return nil
}

// GetByID retrieves a rule by its ID.
func (r *RuleRepository) GetByID(ctx context.Context, id string) (*secondary.RuleRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM rules WHERE id = ?`, id)

	record, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return record, nil
}

// Update updates an existing rule definition.
func (r *RuleRepository) Update(ctx context.Context, record *secondary.RuleRecord) error {
	triggerJSON, levelsJSON, actionsJSON, err := encodeRule(&record.Rule)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE rules SET name = ?, description = ?, scope = ?, trigger_type = ?, trigger_config = ?, severity = ?, escalation_levels = ?, actions = ?, enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		record.Rule.Name,
		record.Rule.Description,
		record.Rule.Scope,
		string(record.Rule.TriggerType),
		triggerJSON,
		record.Rule.Severity,
		levelsJSON,
		actionsJSON,
		record.Rule.Enabled,
		record.Rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("rule %s not found", record.Rule.ID)
	}

	return nil
}

// Delete removes a rule from persistence. Escalation state rows for
// the rule cascade away with it.
func (r *RuleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("rule %s not found", id)
	}

	return nil
}

// List retrieves rules matching the given filters.
func (r *RuleRepository) List(ctx context.Context, filters secondary.RuleFilters) ([]*secondary.RuleRecord, error) {
	query := `SELECT ` + ruleColumns + ` FROM rules WHERE 1=1`
	args := []any{}

	if filters.Scope != "" {
		query += " AND scope = ?"
		args = append(args, filters.Scope)
	}
	if filters.TriggerType != "" {
		query += " AND trigger_type = ?"
		args = append(args, filters.TriggerType)
	}
	if filters.Enabled != nil {
		query += " AND enabled = ?"
		args = append(args, *filters.Enabled)
	}

	query += " ORDER BY id"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	return r.queryRules(ctx, query, args...)
}

// ListActive retrieves enabled rules applying to a scope. Rules with
// an empty scope apply everywhere.
func (r *RuleRepository) ListActive(ctx context.Context, scope string) ([]*secondary.RuleRecord, error) {
	if scope == "" {
		return r.queryRules(ctx,
			`SELECT `+ruleColumns+` FROM rules WHERE enabled = 1 ORDER BY id`)
	}
	return r.queryRules(ctx,
		`SELECT `+ruleColumns+` FROM rules WHERE enabled = 1 AND (scope = '' OR scope = ?) ORDER BY id`,
		scope)
}

// SetEnabled flips a rule's enabled flag.
func (r *RuleRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE rules SET enabled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		enabled, id)
	if err != nil {
		return fmt.Errorf("failed to set rule enabled: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("rule %s not found", id)
	}

	return nil
}

// GetNextID returns the next available rule ID.
func (r *RuleRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("RULE-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM rules", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next rule ID: %w", err)
	}

	return fmt.Sprintf("RULE-%03d", maxID+1), nil
}

func (r *RuleRepository) queryRules(ctx context.Context, query string, args ...any) ([]*secondary.RuleRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var records []*secondary.RuleRecord
	for rows.Next() {
		record, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRule(s scanner) (*secondary.RuleRecord, error) {
	var (
		description sql.NullString
		triggerJSON string
		levelsJSON  string
		actionsJSON string
		createdBy   sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		triggerType string
	)

	record := &secondary.RuleRecord{}
	err := s.Scan(
		&record.Rule.ID,
		&record.Rule.Name,
		&description,
		&record.Rule.Scope,
		&triggerType,
		&triggerJSON,
		&record.Rule.Severity,
		&levelsJSON,
		&actionsJSON,
		&record.Rule.Enabled,
		&createdBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Rule.Description = description.String
	record.Rule.TriggerType = rule.TriggerType(triggerType)
	record.Rule.CreatedBy = createdBy.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	if err := json.Unmarshal([]byte(triggerJSON), &record.Rule.Trigger); err != nil {
		return nil, fmt.Errorf("corrupt trigger config for rule %s: %w", record.Rule.ID, err)
	}
	if err := json.Unmarshal([]byte(levelsJSON), &record.Rule.Levels); err != nil {
		return nil, fmt.Errorf("corrupt escalation levels for rule %s: %w", record.Rule.ID, err)
	}
	if err := json.Unmarshal([]byte(actionsJSON), &record.Rule.Actions); err != nil {
		return nil, fmt.Errorf("corrupt actions for rule %s: %w", record.Rule.ID, err)
	}

	return record, nil
}

func encodeRule(def *rule.Rule) (triggerJSON, levelsJSON, actionsJSON string, err error) {
	trigger, err := json.Marshal(def.Trigger)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode trigger config: %w", err)
	}
	levels, err := json.Marshal(def.Levels)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode escalation levels: %w", err)
	}
	if def.Levels == nil {
		levels = []byte("[]")
	}
	actions, err := json.Marshal(def.Actions)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode actions: %w", err)
	}
	if def.Actions == nil {
		actions = []byte("[]")
	}
	return string(trigger), string(levels), string(actions), nil
}

// Ensure RuleRepository implements the interface
var _ secondary.RuleRepository = (*RuleRepository)(nil)
