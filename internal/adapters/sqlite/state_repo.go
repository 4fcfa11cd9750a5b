package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/vigil/internal/ports/secondary"
)

// StateRepository implements secondary.StateRepository with SQLite.
type StateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a new SQLite escalation state repository.
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Load retrieves the state for a (rule, entity) pair. Returns
// (nil, nil) when the pair is dormant.
func (r *StateRepository) Load(ctx context.Context, ruleID, entityID string) (*secondary.StateRecord, error) {
	var (
		lastEvaluated sql.NullTime
		lastAction    sql.NullTime
	)

	record := &secondary.StateRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT rule_id, entity_id, highest_rank, highest_level, last_evaluated_at, last_action_at FROM escalation_states WHERE rule_id = ? AND entity_id = ?`,
		ruleID, entityID,
	).Scan(&record.RuleID, &record.EntityID, &record.HighestRank, &record.HighestLevel, &lastEvaluated, &lastAction)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load escalation state: %w", err)
	}

	if lastEvaluated.Valid {
		record.LastEvaluatedAt = lastEvaluated.Time.Format(time.RFC3339)
	}
	if lastAction.Valid {
		record.LastActionAt = lastAction.Time.Format(time.RFC3339)
	}

	return record, nil
}

// Save upserts the state for a (rule, entity) pair.
func (r *StateRepository) Save(ctx context.Context, record *secondary.StateRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO escalation_states (rule_id, entity_id, highest_rank, highest_level, last_evaluated_at, last_action_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(rule_id, entity_id) DO UPDATE SET
			highest_rank = excluded.highest_rank,
			highest_level = excluded.highest_level,
			last_evaluated_at = excluded.last_evaluated_at,
			last_action_at = excluded.last_action_at`,
		record.RuleID,
		record.EntityID,
		record.HighestRank,
		record.HighestLevel,
		nullableTime(record.LastEvaluatedAt),
		nullableTime(record.LastActionAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save escalation state: %w", err)
	}

	return nil
}

// Delete removes the state for a (rule, entity) pair.
func (r *StateRepository) Delete(ctx context.Context, ruleID, entityID string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM escalation_states WHERE rule_id = ? AND entity_id = ?",
		ruleID, entityID)
	if err != nil {
		return fmt.Errorf("failed to delete escalation state: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("escalation state for (%s, %s) not found", ruleID, entityID)
	}

	return nil
}

// List retrieves states matching the given filters.
func (r *StateRepository) List(ctx context.Context, filters secondary.StateFilters) ([]*secondary.StateRecord, error) {
	query := `SELECT rule_id, entity_id, highest_rank, highest_level, last_evaluated_at, last_action_at FROM escalation_states WHERE 1=1`
	args := []any{}

	if filters.RuleID != "" {
		query += " AND rule_id = ?"
		args = append(args, filters.RuleID)
	}
	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}

	query += " ORDER BY rule_id, entity_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list escalation states: %w", err)
	}
	defer rows.Close()

	var records []*secondary.StateRecord
	for rows.Next() {
		var (
			lastEvaluated sql.NullTime
			lastAction    sql.NullTime
		)

		record := &secondary.StateRecord{}
		err := rows.Scan(&record.RuleID, &record.EntityID, &record.HighestRank, &record.HighestLevel, &lastEvaluated, &lastAction)
		if err != nil {
			return nil, fmt.Errorf("failed to scan escalation state: %w", err)
		}
		if lastEvaluated.Valid {
			record.LastEvaluatedAt = lastEvaluated.Time.Format(time.RFC3339)
		}
		if lastAction.Valid {
			record.LastActionAt = lastAction.Time.Format(time.RFC3339)
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func nullableTime(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// Ensure StateRepository implements the interface
var _ secondary.StateRepository = (*StateRepository)(nil)
