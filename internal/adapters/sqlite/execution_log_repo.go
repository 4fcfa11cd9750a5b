package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/vigil/internal/ports/secondary"
)

// ExecutionLogRepository implements secondary.ExecutionLogRepository
// with SQLite. The log is append-only - there is deliberately no
// update or delete.
type ExecutionLogRepository struct {
	db *sql.DB
}

// NewExecutionLogRepository creates a new SQLite execution log repository.
func NewExecutionLogRepository(db *sql.DB) *ExecutionLogRepository {
	return &ExecutionLogRepository{db: db}
}

// Append persists a new log entry. An empty ID is assigned a fresh
// UUID.
func (r *ExecutionLogRepository) Append(ctx context.Context, record *secondary.ExecutionLogRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	actionsJSON, err := json.Marshal(record.ActionsAttempted)
	if err != nil {
		return fmt.Errorf("failed to encode attempted actions: %w", err)
	}
	if record.ActionsAttempted == nil {
		actionsJSON = []byte("[]")
	}

	executedAt := record.ExecutedAt
	if executedAt == "" {
		executedAt = time.Now().UTC().Format(time.RFC3339)
		record.ExecutedAt = executedAt
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO execution_log (id, rule_id, entity_id, matched_level, actions_attempted, status, error_message, executed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.RuleID,
		record.EntityID,
		record.MatchedLevel,
		string(actionsJSON),
		record.Status,
		record.ErrorMessage,
		executedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append execution log entry: %w", err)
	}

	return nil
}

// List retrieves log entries matching the given filters, newest first.
func (r *ExecutionLogRepository) List(ctx context.Context, filters secondary.ExecutionLogFilters) ([]*secondary.ExecutionLogRecord, error) {
	query := `SELECT id, rule_id, entity_id, matched_level, actions_attempted, status, error_message, executed_at FROM execution_log WHERE 1=1`
	args := []any{}

	if filters.RuleID != "" {
		query += " AND rule_id = ?"
		args = append(args, filters.RuleID)
	}
	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY executed_at DESC, id"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list execution log: %w", err)
	}
	defer rows.Close()

	var records []*secondary.ExecutionLogRecord
	for rows.Next() {
		var (
			actionsJSON  string
			errorMessage sql.NullString
			executedAt   time.Time
		)

		record := &secondary.ExecutionLogRecord{}
		err := rows.Scan(&record.ID, &record.RuleID, &record.EntityID, &record.MatchedLevel, &actionsJSON, &record.Status, &errorMessage, &executedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution log entry: %w", err)
		}
		record.ErrorMessage = errorMessage.String
		record.ExecutedAt = executedAt.Format(time.RFC3339)
		if err := json.Unmarshal([]byte(actionsJSON), &record.ActionsAttempted); err != nil {
			return nil, fmt.Errorf("corrupt attempted actions in log entry %s: %w", record.ID, err)
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

// HasActioned reports whether a (rule, entity, level) triple already
// has an entry with actions attempted.
func (r *ExecutionLogRepository) HasActioned(ctx context.Context, ruleID, entityID, level string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM execution_log WHERE rule_id = ? AND entity_id = ? AND matched_level = ? AND status IN (?, ?) AND actions_attempted != '[]'`,
		ruleID, entityID, level, secondary.ExecutionStatusSuccess, secondary.ExecutionStatusPartial,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check execution log: %w", err)
	}
	return count > 0, nil
}

// Ensure ExecutionLogRepository implements the interface
var _ secondary.ExecutionLogRepository = (*ExecutionLogRepository)(nil)
