package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/vigil/internal/ports/secondary"
)

// AlertRepository implements secondary.AlertRepository with SQLite.
// It doubles as the engine's AlertSink: create_alert actions land
// here.
type AlertRepository struct {
	db *sql.DB
}

// NewAlertRepository creates a new SQLite alert repository.
func NewAlertRepository(db *sql.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create persists a new alert.
func (r *AlertRepository) Create(ctx context.Context, record *secondary.AlertRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (id, scope, message, severity) VALUES (?, ?, ?, ?)`,
		record.ID,
		record.Scope,
		record.Message,
		record.Severity,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	return nil
}

// List retrieves alerts matching the given filters, newest first.
func (r *AlertRepository) List(ctx context.Context, filters secondary.AlertFilters) ([]*secondary.AlertRecord, error) {
	query := `SELECT id, scope, message, severity, created_at FROM alerts WHERE 1=1`
	args := []any{}

	if filters.Scope != "" {
		query += " AND scope = ?"
		args = append(args, filters.Scope)
	}
	if filters.Severity != "" {
		query += " AND severity = ?"
		args = append(args, filters.Severity)
	}

	query += " ORDER BY created_at DESC, id"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var records []*secondary.AlertRecord
	for rows.Next() {
		var createdAt time.Time

		record := &secondary.AlertRecord{}
		if err := rows.Scan(&record.ID, &record.Scope, &record.Message, &record.Severity, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)

		records = append(records, record)
	}

	return records, rows.Err()
}

// GetNextID returns the next available alert ID.
func (r *AlertRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("AL-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM alerts", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next alert ID: %w", err)
	}

	return fmt.Sprintf("AL-%03d", maxID+1), nil
}

// CreateAlert implements secondary.AlertSink over the alerts table.
func (r *AlertRepository) CreateAlert(ctx context.Context, scope, message, severity string) error {
	id, err := r.GetNextID(ctx)
	if err != nil {
		return err
	}
	return r.Create(ctx, &secondary.AlertRecord{
		ID:       id,
		Scope:    scope,
		Message:  message,
		Severity: severity,
	})
}

// Ensure AlertRepository implements the interfaces
var (
	_ secondary.AlertRepository = (*AlertRepository)(nil)
	_ secondary.AlertSink       = (*AlertRepository)(nil)
)
