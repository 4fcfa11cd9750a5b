package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/vigil/internal/ports/secondary"
)

// MetricSampleRepository implements secondary.MetricSampleRepository
// with SQLite.
type MetricSampleRepository struct {
	db *sql.DB
}

// NewMetricSampleRepository creates a new SQLite metric sample repository.
func NewMetricSampleRepository(db *sql.DB) *MetricSampleRepository {
	return &MetricSampleRepository{db: db}
}

// Record persists one sample. An empty ID is assigned a fresh UUID;
// an empty timestamp is stamped with the current time.
func (r *MetricSampleRepository) Record(ctx context.Context, record *secondary.MetricSampleRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp == "" {
		record.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO metric_samples (id, scope, metric, value, recorded_at) VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.Scope, record.Metric, record.Value, record.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to record metric sample: %w", err)
	}

	return nil
}

// List retrieves samples for one metric in a scope, oldest first.
// When limit > 0 only the most recent samples are returned, still
// in chronological order.
func (r *MetricSampleRepository) List(ctx context.Context, scope, metricName string, limit int) ([]*secondary.MetricSampleRecord, error) {
	query := `SELECT id, scope, metric, value, recorded_at FROM metric_samples WHERE scope = ? AND metric = ? ORDER BY recorded_at`
	args := []any{scope, metricName}

	if limit > 0 {
		// Take the newest rows, then restore chronological order.
		query = `SELECT id, scope, metric, value, recorded_at FROM (
			SELECT id, scope, metric, value, recorded_at FROM metric_samples
			WHERE scope = ? AND metric = ? ORDER BY recorded_at DESC LIMIT ?
		) ORDER BY recorded_at`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list metric samples: %w", err)
	}
	defer rows.Close()

	var records []*secondary.MetricSampleRecord
	for rows.Next() {
		var recordedAt time.Time

		record := &secondary.MetricSampleRecord{}
		if err := rows.Scan(&record.ID, &record.Scope, &record.Metric, &record.Value, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan metric sample: %w", err)
		}
		record.Timestamp = recordedAt.Format(time.RFC3339)

		records = append(records, record)
	}

	return records, rows.Err()
}

// Metrics returns the distinct metric names with samples in a scope.
func (r *MetricSampleRepository) Metrics(ctx context.Context, scope string) ([]string, error) {
	query := "SELECT DISTINCT metric FROM metric_samples"
	args := []any{}
	if scope != "" {
		query += " WHERE scope = ?"
		args = append(args, scope)
	}
	query += " ORDER BY metric"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	defer rows.Close()

	var metrics []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan metric name: %w", err)
		}
		metrics = append(metrics, name)
	}

	return metrics, rows.Err()
}

// Ensure MetricSampleRepository implements the interface
var _ secondary.MetricSampleRepository = (*MetricSampleRepository)(nil)
