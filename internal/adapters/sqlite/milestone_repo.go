package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/vigil/internal/core/trigger"
	"github.com/example/vigil/internal/ports/secondary"
)

// MilestoneRepository implements secondary.MilestoneRepository with
// SQLite.
type MilestoneRepository struct {
	db *sql.DB
}

// NewMilestoneRepository creates a new SQLite milestone repository.
func NewMilestoneRepository(db *sql.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

// Create persists a new milestone.
func (r *MilestoneRepository) Create(ctx context.Context, record *secondary.MilestoneRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO milestones (id, project_id, name, due_date, status) VALUES (?, ?, ?, ?, ?)`,
		record.ID,
		record.ProjectID,
		record.Name,
		nullableTime(record.DueDate),
		record.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create milestone: %w", err)
	}
	return nil
}

// GetByID retrieves a milestone by its ID.
func (r *MilestoneRepository) GetByID(ctx context.Context, id string) (*secondary.MilestoneRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, due_date, status, completed_date FROM milestones WHERE id = ?`, id)

	record, err := scanMilestone(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("milestone %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get milestone: %w", err)
	}
	return record, nil
}

// List retrieves milestones matching the given filters.
func (r *MilestoneRepository) List(ctx context.Context, filters secondary.MilestoneFilters) ([]*secondary.MilestoneRecord, error) {
	query := `SELECT id, project_id, name, due_date, status, completed_date FROM milestones WHERE 1=1`
	args := []any{}

	if filters.ProjectID != "" {
		query += " AND project_id = ?"
		args = append(args, filters.ProjectID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY id"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	var records []*secondary.MilestoneRecord
	for rows.Next() {
		record, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// UpdateStatus sets a milestone's status. The completed date is
// stamped when the status becomes completed and cleared otherwise, so
// a re-opened milestone can go overdue (and re-escalate) again.
func (r *MilestoneRepository) UpdateStatus(ctx context.Context, id, status string) error {
	var query string
	if status == trigger.MilestoneStatusCompleted {
		query = "UPDATE milestones SET status = ?, completed_date = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	} else {
		query = "UPDATE milestones SET status = ?, completed_date = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	}

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update milestone status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("milestone %s not found", id)
	}

	return nil
}

// UpdateDueDate sets or clears a milestone's due date.
func (r *MilestoneRepository) UpdateDueDate(ctx context.Context, id, dueDate string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE milestones SET due_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		nullableTime(dueDate), id)
	if err != nil {
		return fmt.Errorf("failed to update milestone due date: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("milestone %s not found", id)
	}

	return nil
}

// GetNextID returns the next available milestone ID.
func (r *MilestoneRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	prefixLen := len("MS-") + 1
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM milestones", prefixLen),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next milestone ID: %w", err)
	}

	return fmt.Sprintf("MS-%03d", maxID+1), nil
}

func scanMilestone(s scanner) (*secondary.MilestoneRecord, error) {
	var (
		dueDate       sql.NullTime
		completedDate sql.NullTime
	)

	record := &secondary.MilestoneRecord{}
	err := s.Scan(&record.ID, &record.ProjectID, &record.Name, &dueDate, &record.Status, &completedDate)
	if err != nil {
		return nil, err
	}
	if dueDate.Valid {
		record.DueDate = dueDate.Time.Format(time.RFC3339)
	}
	if completedDate.Valid {
		record.CompletedDate = completedDate.Time.Format(time.RFC3339)
	}

	return record, nil
}

// Ensure MilestoneRepository implements the interface
var _ secondary.MilestoneRepository = (*MilestoneRepository)(nil)
