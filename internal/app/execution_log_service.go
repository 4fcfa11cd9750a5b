package app

import (
	"context"
	"fmt"

	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/ports/secondary"
)

// ExecutionLogServiceImpl implements the ExecutionLogService interface.
type ExecutionLogServiceImpl struct {
	logRepo secondary.ExecutionLogRepository
}

// NewExecutionLogService creates a new ExecutionLogService with injected dependencies.
func NewExecutionLogService(logRepo secondary.ExecutionLogRepository) *ExecutionLogServiceImpl {
	return &ExecutionLogServiceImpl{logRepo: logRepo}
}

// ListEntries lists log entries with optional filters, newest first.
func (s *ExecutionLogServiceImpl) ListEntries(ctx context.Context, filters primary.ExecutionLogFilters) ([]*primary.ExecutionLogEntry, error) {
	records, err := s.logRepo.List(ctx, secondary.ExecutionLogFilters{
		RuleID:   filters.RuleID,
		EntityID: filters.EntityID,
		Status:   filters.Status,
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list execution log: %w", err)
	}

	entries := make([]*primary.ExecutionLogEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.ExecutionLogEntry{
			ID:               r.ID,
			RuleID:           r.RuleID,
			EntityID:         r.EntityID,
			MatchedLevel:     r.MatchedLevel,
			ActionsAttempted: r.ActionsAttempted,
			Status:           r.Status,
			ErrorMessage:     r.ErrorMessage,
			ExecutedAt:       r.ExecutedAt,
		}
	}
	return entries, nil
}

// AlertServiceImpl implements the AlertService interface.
type AlertServiceImpl struct {
	alertRepo secondary.AlertRepository
}

// NewAlertService creates a new AlertService with injected dependencies.
func NewAlertService(alertRepo secondary.AlertRepository) *AlertServiceImpl {
	return &AlertServiceImpl{alertRepo: alertRepo}
}

// ListAlerts lists alerts with optional filters, newest first.
func (s *AlertServiceImpl) ListAlerts(ctx context.Context, filters primary.AlertFilters) ([]*primary.Alert, error) {
	records, err := s.alertRepo.List(ctx, secondary.AlertFilters{
		Scope:    filters.Scope,
		Severity: filters.Severity,
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}

	alerts := make([]*primary.Alert, len(records))
	for i, r := range records {
		alerts[i] = &primary.Alert{
			ID:        r.ID,
			Scope:     r.Scope,
			Message:   r.Message,
			Severity:  r.Severity,
			CreatedAt: r.CreatedAt,
		}
	}
	return alerts, nil
}

// Ensure implementations satisfy the interfaces
var (
	_ primary.ExecutionLogService = (*ExecutionLogServiceImpl)(nil)
	_ primary.AlertService        = (*AlertServiceImpl)(nil)
)
