package primary

import "context"

// ExecutionLogService defines the primary port for reading the
// append-only execution log.
type ExecutionLogService interface {
	// ListEntries lists log entries with optional filters, newest
	// first.
	ListEntries(ctx context.Context, filters ExecutionLogFilters) ([]*ExecutionLogEntry, error)
}

// ExecutionLogEntry represents one evaluation outcome at the port
// boundary.
type ExecutionLogEntry struct {
	ID               string
	RuleID           string
	EntityID         string
	MatchedLevel     string
	ActionsAttempted []string
	Status           string
	ErrorMessage     string
	ExecutedAt       string
}

// ExecutionLogFilters contains filter options for listing log entries.
type ExecutionLogFilters struct {
	RuleID   string
	EntityID string
	Status   string
	Limit    int
}

// AlertService defines the primary port for reading raised alerts.
type AlertService interface {
	// ListAlerts lists alerts with optional filters, newest first.
	ListAlerts(ctx context.Context, filters AlertFilters) ([]*Alert, error)
}

// Alert represents a raised alert at the port boundary.
type Alert struct {
	ID        string
	Scope     string
	Message   string
	Severity  string
	CreatedAt string
}

// AlertFilters contains filter options for listing alerts.
type AlertFilters struct {
	Scope    string
	Severity string
	Limit    int
}
