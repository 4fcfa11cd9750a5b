// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"

	"github.com/example/vigil/internal/core/rule"
)

// RuleRepository defines the secondary port for rule persistence.
type RuleRepository interface {
	// Create persists a new rule.
	Create(ctx context.Context, record *RuleRecord) error

	// GetByID retrieves a rule by its ID.
	GetByID(ctx context.Context, id string) (*RuleRecord, error)

	// Update updates an existing rule definition.
	Update(ctx context.Context, record *RuleRecord) error

	// Delete removes a rule from persistence.
	Delete(ctx context.Context, id string) error

	// List retrieves rules matching the given filters.
	List(ctx context.Context, filters RuleFilters) ([]*RuleRecord, error)

	// ListActive retrieves enabled rules for a scope. Rules with an
	// empty scope apply everywhere and are always included.
	ListActive(ctx context.Context, scope string) ([]*RuleRecord, error)

	// SetEnabled flips a rule's enabled flag.
	SetEnabled(ctx context.Context, id string, enabled bool) error

	// GetNextID returns the next available rule ID.
	GetNextID(ctx context.Context) (string, error)
}

// RuleRecord represents a rule as stored in persistence.
type RuleRecord struct {
	Rule      rule.Rule
	CreatedAt string
	UpdatedAt string
}

// RuleFilters contains filter options for querying rules.
type RuleFilters struct {
	Scope       string
	TriggerType string
	Enabled     *bool
	Limit       int
}

// StateRepository defines the secondary port for escalation state
// persistence. State rows are keyed by (rule, entity) and must survive
// process restarts - escalation never restarts from the bottom merely
// because the evaluator restarted.
type StateRepository interface {
	// Load retrieves the state for a (rule, entity) pair. Returns
	// (nil, nil) when no state exists yet - dormant pairs have no row.
	Load(ctx context.Context, ruleID, entityID string) (*StateRecord, error)

	// Save upserts the state for a (rule, entity) pair.
	Save(ctx context.Context, record *StateRecord) error

	// Delete removes the state for a (rule, entity) pair.
	Delete(ctx context.Context, ruleID, entityID string) error

	// List retrieves states matching the given filters.
	List(ctx context.Context, filters StateFilters) ([]*StateRecord, error)
}

// StateRecord represents per-(rule, entity) escalation state as stored
// in persistence.
type StateRecord struct {
	RuleID          string
	EntityID        string
	HighestRank     int
	HighestLevel    string
	LastEvaluatedAt string
	LastActionAt    string
}

// StateFilters contains filter options for querying escalation states.
type StateFilters struct {
	RuleID   string
	EntityID string
}

// ExecutionLogRepository defines the secondary port for the append-only
// execution log. Entries are never mutated after creation.
type ExecutionLogRepository interface {
	// Append persists a new log entry.
	Append(ctx context.Context, record *ExecutionLogRecord) error

	// List retrieves log entries matching the given filters, newest
	// first.
	List(ctx context.Context, filters ExecutionLogFilters) ([]*ExecutionLogRecord, error)

	// HasActioned reports whether a (rule, entity, level) triple
	// already has a successful or partial entry with actions attempted.
	HasActioned(ctx context.Context, ruleID, entityID, level string) (bool, error)
}

// ExecutionLogRecord represents one evaluation outcome as stored in the
// execution log.
type ExecutionLogRecord struct {
	ID               string
	RuleID           string
	EntityID         string
	MatchedLevel     string // empty when the rule did not match
	ActionsAttempted []string
	Status           string // 'success', 'partial', 'error', 'skipped'
	ErrorMessage     string
	ExecutedAt       string
}

// ExecutionLogFilters contains filter options for querying the log.
type ExecutionLogFilters struct {
	RuleID   string
	EntityID string
	Status   string
	Limit    int
}

// Execution log status constants
const (
	ExecutionStatusSuccess = "success"
	ExecutionStatusPartial = "partial"
	ExecutionStatusError   = "error"
	ExecutionStatusSkipped = "skipped"
)

// TemplateRepository defines the secondary port for the rule template
// catalog. The catalog is immutable at runtime.
type TemplateRepository interface {
	// GetByID retrieves a template by its ID.
	GetByID(ctx context.Context, id string) (*rule.Template, error)

	// List retrieves all templates, optionally filtered by category.
	List(ctx context.Context, category string) ([]*rule.Template, error)
}

// AlertRepository defines the secondary port for alert persistence.
type AlertRepository interface {
	// Create persists a new alert.
	Create(ctx context.Context, record *AlertRecord) error

	// List retrieves alerts matching the given filters, newest first.
	List(ctx context.Context, filters AlertFilters) ([]*AlertRecord, error)

	// GetNextID returns the next available alert ID.
	GetNextID(ctx context.Context) (string, error)
}

// AlertRecord represents an alert as stored in persistence.
type AlertRecord struct {
	ID        string
	Scope     string
	Message   string
	Severity  string
	CreatedAt string
}

// AlertFilters contains filter options for querying alerts.
type AlertFilters struct {
	Scope    string
	Severity string
	Limit    int
}
