package primary

import "context"

// StateService defines the primary port for inspecting and resetting
// escalation state.
type StateService interface {
	// ListStates lists escalation states with optional filters.
	ListStates(ctx context.Context, filters StateFilters) ([]*EscalationState, error)

	// ResetState clears the state for one (rule, entity) pair so a
	// recurrence escalates from the bottom again.
	ResetState(ctx context.Context, ruleID, entityID string) error

	// AuditStates cross-checks state rows against the execution log
	// and reports rows whose recorded level has no actioned entry.
	AuditStates(ctx context.Context) ([]*StateAudit, error)
}

// StateAudit flags one state row that drifted from the execution log:
// the ladder claims a level was actioned but the log never recorded
// actions for it.
type StateAudit struct {
	RuleID       string
	EntityID     string
	HighestLevel string
}

// EscalationState represents per-(rule, entity) progression at the
// port boundary.
type EscalationState struct {
	RuleID          string
	EntityID        string
	HighestRank     int
	HighestLevel    string
	LastEvaluatedAt string
	LastActionAt    string
}

// StateFilters contains filter options for listing states.
type StateFilters struct {
	RuleID   string
	EntityID string
}
