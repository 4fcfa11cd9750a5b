package primary

import (
	"context"
	"time"
)

// EngineService defines the primary port for the evaluation engine.
// RunCycle is the sole operation external schedulers invoke.
type EngineService interface {
	// RunCycle evaluates all active rules against all candidate
	// entities in a scope and dispatches actions for new escalations.
	RunCycle(ctx context.Context, req RunCycleRequest) (*CycleReport, error)
}

// RunCycleRequest configures one evaluation pass.
type RunCycleRequest struct {
	// Scope limits candidates to one project; empty evaluates all.
	Scope string
	// Now is the evaluation clock. The CLI passes wall time; tests
	// pass fixed instants.
	Now time.Time
	// DryRun evaluates and reports without dispatching actions,
	// writing state, or appending to the execution log.
	DryRun bool
}

// CycleReport summarizes one evaluation pass.
type CycleReport struct {
	Scope      string
	StartedAt  string
	FinishedAt string
	Evaluated  int // (rule, entity) pairs evaluated
	Matched    int // pairs whose trigger condition held
	Escalated  int // pairs where a new level fired actions
	Errors     int // pairs with evaluation, action, or persistence errors
	Pairs      []PairOutcome
}

// PairOutcome records what happened to one (rule, entity) pair during
// a cycle.
type PairOutcome struct {
	RuleID           string
	RuleName         string
	EntityID         string
	Matched          bool
	Level            string // matched level tag, empty when not matched
	Transition       string // none, escalate, reset
	ActionsAttempted []string
	Status           string // success, partial, error, skipped
	Error            string
	Reason           string
}

// Pair transition names, mirroring the ladder's state machine.
const (
	TransitionNone     = "none"
	TransitionEscalate = "escalate"
	TransitionReset    = "reset"
)
