package app

import (
	"context"
	"fmt"

	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/ports/secondary"
)

// StateServiceImpl implements the StateService interface.
type StateServiceImpl struct {
	stateRepo secondary.StateRepository
	logRepo   secondary.ExecutionLogRepository
}

// NewStateService creates a new StateService with injected dependencies.
func NewStateService(stateRepo secondary.StateRepository, logRepo secondary.ExecutionLogRepository) *StateServiceImpl {
	return &StateServiceImpl{stateRepo: stateRepo, logRepo: logRepo}
}

// ListStates lists escalation states with optional filters.
func (s *StateServiceImpl) ListStates(ctx context.Context, filters primary.StateFilters) ([]*primary.EscalationState, error) {
	records, err := s.stateRepo.List(ctx, secondary.StateFilters{
		RuleID:   filters.RuleID,
		EntityID: filters.EntityID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list escalation states: %w", err)
	}

	states := make([]*primary.EscalationState, len(records))
	for i, r := range records {
		states[i] = &primary.EscalationState{
			RuleID:          r.RuleID,
			EntityID:        r.EntityID,
			HighestRank:     r.HighestRank,
			HighestLevel:    r.HighestLevel,
			LastEvaluatedAt: r.LastEvaluatedAt,
			LastActionAt:    r.LastActionAt,
		}
	}
	return states, nil
}

// ResetState clears the state for one (rule, entity) pair so a
// recurrence escalates from the bottom again.
func (s *StateServiceImpl) ResetState(ctx context.Context, ruleID, entityID string) error {
	if err := s.stateRepo.Delete(ctx, ruleID, entityID); err != nil {
		return fmt.Errorf("failed to reset escalation state: %w", err)
	}
	return nil
}

// AuditStates cross-checks every state row against the execution log.
// The log is the append-only record of what was actually actioned, so
// a state row whose highest level never produced an actioned entry
// points at a lost log write or a hand-edited database. Rows for
// levels that carry no actions of their own can show up here too;
// callers should treat the result as a warning, not an error.
func (s *StateServiceImpl) AuditStates(ctx context.Context) ([]*primary.StateAudit, error) {
	records, err := s.stateRepo.List(ctx, secondary.StateFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list escalation states: %w", err)
	}

	var drift []*primary.StateAudit
	for _, r := range records {
		if r.HighestRank == 0 || r.HighestLevel == "" {
			continue
		}
		actioned, err := s.logRepo.HasActioned(ctx, r.RuleID, r.EntityID, r.HighestLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to check execution log for (%s, %s): %w", r.RuleID, r.EntityID, err)
		}
		if !actioned {
			drift = append(drift, &primary.StateAudit{
				RuleID:       r.RuleID,
				EntityID:     r.EntityID,
				HighestLevel: r.HighestLevel,
			})
		}
	}
	return drift, nil
}

// Ensure StateServiceImpl implements the interface
var _ primary.StateService = (*StateServiceImpl)(nil)
