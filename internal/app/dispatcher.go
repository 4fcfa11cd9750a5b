package app

import (
	"context"
	"fmt"

	"github.com/example/vigil/internal/core/message"
	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/core/trigger"
	"github.com/example/vigil/internal/ports/secondary"
)

// Dispatcher executes the actions of a newly reached escalation level.
// Failures are contained per action: one failing side effect never
// blocks the remaining actions, and the caller decides how to record
// the partial outcome.
type Dispatcher struct {
	notifier secondary.Notifier
	mutator  secondary.EntityMutator
	alerts   secondary.AlertSink
}

// NewDispatcher creates a new Dispatcher with injected collaborators.
func NewDispatcher(notifier secondary.Notifier, mutator secondary.EntityMutator, alerts secondary.AlertSink) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		mutator:  mutator,
		alerts:   alerts,
	}
}

// DispatchContext carries everything needed to execute one level's
// actions for one entity.
type DispatchContext struct {
	Rule       *rule.Rule
	Match      trigger.MatchResult
	EntityID   string
	EntityName string
	ProjectID  string
	DueDate    string
}

// DispatchResult reports per-action outcomes for one dispatch.
type DispatchResult struct {
	Attempted []string // action types, in execution order
	Failures  []error  // one entry per failed action
}

// Succeeded reports whether every attempted action completed.
func (r DispatchResult) Succeeded() bool {
	return len(r.Failures) == 0
}

// AllFailed reports whether no attempted action completed.
func (r DispatchResult) AllFailed() bool {
	return len(r.Attempted) > 0 && len(r.Failures) == len(r.Attempted)
}

// Dispatch executes the effective actions for a matched level. A level
// with its own action list overrides the rule's defaults.
func (d *Dispatcher) Dispatch(ctx context.Context, dctx DispatchContext) DispatchResult {
	actions := dctx.Rule.Actions
	if dctx.Match.Level != nil && len(dctx.Match.Level.Actions) > 0 {
		actions = dctx.Match.Level.Actions
	}

	msgCtx := message.Context{
		RuleName:    dctx.Rule.Name,
		EntityID:    dctx.EntityID,
		EntityName:  dctx.EntityName,
		ProjectID:   dctx.ProjectID,
		Level:       dctx.Match.LevelTag,
		DaysOverdue: dctx.Match.DaysOverdue,
		Value:       dctx.Match.Value,
		DueDate:     dctx.DueDate,
	}

	var result DispatchResult
	for _, a := range actions {
		result.Attempted = append(result.Attempted, string(a.Type))
		if err := d.execute(ctx, a, dctx, msgCtx); err != nil {
			result.Failures = append(result.Failures, fmt.Errorf("%s: %w", a.Type, err))
		}
	}
	return result
}

func (d *Dispatcher) execute(ctx context.Context, a rule.Action, dctx DispatchContext, msgCtx message.Context) error {
	switch a.Type {
	case rule.ActionNotifyTeam:
		return d.notifier.NotifyTeam(ctx, dctx.ProjectID, d.notifyText(a, dctx, msgCtx))

	case rule.ActionUpdateProjectStatus:
		return d.mutator.UpdateProjectStatus(ctx, dctx.ProjectID, a.Status)

	case rule.ActionUpdateMilestoneStatus:
		return d.mutator.UpdateMilestoneStatus(ctx, dctx.EntityID, a.Status)

	case rule.ActionCreateAlert:
		return d.alerts.CreateAlert(ctx, dctx.ProjectID, message.Render(a.Message, msgCtx), dctx.Match.LevelTag)

	case rule.ActionSendEmail:
		subject := message.Render(a.Subject, msgCtx)
		body := message.Render(a.Body, msgCtx)
		return d.notifier.SendEmail(ctx, a.Recipients, subject, body)

	default:
		// Validation rejects unknown action types at save time; this
		// is unreachable for persisted rules.
		return fmt.Errorf("unknown action type %q", a.Type)
	}
}

// notifyText picks the notification body: the action's own message,
// then the matched level's message, then a generated fallback.
func (d *Dispatcher) notifyText(a rule.Action, dctx DispatchContext, msgCtx message.Context) string {
	if a.Message != "" {
		return message.Render(a.Message, msgCtx)
	}
	if dctx.Match.Level != nil && dctx.Match.Level.Message != "" {
		return message.Render(dctx.Match.Level.Message, msgCtx)
	}
	return fmt.Sprintf("%s: %s (%s)", dctx.Rule.Name, dctx.Match.Reason, dctx.EntityID)
}
