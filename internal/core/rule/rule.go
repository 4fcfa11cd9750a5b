// Package rule contains the pure business logic for automation rules.
// This is part of the Functional Core - no I/O, only pure functions.
package rule

// TriggerType identifies the category of condition a rule watches.
type TriggerType string

const (
	TriggerMilestoneOverdue   TriggerType = "milestone_overdue"
	TriggerMilestoneDueSoon   TriggerType = "milestone_due_soon"
	TriggerMilestoneCompleted TriggerType = "milestone_completed"
	TriggerMetricThreshold    TriggerType = "metric_threshold"
	TriggerMetricDeviation    TriggerType = "metric_deviation"
)

// TriggerTypes lists all valid trigger types in display order.
var TriggerTypes = []TriggerType{
	TriggerMilestoneOverdue,
	TriggerMilestoneDueSoon,
	TriggerMilestoneCompleted,
	TriggerMetricThreshold,
	TriggerMetricDeviation,
}

// Operator is a comparison operator for metric conditions.
type Operator string

const (
	OpGT      Operator = "gt"
	OpLT      Operator = "lt"
	OpEQ      Operator = "eq"
	OpGTE     Operator = "gte"
	OpLTE     Operator = "lte"
	OpBetween Operator = "between"
)

// Operators lists all valid comparison operators.
var Operators = []Operator{OpGT, OpLT, OpEQ, OpGTE, OpLTE, OpBetween}

// ActionType identifies what an action does when dispatched.
type ActionType string

const (
	ActionNotifyTeam            ActionType = "notify_team"
	ActionUpdateProjectStatus   ActionType = "update_project_status"
	ActionUpdateMilestoneStatus ActionType = "update_milestone_status"
	ActionCreateAlert           ActionType = "create_alert"
	ActionSendEmail             ActionType = "send_email"
)

// ActionTypes lists all valid action types.
var ActionTypes = []ActionType{
	ActionNotifyTeam,
	ActionUpdateProjectStatus,
	ActionUpdateMilestoneStatus,
	ActionCreateAlert,
	ActionSendEmail,
}

// Action is a pure description of a side effect. Execution is delegated
// to the dispatcher; an Action itself never performs I/O.
type Action struct {
	Type       ActionType `json:"type" yaml:"type"`
	Status     string     `json:"status,omitempty" yaml:"status,omitempty"`         // update_project_status / update_milestone_status
	Message    string     `json:"message,omitempty" yaml:"message,omitempty"`       // create_alert
	Recipients []string   `json:"recipients,omitempty" yaml:"recipients,omitempty"` // send_email
	Subject    string     `json:"subject,omitempty" yaml:"subject,omitempty"`       // send_email
	Body       string     `json:"body,omitempty" yaml:"body,omitempty"`             // send_email
}

// EscalationLevel is one severity tier within a rule's ladder.
// Levels are kept sorted by ascending ThresholdValue with strictly
// increasing values - Validate enforces this.
type EscalationLevel struct {
	Level          string   `json:"level" yaml:"level"`
	ThresholdValue float64  `json:"threshold_value" yaml:"threshold_value"`
	NotifyRoles    []string `json:"notify_roles,omitempty" yaml:"notify_roles,omitempty"`
	Message        string   `json:"message,omitempty" yaml:"message,omitempty"`
	Actions        []Action `json:"actions,omitempty" yaml:"actions,omitempty"` // overrides the rule's default actions
}

// TriggerConfig holds the per-trigger-type configuration payload.
// Which fields are required depends on the rule's TriggerType; Validate
// checks them once at save time so evaluation never sees a malformed
// config.
type TriggerConfig struct {
	DaysBeforeDue  *int     `json:"days_before_due,omitempty" yaml:"days_before_due,omitempty"`   // milestone_due_soon
	Metric         string   `json:"metric,omitempty" yaml:"metric,omitempty"`                     // metric triggers
	Operator       Operator `json:"operator,omitempty" yaml:"operator,omitempty"`                 // metric triggers
	Threshold      *float64 `json:"threshold,omitempty" yaml:"threshold,omitempty"`               // metric triggers
	ThresholdMax   *float64 `json:"threshold_max,omitempty" yaml:"threshold_max,omitempty"`       // between upper bound (inclusive)
	BaselineWindow int      `json:"baseline_window,omitempty" yaml:"baseline_window,omitempty"`   // metric_deviation: samples in the baseline average
}

// Rule is the domain type for an automation rule as evaluated by the
// engine. Persistence and CLI presentation use their own shapes at the
// port boundaries.
type Rule struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Scope       string            `json:"scope,omitempty" yaml:"scope,omitempty"` // project ID the rule applies to; empty means all
	TriggerType TriggerType       `json:"trigger_type" yaml:"trigger_type"`
	Trigger     TriggerConfig     `json:"trigger,omitempty" yaml:"trigger,omitempty"`
	Severity    string            `json:"severity,omitempty" yaml:"severity,omitempty"` // implicit level for metric rules without a ladder
	Levels      []EscalationLevel `json:"levels,omitempty" yaml:"levels,omitempty"`
	Actions     []Action          `json:"actions,omitempty" yaml:"actions,omitempty"` // defaults when a level has no override
	Enabled     bool              `json:"enabled" yaml:"enabled"`
	CreatedBy   string            `json:"created_by,omitempty" yaml:"created_by,omitempty"`
}

// IsMilestoneTrigger reports whether the rule watches milestone state.
func (r *Rule) IsMilestoneTrigger() bool {
	switch r.TriggerType {
	case TriggerMilestoneOverdue, TriggerMilestoneDueSoon, TriggerMilestoneCompleted:
		return true
	}
	return false
}

// IsMetricTrigger reports whether the rule watches metric samples.
func (r *Rule) IsMetricTrigger() bool {
	return r.TriggerType == TriggerMetricThreshold || r.TriggerType == TriggerMetricDeviation
}

// ActionsForLevel returns the effective action list for a matched level:
// the level's override when present, otherwise the rule's defaults.
func (r *Rule) ActionsForLevel(level *EscalationLevel) []Action {
	if level != nil && len(level.Actions) > 0 {
		return level.Actions
	}
	return r.Actions
}
