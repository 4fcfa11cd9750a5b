package rule

import "fmt"

// ValidationError describes one way a rule definition is malformed.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the validation error as field: message.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrorsToError collapses a non-empty validation error list into a
// single error for callers that only need pass/fail.
func ErrorsToError(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msg := errs[0].Error()
	for _, e := range errs[1:] {
		msg += "; " + e.Error()
	}
	return fmt.Errorf("invalid rule: %s", msg)
}

// Validate checks a rule definition against all structural invariants.
// Rules are validated once at save time; the evaluator trusts any rule
// that passed here. Returns an empty slice for a valid rule.
func Validate(r *Rule) []ValidationError {
	var errs []ValidationError

	if r.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}

	if !validTriggerType(r.TriggerType) {
		errs = append(errs, ValidationError{
			Field:   "trigger_type",
			Message: fmt.Sprintf("unknown trigger type %q", r.TriggerType),
		})
		// Per-type config checks are meaningless without a valid type.
		return errs
	}

	errs = append(errs, validateTriggerConfig(r)...)
	errs = append(errs, validateLevels(r.Levels)...)
	errs = append(errs, validateActions(r)...)

	if len(r.Levels) == 0 && len(r.Actions) == 0 {
		errs = append(errs, ValidationError{
			Field:   "actions",
			Message: "rule must define at least one escalation level or one action",
		})
	}

	return errs
}

func validTriggerType(t TriggerType) bool {
	for _, tt := range TriggerTypes {
		if t == tt {
			return true
		}
	}
	return false
}

func validOperator(op Operator) bool {
	for _, o := range Operators {
		if op == o {
			return true
		}
	}
	return false
}

// validateTriggerConfig checks the fields required by the rule's
// trigger type. Fields belonging to other trigger types are ignored.
func validateTriggerConfig(r *Rule) []ValidationError {
	var errs []ValidationError

	switch r.TriggerType {
	case TriggerMilestoneDueSoon:
		if r.Trigger.DaysBeforeDue == nil {
			errs = append(errs, ValidationError{
				Field:   "trigger.days_before_due",
				Message: "milestone_due_soon requires days_before_due",
			})
		} else if *r.Trigger.DaysBeforeDue < 0 {
			errs = append(errs, ValidationError{
				Field:   "trigger.days_before_due",
				Message: "days_before_due must not be negative",
			})
		}

	case TriggerMetricThreshold, TriggerMetricDeviation:
		if r.Trigger.Metric == "" {
			errs = append(errs, ValidationError{
				Field:   "trigger.metric",
				Message: fmt.Sprintf("%s requires a metric name", r.TriggerType),
			})
		}
		if r.Trigger.Operator == "" {
			errs = append(errs, ValidationError{
				Field:   "trigger.operator",
				Message: fmt.Sprintf("%s requires an operator", r.TriggerType),
			})
		} else if !validOperator(r.Trigger.Operator) {
			errs = append(errs, ValidationError{
				Field:   "trigger.operator",
				Message: fmt.Sprintf("unknown operator %q", r.Trigger.Operator),
			})
		}
		if r.Trigger.Threshold == nil {
			errs = append(errs, ValidationError{
				Field:   "trigger.threshold",
				Message: fmt.Sprintf("%s requires a threshold", r.TriggerType),
			})
		}
		// between is rejected here, at save time, never at evaluation time.
		if r.Trigger.Operator == OpBetween && r.Trigger.ThresholdMax == nil {
			errs = append(errs, ValidationError{
				Field:   "trigger.threshold_max",
				Message: "operator between requires threshold_max",
			})
		}
		if r.Trigger.Operator == OpBetween && r.Trigger.Threshold != nil && r.Trigger.ThresholdMax != nil &&
			*r.Trigger.ThresholdMax < *r.Trigger.Threshold {
			errs = append(errs, ValidationError{
				Field:   "trigger.threshold_max",
				Message: "threshold_max must not be below threshold",
			})
		}
		if r.TriggerType == TriggerMetricDeviation && r.Trigger.BaselineWindow < 0 {
			errs = append(errs, ValidationError{
				Field:   "trigger.baseline_window",
				Message: "baseline_window must not be negative",
			})
		}
		if len(r.Levels) == 0 && r.Severity != "" && !ValidLevelTag(r.Severity) {
			errs = append(errs, ValidationError{
				Field:   "severity",
				Message: fmt.Sprintf("unknown severity tag %q", r.Severity),
			})
		}
	}

	return errs
}

// validateLevels enforces the ladder invariant: thresholds sorted
// ascending with strictly increasing values, and recognized level tags.
func validateLevels(levels []EscalationLevel) []ValidationError {
	var errs []ValidationError

	for i, lvl := range levels {
		if !ValidLevelTag(lvl.Level) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("levels[%d].level", i),
				Message: fmt.Sprintf("unknown level tag %q", lvl.Level),
			})
		}
		if i > 0 && lvl.ThresholdValue <= levels[i-1].ThresholdValue {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("levels[%d].threshold_value", i),
				Message: fmt.Sprintf("thresholds must be strictly ascending (%v after %v)", lvl.ThresholdValue, levels[i-1].ThresholdValue),
			})
		}
		errs = append(errs, validateActionList(lvl.Actions, fmt.Sprintf("levels[%d].actions", i))...)
	}

	return errs
}

func validateActions(r *Rule) []ValidationError {
	return validateActionList(r.Actions, "actions")
}

func validateActionList(actions []Action, field string) []ValidationError {
	var errs []ValidationError

	for i, a := range actions {
		prefix := fmt.Sprintf("%s[%d]", field, i)
		valid := false
		for _, at := range ActionTypes {
			if a.Type == at {
				valid = true
				break
			}
		}
		if !valid {
			errs = append(errs, ValidationError{
				Field:   prefix + ".type",
				Message: fmt.Sprintf("unknown action type %q", a.Type),
			})
			continue
		}

		switch a.Type {
		case ActionUpdateProjectStatus, ActionUpdateMilestoneStatus:
			if a.Status == "" {
				errs = append(errs, ValidationError{
					Field:   prefix + ".status",
					Message: fmt.Sprintf("%s requires a status", a.Type),
				})
			}
		case ActionCreateAlert:
			if a.Message == "" {
				errs = append(errs, ValidationError{
					Field:   prefix + ".message",
					Message: "create_alert requires a message",
				})
			}
		case ActionSendEmail:
			if len(a.Recipients) == 0 {
				errs = append(errs, ValidationError{
					Field:   prefix + ".recipients",
					Message: "send_email requires at least one recipient",
				})
			}
			if a.Subject == "" {
				errs = append(errs, ValidationError{
					Field:   prefix + ".subject",
					Message: "send_email requires a subject",
				})
			}
		}
	}

	return errs
}
