package rule

// Template is an immutable catalog entry used to pre-populate a new
// rule. A template has no runtime coupling to rules created from it.
type Template struct {
	ID          string
	Name        string
	Description string
	Category    string
	TriggerType TriggerType
	Trigger     TriggerConfig
	Severity    string
	Levels      []EscalationLevel
	Actions     []Action
}

// Overrides carries the caller customizations applied on top of a
// template when instantiating a rule. Zero-valued fields keep the
// template's defaults.
type Overrides struct {
	Name          string
	Description   string
	Scope         string
	CreatedBy     string
	DaysBeforeDue *int
	Metric        string
	Threshold     *float64
	ThresholdMax  *float64
	Levels        []EscalationLevel
	Actions       []Action
}

// Instantiate builds a rule from a template plus caller overrides.
// Templates are conveniences, not a validation bypass: the caller must
// run Validate on the result before persisting it.
func Instantiate(t *Template, o Overrides) *Rule {
	r := &Rule{
		Name:        t.Name,
		Description: t.Description,
		TriggerType: t.TriggerType,
		Trigger:     t.Trigger,
		Severity:    t.Severity,
		Levels:      cloneLevels(t.Levels),
		Actions:     cloneActions(t.Actions),
		Enabled:     true,
	}

	if o.Name != "" {
		r.Name = o.Name
	}
	if o.Description != "" {
		r.Description = o.Description
	}
	r.Scope = o.Scope
	r.CreatedBy = o.CreatedBy
	if o.DaysBeforeDue != nil {
		r.Trigger.DaysBeforeDue = o.DaysBeforeDue
	}
	if o.Metric != "" {
		r.Trigger.Metric = o.Metric
	}
	if o.Threshold != nil {
		r.Trigger.Threshold = o.Threshold
	}
	if o.ThresholdMax != nil {
		r.Trigger.ThresholdMax = o.ThresholdMax
	}
	if len(o.Levels) > 0 {
		r.Levels = cloneLevels(o.Levels)
	}
	if len(o.Actions) > 0 {
		r.Actions = cloneActions(o.Actions)
	}

	return r
}

func cloneLevels(levels []EscalationLevel) []EscalationLevel {
	if levels == nil {
		return nil
	}
	out := make([]EscalationLevel, len(levels))
	for i, lvl := range levels {
		out[i] = lvl
		out[i].NotifyRoles = append([]string(nil), lvl.NotifyRoles...)
		out[i].Actions = cloneActions(lvl.Actions)
	}
	return out
}

func cloneActions(actions []Action) []Action {
	if actions == nil {
		return nil
	}
	out := make([]Action, len(actions))
	for i, a := range actions {
		out[i] = a
		out[i].Recipients = append([]string(nil), a.Recipients...)
	}
	return out
}
