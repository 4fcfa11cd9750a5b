// Package catalog provides the built-in rule template catalog.
// Templates are compiled in and immutable at runtime; rules created
// from them keep no link back to the catalog.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/ports/secondary"
)

// Template categories
const (
	CategoryMilestone = "milestone"
	CategoryMetric    = "metric"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

var builtins = []*rule.Template{
	{
		ID:          "TPL-OVERDUE-LADDER",
		Name:        "Overdue milestone escalation",
		Description: "Escalates an overdue milestone from manager to director to admin as days overdue accumulate.",
		Category:    CategoryMilestone,
		TriggerType: rule.TriggerMilestoneOverdue,
		Levels: []rule.EscalationLevel{
			{Level: rule.LevelManager, ThresholdValue: 1, NotifyRoles: []string{"manager"}, Message: "Milestone {entity} in {project} is {days_overdue} day(s) overdue."},
			{Level: rule.LevelDirector, ThresholdValue: 3, NotifyRoles: []string{"director"}, Message: "Milestone {entity} in {project} is {days_overdue} days overdue and unresolved."},
			{Level: rule.LevelAdmin, ThresholdValue: 7, NotifyRoles: []string{"admin"}, Message: "Milestone {entity} in {project} has been overdue for {days_overdue} days."},
		},
		Actions: []rule.Action{
			{Type: rule.ActionNotifyTeam},
			{Type: rule.ActionCreateAlert, Message: "{entity} overdue by {days_overdue} day(s)"},
		},
	},
	{
		ID:          "TPL-DUE-SOON",
		Name:        "Upcoming milestone reminder",
		Description: "Reminds the team once when a milestone is approaching its due date.",
		Category:    CategoryMilestone,
		TriggerType: rule.TriggerMilestoneDueSoon,
		Trigger:     rule.TriggerConfig{DaysBeforeDue: intPtr(3)},
		Actions: []rule.Action{
			{Type: rule.ActionNotifyTeam},
		},
	},
	{
		ID:          "TPL-BUDGET-OVERRUN",
		Name:        "Budget overrun",
		Description: "Raises an alert when spend exceeds the project budget.",
		Category:    CategoryMetric,
		TriggerType: rule.TriggerMetricThreshold,
		Trigger: rule.TriggerConfig{
			Metric:    "budget_spend_ratio",
			Operator:  rule.OpGT,
			Threshold: floatPtr(1.0),
		},
		Severity: "3",
		Actions: []rule.Action{
			{Type: rule.ActionCreateAlert, Message: "Budget overrun in {project}: spend ratio {value}"},
			{Type: rule.ActionUpdateProjectStatus, Status: "at_risk"},
		},
	},
	{
		ID:          "TPL-LOW-COMPLIANCE",
		Name:        "Low compliance rate",
		Description: "Escalates as the compliance rate drops through successive floors.",
		Category:    CategoryMetric,
		TriggerType: rule.TriggerMetricThreshold,
		Trigger: rule.TriggerConfig{
			Metric:    "compliance_rate",
			Operator:  rule.OpLT,
			Threshold: floatPtr(0.90),
		},
		// Downward ladder: ascending thresholds, most severe tier first.
		Levels: []rule.EscalationLevel{
			{Level: "2", ThresholdValue: 0.75, NotifyRoles: []string{"director"}, Message: "Compliance rate in {project} dropped to {value}."},
			{Level: "1", ThresholdValue: 0.90, NotifyRoles: []string{"manager"}, Message: "Compliance rate in {project} is {value}, below target."},
		},
		Actions: []rule.Action{
			{Type: rule.ActionNotifyTeam},
		},
	},
	{
		ID:          "TPL-FAILURE-SPIKE",
		Name:        "Task failure rate spike",
		Description: "Detects a failure rate well above its recent baseline.",
		Category:    CategoryMetric,
		TriggerType: rule.TriggerMetricDeviation,
		Trigger: rule.TriggerConfig{
			Metric:         "task_failure_rate",
			Operator:       rule.OpGT,
			Threshold:      floatPtr(2.0),
			BaselineWindow: 7,
		},
		Severity: "2",
		Actions: []rule.Action{
			{Type: rule.ActionCreateAlert, Message: "Task failure rate in {project} is {value}, far above its recent baseline"},
		},
	},
}

// TemplateRepository implements secondary.TemplateRepository over the
// built-in catalog.
type TemplateRepository struct{}

// NewTemplateRepository creates the catalog-backed template repository.
func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{}
}

// GetByID retrieves a template by its ID.
func (r *TemplateRepository) GetByID(_ context.Context, id string) (*rule.Template, error) {
	for _, t := range builtins {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("template %s not found", id)
}

// List retrieves all templates, optionally filtered by category,
// ordered by ID.
func (r *TemplateRepository) List(_ context.Context, category string) ([]*rule.Template, error) {
	var out []*rule.Template
	for _, t := range builtins {
		if category != "" && t.Category != category {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Ensure TemplateRepository implements the interface
var _ secondary.TemplateRepository = (*TemplateRepository)(nil)
