// Package primary defines the primary ports (driving adapters) for the
// application: the service interfaces the CLI talks to and the boundary
// structs they exchange.
package primary

import (
	"context"

	"github.com/example/vigil/internal/core/rule"
)

// RuleService defines the primary port for rule catalog operations.
// Every write path runs full validation - a rule that was persisted is
// a rule the engine can trust.
type RuleService interface {
	// CreateRule validates and persists a new rule.
	CreateRule(ctx context.Context, req CreateRuleRequest) (*Rule, error)

	// CreateFromTemplate instantiates a template, applies overrides,
	// re-validates, and persists the result.
	CreateFromTemplate(ctx context.Context, req CreateFromTemplateRequest) (*Rule, error)

	// GetRule retrieves a rule by ID.
	GetRule(ctx context.Context, ruleID string) (*Rule, error)

	// ListRules lists rules with optional filters.
	ListRules(ctx context.Context, filters RuleFilters) ([]*Rule, error)

	// UpdateRule validates and persists a changed rule definition.
	UpdateRule(ctx context.Context, req UpdateRuleRequest) (*Rule, error)

	// DeleteRule removes a rule and its escalation state.
	DeleteRule(ctx context.Context, ruleID string) error

	// SetRuleEnabled enables or disables a rule.
	SetRuleEnabled(ctx context.Context, ruleID string, enabled bool) error

	// ValidateDefinition checks a rule definition without persisting it.
	ValidateDefinition(def rule.Rule) []rule.ValidationError

	// ImportRules validates and persists a batch of definitions,
	// reporting per-definition outcomes.
	ImportRules(ctx context.Context, defs []rule.Rule) (*ImportReport, error)
}

// Rule represents a rule entity at the port boundary.
type Rule struct {
	rule.Rule
	CreatedAt string
	UpdatedAt string
}

// RuleFilters contains filter options for listing rules.
type RuleFilters struct {
	Scope       string
	TriggerType string
	Enabled     *bool
	Limit       int
}

// CreateRuleRequest carries a new rule definition.
type CreateRuleRequest struct {
	Definition rule.Rule
}

// UpdateRuleRequest carries a changed rule definition. The ID selects
// the rule being updated.
type UpdateRuleRequest struct {
	RuleID     string
	Definition rule.Rule
}

// CreateFromTemplateRequest carries a template instantiation.
type CreateFromTemplateRequest struct {
	TemplateID string
	Overrides  rule.Overrides
}

// ImportReport summarizes a batch import.
type ImportReport struct {
	Created  []string // IDs of rules created
	Rejected []ImportRejection
}

// ImportRejection names one definition that failed validation.
type ImportRejection struct {
	Name   string
	Errors []rule.ValidationError
}
