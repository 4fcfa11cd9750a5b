package app

import (
	"context"
	"fmt"

	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/ports/secondary"
)

// RuleServiceImpl implements the RuleService interface.
type RuleServiceImpl struct {
	ruleRepo     secondary.RuleRepository
	templateRepo secondary.TemplateRepository
}

// NewRuleService creates a new RuleService with injected dependencies.
func NewRuleService(ruleRepo secondary.RuleRepository, templateRepo secondary.TemplateRepository) *RuleServiceImpl {
	return &RuleServiceImpl{
		ruleRepo:     ruleRepo,
		templateRepo: templateRepo,
	}
}

// CreateRule validates and persists a new rule.
func (s *RuleServiceImpl) CreateRule(ctx context.Context, req primary.CreateRuleRequest) (*primary.Rule, error) {
	def := req.Definition

	if errs := rule.Validate(&def); len(errs) > 0 {
		return nil, rule.ErrorsToError(errs)
	}

	if def.ID == "" {
		id, err := s.ruleRepo.GetNextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate rule ID: %w", err)
		}
		def.ID = id
	}

	record := &secondary.RuleRecord{Rule: def}
	if err := s.ruleRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	return s.GetRule(ctx, def.ID)
}

// CreateFromTemplate instantiates a template, applies overrides,
// re-validates, and persists the result.
func (s *RuleServiceImpl) CreateFromTemplate(ctx context.Context, req primary.CreateFromTemplateRequest) (*primary.Rule, error) {
	tpl, err := s.templateRepo.GetByID(ctx, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("template not found: %w", err)
	}

	def := rule.Instantiate(tpl, req.Overrides)
	return s.CreateRule(ctx, primary.CreateRuleRequest{Definition: *def})
}

// GetRule retrieves a rule by ID.
func (s *RuleServiceImpl) GetRule(ctx context.Context, ruleID string) (*primary.Rule, error) {
	record, err := s.ruleRepo.GetByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	return recordToRule(record), nil
}

// ListRules lists rules with optional filters.
func (s *RuleServiceImpl) ListRules(ctx context.Context, filters primary.RuleFilters) ([]*primary.Rule, error) {
	records, err := s.ruleRepo.List(ctx, secondary.RuleFilters{
		Scope:       filters.Scope,
		TriggerType: filters.TriggerType,
		Enabled:     filters.Enabled,
		Limit:       filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}

	rules := make([]*primary.Rule, len(records))
	for i, r := range records {
		rules[i] = recordToRule(r)
	}
	return rules, nil
}

// UpdateRule validates and persists a changed rule definition. The
// rule's escalation state is untouched; a tightened ladder takes
// effect on the next cycle.
func (s *RuleServiceImpl) UpdateRule(ctx context.Context, req primary.UpdateRuleRequest) (*primary.Rule, error) {
	existing, err := s.ruleRepo.GetByID(ctx, req.RuleID)
	if err != nil {
		return nil, fmt.Errorf("rule not found: %w", err)
	}

	def := req.Definition
	def.ID = existing.Rule.ID
	if def.CreatedBy == "" {
		def.CreatedBy = existing.Rule.CreatedBy
	}

	if errs := rule.Validate(&def); len(errs) > 0 {
		return nil, rule.ErrorsToError(errs)
	}

	if err := s.ruleRepo.Update(ctx, &secondary.RuleRecord{Rule: def}); err != nil {
		return nil, fmt.Errorf("failed to update rule: %w", err)
	}

	return s.GetRule(ctx, def.ID)
}

// DeleteRule removes a rule and its escalation state.
func (s *RuleServiceImpl) DeleteRule(ctx context.Context, ruleID string) error {
	if err := s.ruleRepo.Delete(ctx, ruleID); err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return nil
}

// SetRuleEnabled enables or disables a rule. Disabling does not clear
// state: a re-enabled rule resumes from its recorded high-water marks.
func (s *RuleServiceImpl) SetRuleEnabled(ctx context.Context, ruleID string, enabled bool) error {
	if err := s.ruleRepo.SetEnabled(ctx, ruleID, enabled); err != nil {
		return fmt.Errorf("failed to set rule enabled: %w", err)
	}
	return nil
}

// ValidateDefinition checks a rule definition without persisting it.
func (s *RuleServiceImpl) ValidateDefinition(def rule.Rule) []rule.ValidationError {
	return rule.Validate(&def)
}

// ImportRules validates and persists a batch of definitions. Invalid
// definitions are rejected individually; the rest are created.
func (s *RuleServiceImpl) ImportRules(ctx context.Context, defs []rule.Rule) (*primary.ImportReport, error) {
	report := &primary.ImportReport{}

	for _, def := range defs {
		if errs := rule.Validate(&def); len(errs) > 0 {
			report.Rejected = append(report.Rejected, primary.ImportRejection{
				Name:   def.Name,
				Errors: errs,
			})
			continue
		}

		created, err := s.CreateRule(ctx, primary.CreateRuleRequest{Definition: def})
		if err != nil {
			return report, fmt.Errorf("failed to import rule %q: %w", def.Name, err)
		}
		report.Created = append(report.Created, created.ID)
	}

	return report, nil
}

func recordToRule(record *secondary.RuleRecord) *primary.Rule {
	return &primary.Rule{
		Rule:      record.Rule,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// Ensure RuleServiceImpl implements the interface
var _ primary.RuleService = (*RuleServiceImpl)(nil)
