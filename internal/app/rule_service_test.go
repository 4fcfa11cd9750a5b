package app

import (
	"context"
	"testing"

	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/ports/primary"
)

func newRuleService() (*RuleServiceImpl, *mockRuleRepository, *mockTemplateRepository) {
	ruleRepo := newMockRuleRepository()
	templateRepo := newMockTemplateRepository(&rule.Template{
		ID:          "TPL-OVERDUE",
		Name:        "Overdue escalation",
		TriggerType: rule.TriggerMilestoneOverdue,
		Levels: []rule.EscalationLevel{
			{Level: rule.LevelManager, ThresholdValue: 1},
			{Level: rule.LevelAdmin, ThresholdValue: 5},
		},
		Actions: []rule.Action{{Type: rule.ActionNotifyTeam}},
	})
	return NewRuleService(ruleRepo, templateRepo), ruleRepo, templateRepo
}

func validDefinition() rule.Rule {
	return rule.Rule{
		Name:        "Overdue escalation",
		TriggerType: rule.TriggerMilestoneOverdue,
		Levels: []rule.EscalationLevel{
			{Level: rule.LevelManager, ThresholdValue: 1},
		},
		Actions: []rule.Action{{Type: rule.ActionNotifyTeam}},
		Enabled: true,
	}
}

func TestCreateRule_AssignsSequentialID(t *testing.T) {
	svc, _, _ := newRuleService()

	created, err := svc.CreateRule(context.Background(), primary.CreateRuleRequest{Definition: validDefinition()})
	if err != nil {
		t.Fatalf("CreateRule failed: %v", err)
	}
	if created.ID != "RULE-001" {
		t.Errorf("ID = %q, want RULE-001", created.ID)
	}
	if created.CreatedAt == "" {
		t.Error("expected CreatedAt to be stamped")
	}

	second, err := svc.CreateRule(context.Background(), primary.CreateRuleRequest{Definition: validDefinition()})
	if err != nil {
		t.Fatalf("CreateRule failed: %v", err)
	}
	if second.ID != "RULE-002" {
		t.Errorf("second ID = %q, want RULE-002", second.ID)
	}
}

func TestCreateRule_RejectsInvalidDefinition(t *testing.T) {
	svc, ruleRepo, _ := newRuleService()

	def := validDefinition()
	def.Levels = []rule.EscalationLevel{
		{Level: rule.LevelAdmin, ThresholdValue: 5},
		{Level: rule.LevelManager, ThresholdValue: 1},
	}

	if _, err := svc.CreateRule(context.Background(), primary.CreateRuleRequest{Definition: def}); err == nil {
		t.Fatal("expected validation error for out-of-order ladder")
	}
	if len(ruleRepo.rules) != 0 {
		t.Error("invalid definition must not be persisted")
	}
}

func TestCreateFromTemplate(t *testing.T) {
	svc, _, _ := newRuleService()

	created, err := svc.CreateFromTemplate(context.Background(), primary.CreateFromTemplateRequest{
		TemplateID: "TPL-OVERDUE",
		Overrides:  rule.Overrides{Scope: "PROJ-001", Name: "Overdue for PROJ-001"},
	})
	if err != nil {
		t.Fatalf("CreateFromTemplate failed: %v", err)
	}

	if created.ID != "RULE-001" || created.Scope != "PROJ-001" || created.Name != "Overdue for PROJ-001" {
		t.Errorf("created = %+v, want overrides applied and ID assigned", created)
	}
	if !created.Enabled {
		t.Error("instantiated rules start enabled")
	}
	if len(created.Levels) != 2 {
		t.Errorf("levels = %d, want the template's ladder", len(created.Levels))
	}
}

func TestCreateFromTemplate_UnknownTemplate(t *testing.T) {
	svc, _, _ := newRuleService()

	if _, err := svc.CreateFromTemplate(context.Background(), primary.CreateFromTemplateRequest{TemplateID: "TPL-NOPE"}); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestUpdateRule_PreservesIdentity(t *testing.T) {
	svc, _, _ := newRuleService()

	def := validDefinition()
	def.CreatedBy = "alice"
	created, err := svc.CreateRule(context.Background(), primary.CreateRuleRequest{Definition: def})
	if err != nil {
		t.Fatalf("CreateRule failed: %v", err)
	}

	changed := validDefinition()
	changed.ID = "RULE-999" // ignored; the request's RuleID wins
	changed.Name = "Renamed"

	updated, err := svc.UpdateRule(context.Background(), primary.UpdateRuleRequest{
		RuleID:     created.ID,
		Definition: changed,
	})
	if err != nil {
		t.Fatalf("UpdateRule failed: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("ID = %q, want %q preserved", updated.ID, created.ID)
	}
	if updated.Name != "Renamed" {
		t.Errorf("Name = %q, want Renamed", updated.Name)
	}
	if updated.CreatedBy != "alice" {
		t.Errorf("CreatedBy = %q, want alice preserved", updated.CreatedBy)
	}
}

func TestUpdateRule_RejectsInvalidDefinition(t *testing.T) {
	svc, _, _ := newRuleService()

	created, err := svc.CreateRule(context.Background(), primary.CreateRuleRequest{Definition: validDefinition()})
	if err != nil {
		t.Fatalf("CreateRule failed: %v", err)
	}

	broken := validDefinition()
	broken.TriggerType = "nonsense"
	if _, err := svc.UpdateRule(context.Background(), primary.UpdateRuleRequest{RuleID: created.ID, Definition: broken}); err == nil {
		t.Fatal("expected validation error")
	}

	unchanged, err := svc.GetRule(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetRule failed: %v", err)
	}
	if unchanged.TriggerType != rule.TriggerMilestoneOverdue {
		t.Error("failed update must not touch the stored rule")
	}
}

func TestSetRuleEnabled(t *testing.T) {
	svc, ruleRepo, _ := newRuleService()

	created, err := svc.CreateRule(context.Background(), primary.CreateRuleRequest{Definition: validDefinition()})
	if err != nil {
		t.Fatalf("CreateRule failed: %v", err)
	}

	if err := svc.SetRuleEnabled(context.Background(), created.ID, false); err != nil {
		t.Fatalf("SetRuleEnabled failed: %v", err)
	}
	if ruleRepo.rules[created.ID].Rule.Enabled {
		t.Error("rule should be disabled")
	}

	if err := svc.SetRuleEnabled(context.Background(), "RULE-404", true); err == nil {
		t.Error("expected error for unknown rule")
	}
}

func TestImportRules_MixedBatch(t *testing.T) {
	svc, _, _ := newRuleService()

	good := validDefinition()
	bad := validDefinition()
	bad.Name = ""
	alsoGood := validDefinition()
	alsoGood.Name = "Second valid"

	report, err := svc.ImportRules(context.Background(), []rule.Rule{good, bad, alsoGood})
	if err != nil {
		t.Fatalf("ImportRules failed: %v", err)
	}

	if len(report.Created) != 2 {
		t.Errorf("created = %v, want the two valid definitions", report.Created)
	}
	if len(report.Rejected) != 1 || report.Rejected[0].Name != "" {
		t.Errorf("rejected = %+v, want the nameless definition", report.Rejected)
	}

	rules, err := svc.ListRules(context.Background(), primary.RuleFilters{})
	if err != nil {
		t.Fatalf("ListRules failed: %v", err)
	}
	if len(rules) != 2 {
		t.Errorf("stored rules = %d, want 2", len(rules))
	}
}

func TestValidateDefinition_ReportsAllErrors(t *testing.T) {
	svc, _, _ := newRuleService()

	def := rule.Rule{TriggerType: "nonsense"}
	errs := svc.ValidateDefinition(def)
	if len(errs) < 2 {
		t.Errorf("errors = %v, want at least missing name and bad trigger type", errs)
	}
}
