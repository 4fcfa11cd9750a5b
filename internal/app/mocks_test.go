package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.RuleRepository         = (*mockRuleRepository)(nil)
	_ secondary.StateRepository        = (*mockStateRepository)(nil)
	_ secondary.ExecutionLogRepository = (*mockExecutionLogRepository)(nil)
	_ secondary.TemplateRepository     = (*mockTemplateRepository)(nil)
	_ secondary.EntityProvider         = (*mockEntityProvider)(nil)
	_ secondary.Notifier               = (*mockNotifier)(nil)
	_ secondary.EntityMutator          = (*mockEntityMutator)(nil)
	_ secondary.AlertSink              = (*mockAlertSink)(nil)
)

// mockRuleRepository implements secondary.RuleRepository for testing.
type mockRuleRepository struct {
	rules         map[string]*secondary.RuleRecord
	order         []string
	listActiveErr error
	createErr     error
}

func newMockRuleRepository() *mockRuleRepository {
	return &mockRuleRepository{rules: make(map[string]*secondary.RuleRecord)}
}

func (m *mockRuleRepository) Create(_ context.Context, record *secondary.RuleRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, exists := m.rules[record.Rule.ID]; exists {
		return fmt.Errorf("rule %s already exists", record.Rule.ID)
	}
	record.CreatedAt = "2026-08-01T00:00:00Z"
	record.UpdatedAt = "2026-08-01T00:00:00Z"
	m.rules[record.Rule.ID] = record
	m.order = append(m.order, record.Rule.ID)
	return nil
}

func (m *mockRuleRepository) GetByID(_ context.Context, id string) (*secondary.RuleRecord, error) {
	record, ok := m.rules[id]
	if !ok {
		return nil, fmt.Errorf("rule %s not found", id)
	}
	return record, nil
}

func (m *mockRuleRepository) Update(_ context.Context, record *secondary.RuleRecord) error {
	if _, ok := m.rules[record.Rule.ID]; !ok {
		return fmt.Errorf("rule %s not found", record.Rule.ID)
	}
	m.rules[record.Rule.ID] = record
	return nil
}

func (m *mockRuleRepository) Delete(_ context.Context, id string) error {
	if _, ok := m.rules[id]; !ok {
		return fmt.Errorf("rule %s not found", id)
	}
	delete(m.rules, id)
	return nil
}

func (m *mockRuleRepository) List(_ context.Context, filters secondary.RuleFilters) ([]*secondary.RuleRecord, error) {
	var out []*secondary.RuleRecord
	for _, id := range m.order {
		record, ok := m.rules[id]
		if !ok {
			continue
		}
		if filters.Scope != "" && record.Rule.Scope != filters.Scope {
			continue
		}
		if filters.TriggerType != "" && string(record.Rule.TriggerType) != filters.TriggerType {
			continue
		}
		if filters.Enabled != nil && record.Rule.Enabled != *filters.Enabled {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (m *mockRuleRepository) ListActive(_ context.Context, scope string) ([]*secondary.RuleRecord, error) {
	if m.listActiveErr != nil {
		return nil, m.listActiveErr
	}
	var out []*secondary.RuleRecord
	for _, id := range m.order {
		record, ok := m.rules[id]
		if !ok || !record.Rule.Enabled {
			continue
		}
		if scope != "" && record.Rule.Scope != "" && record.Rule.Scope != scope {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (m *mockRuleRepository) SetEnabled(_ context.Context, id string, enabled bool) error {
	record, ok := m.rules[id]
	if !ok {
		return fmt.Errorf("rule %s not found", id)
	}
	record.Rule.Enabled = enabled
	return nil
}

func (m *mockRuleRepository) GetNextID(_ context.Context) (string, error) {
	return fmt.Sprintf("RULE-%03d", len(m.order)+1), nil
}

// mockStateRepository implements secondary.StateRepository for testing.
type mockStateRepository struct {
	mu      sync.Mutex
	states  map[string]*secondary.StateRecord
	saveErr error
	loadErr error
}

func newMockStateRepository() *mockStateRepository {
	return &mockStateRepository{states: make(map[string]*secondary.StateRecord)}
}

func stateKey(ruleID, entityID string) string {
	return ruleID + "|" + entityID
}

func (m *mockStateRepository) Load(_ context.Context, ruleID, entityID string) (*secondary.StateRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.states[stateKey(ruleID, entityID)]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (m *mockStateRepository) Save(_ context.Context, record *secondary.StateRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *record
	m.states[stateKey(record.RuleID, record.EntityID)] = &clone
	return nil
}

func (m *mockStateRepository) Delete(_ context.Context, ruleID, entityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := stateKey(ruleID, entityID)
	if _, ok := m.states[key]; !ok {
		return fmt.Errorf("escalation state for (%s, %s) not found", ruleID, entityID)
	}
	delete(m.states, key)
	return nil
}

func (m *mockStateRepository) List(_ context.Context, filters secondary.StateFilters) ([]*secondary.StateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.StateRecord
	for _, record := range m.states {
		if filters.RuleID != "" && record.RuleID != filters.RuleID {
			continue
		}
		if filters.EntityID != "" && record.EntityID != filters.EntityID {
			continue
		}
		clone := *record
		out = append(out, &clone)
	}
	return out, nil
}

// mockExecutionLogRepository implements secondary.ExecutionLogRepository
// for testing.
type mockExecutionLogRepository struct {
	mu        sync.Mutex
	entries   []*secondary.ExecutionLogRecord
	appendErr error
}

func newMockExecutionLogRepository() *mockExecutionLogRepository {
	return &mockExecutionLogRepository{}
}

func (m *mockExecutionLogRepository) Append(_ context.Context, record *secondary.ExecutionLogRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record.ID = fmt.Sprintf("LOG-%03d", len(m.entries)+1)
	record.ExecutedAt = "2026-08-30T00:00:00Z"
	clone := *record
	m.entries = append(m.entries, &clone)
	return nil
}

func (m *mockExecutionLogRepository) List(_ context.Context, filters secondary.ExecutionLogFilters) ([]*secondary.ExecutionLogRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.ExecutionLogRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		record := m.entries[i]
		if filters.RuleID != "" && record.RuleID != filters.RuleID {
			continue
		}
		if filters.EntityID != "" && record.EntityID != filters.EntityID {
			continue
		}
		if filters.Status != "" && record.Status != filters.Status {
			continue
		}
		out = append(out, record)
		if filters.Limit > 0 && len(out) == filters.Limit {
			break
		}
	}
	return out, nil
}

func (m *mockExecutionLogRepository) HasActioned(_ context.Context, ruleID, entityID, level string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range m.entries {
		if record.RuleID == ruleID && record.EntityID == entityID && record.MatchedLevel == level &&
			len(record.ActionsAttempted) > 0 &&
			(record.Status == secondary.ExecutionStatusSuccess || record.Status == secondary.ExecutionStatusPartial) {
			return true, nil
		}
	}
	return false, nil
}

// entriesFor returns the log entries for one pair, oldest first.
func (m *mockExecutionLogRepository) entriesFor(ruleID, entityID string) []*secondary.ExecutionLogRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.ExecutionLogRecord
	for _, record := range m.entries {
		if record.RuleID == ruleID && record.EntityID == entityID {
			out = append(out, record)
		}
	}
	return out
}

// mockTemplateRepository implements secondary.TemplateRepository for
// testing.
type mockTemplateRepository struct {
	templates map[string]*rule.Template
}

func newMockTemplateRepository(templates ...*rule.Template) *mockTemplateRepository {
	m := &mockTemplateRepository{templates: make(map[string]*rule.Template)}
	for _, t := range templates {
		m.templates[t.ID] = t
	}
	return m
}

func (m *mockTemplateRepository) GetByID(_ context.Context, id string) (*rule.Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return nil, fmt.Errorf("template %s not found", id)
	}
	return t, nil
}

func (m *mockTemplateRepository) List(_ context.Context, category string) ([]*rule.Template, error) {
	var out []*rule.Template
	for _, t := range m.templates {
		if category != "" && t.Category != category {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// mockEntityProvider implements secondary.EntityProvider for testing.
type mockEntityProvider struct {
	milestones    []*secondary.MilestoneRecord
	samples       map[string][]*secondary.MetricSampleRecord // keyed by scope|metric
	milestonesErr error
	samplesErr    error
}

func newMockEntityProvider() *mockEntityProvider {
	return &mockEntityProvider{samples: make(map[string][]*secondary.MetricSampleRecord)}
}

func (m *mockEntityProvider) ListCandidateMilestones(_ context.Context, scope string) ([]*secondary.MilestoneRecord, error) {
	if m.milestonesErr != nil {
		return nil, m.milestonesErr
	}
	var out []*secondary.MilestoneRecord
	for _, ms := range m.milestones {
		if scope != "" && ms.ProjectID != scope {
			continue
		}
		out = append(out, ms)
	}
	return out, nil
}

func (m *mockEntityProvider) ListMetricSamples(_ context.Context, scope, metricName string) ([]*secondary.MetricSampleRecord, error) {
	if m.samplesErr != nil {
		return nil, m.samplesErr
	}
	return m.samples[scope+"|"+metricName], nil
}

// mockNotifier implements secondary.Notifier for testing.
type mockNotifier struct {
	mu            sync.Mutex
	notifications []string // "projectID: message"
	emails        []string // subjects
	notifyErr     error
	emailErr      error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{}
}

func (m *mockNotifier) NotifyTeam(_ context.Context, projectID, message string) error {
	if m.notifyErr != nil {
		return m.notifyErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, projectID+": "+message)
	return nil
}

func (m *mockNotifier) SendEmail(_ context.Context, recipients []string, subject, body string) error {
	if m.emailErr != nil {
		return m.emailErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails = append(m.emails, subject)
	return nil
}

// mockEntityMutator implements secondary.EntityMutator for testing.
type mockEntityMutator struct {
	mu              sync.Mutex
	projectStatus   map[string]string
	milestoneStatus map[string]string
	projectErr      error
	milestoneErr    error
}

func newMockEntityMutator() *mockEntityMutator {
	return &mockEntityMutator{
		projectStatus:   make(map[string]string),
		milestoneStatus: make(map[string]string),
	}
}

func (m *mockEntityMutator) UpdateProjectStatus(_ context.Context, projectID, status string) error {
	if m.projectErr != nil {
		return m.projectErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projectStatus[projectID] = status
	return nil
}

func (m *mockEntityMutator) UpdateMilestoneStatus(_ context.Context, milestoneID, status string) error {
	if m.milestoneErr != nil {
		return m.milestoneErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.milestoneStatus[milestoneID] = status
	return nil
}

// mockAlertSink implements secondary.AlertSink for testing.
type mockAlertSink struct {
	mu       sync.Mutex
	alerts   []string // "scope/severity: message"
	alertErr error
}

func newMockAlertSink() *mockAlertSink {
	return &mockAlertSink{}
}

func (m *mockAlertSink) CreateAlert(_ context.Context, scope, message, severity string) error {
	if m.alertErr != nil {
		return m.alertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, scope+"/"+severity+": "+message)
	return nil
}
