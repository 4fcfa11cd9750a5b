package sqlite

import (
	"context"
	"fmt"

	"github.com/example/vigil/internal/core/trigger"
	"github.com/example/vigil/internal/ports/secondary"
)

// EntityProvider implements secondary.EntityProvider over the SQLite
// milestone and metric sample tables.
type EntityProvider struct {
	milestones *MilestoneRepository
	samples    *MetricSampleRepository
}

// NewEntityProvider creates an entity provider backed by the given
// repositories.
func NewEntityProvider(milestones *MilestoneRepository, samples *MetricSampleRepository) *EntityProvider {
	return &EntityProvider{milestones: milestones, samples: samples}
}

// ListCandidateMilestones returns milestone snapshots for a scope.
// Cancelled milestones are excluded; completed ones stay in so that
// completion triggers can observe them.
func (p *EntityProvider) ListCandidateMilestones(ctx context.Context, scope string) ([]*secondary.MilestoneRecord, error) {
	records, err := p.milestones.List(ctx, secondary.MilestoneFilters{ProjectID: scope})
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate milestones: %w", err)
	}

	candidates := make([]*secondary.MilestoneRecord, 0, len(records))
	for _, record := range records {
		if record.Status == trigger.MilestoneStatusCancelled {
			continue
		}
		candidates = append(candidates, record)
	}

	return candidates, nil
}

// ListMetricSamples returns samples for one metric in a scope, oldest
// first.
func (p *EntityProvider) ListMetricSamples(ctx context.Context, scope, metricName string) ([]*secondary.MetricSampleRecord, error) {
	return p.samples.List(ctx, scope, metricName, 0)
}

// EntityMutator implements secondary.EntityMutator by forwarding to
// the project and milestone repositories.
type EntityMutator struct {
	projects   *ProjectRepository
	milestones *MilestoneRepository
}

// NewEntityMutator creates an entity mutator backed by the given
// repositories.
func NewEntityMutator(projects *ProjectRepository, milestones *MilestoneRepository) *EntityMutator {
	return &EntityMutator{projects: projects, milestones: milestones}
}

// UpdateProjectStatus sets a project's status.
func (m *EntityMutator) UpdateProjectStatus(ctx context.Context, projectID, status string) error {
	return m.projects.UpdateStatus(ctx, projectID, status)
}

// UpdateMilestoneStatus sets a milestone's status.
func (m *EntityMutator) UpdateMilestoneStatus(ctx context.Context, milestoneID, status string) error {
	return m.milestones.UpdateStatus(ctx, milestoneID, status)
}

// Ensure the adapters implement the interfaces
var (
	_ secondary.EntityProvider = (*EntityProvider)(nil)
	_ secondary.EntityMutator  = (*EntityMutator)(nil)
)
