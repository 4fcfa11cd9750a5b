package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/vigil/internal/core/trigger"
	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/ports/secondary"
)

// ProjectServiceImpl implements the ProjectService interface over the
// engine's local entity view.
type ProjectServiceImpl struct {
	projectRepo   secondary.ProjectRepository
	milestoneRepo secondary.MilestoneRepository
	sampleRepo    secondary.MetricSampleRepository
}

// NewProjectService creates a new ProjectService with injected dependencies.
func NewProjectService(
	projectRepo secondary.ProjectRepository,
	milestoneRepo secondary.MilestoneRepository,
	sampleRepo secondary.MetricSampleRepository,
) *ProjectServiceImpl {
	return &ProjectServiceImpl{
		projectRepo:   projectRepo,
		milestoneRepo: milestoneRepo,
		sampleRepo:    sampleRepo,
	}
}

// CreateProject registers a project in the local view.
func (s *ProjectServiceImpl) CreateProject(ctx context.Context, req primary.CreateProjectRequest) (*primary.Project, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	status := req.Status
	if status == "" {
		status = primary.ProjectStatusActive
	}

	id, err := s.projectRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate project ID: %w", err)
	}

	record := &secondary.ProjectRecord{ID: id, Name: req.Name, Status: status}
	if err := s.projectRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.GetProject(ctx, id)
}

// GetProject retrieves a project by ID.
func (s *ProjectServiceImpl) GetProject(ctx context.Context, projectID string) (*primary.Project, error) {
	record, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return recordToProject(record), nil
}

// ListProjects lists projects with optional filters.
func (s *ProjectServiceImpl) ListProjects(ctx context.Context, filters primary.ProjectFilters) ([]*primary.Project, error) {
	records, err := s.projectRepo.List(ctx, secondary.ProjectFilters{
		Status: filters.Status,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]*primary.Project, len(records))
	for i, r := range records {
		projects[i] = recordToProject(r)
	}
	return projects, nil
}

// SetProjectStatus sets a project's status.
func (s *ProjectServiceImpl) SetProjectStatus(ctx context.Context, projectID, status string) error {
	if !validProjectStatus(status) {
		return fmt.Errorf("invalid project status: %s", status)
	}
	return s.projectRepo.UpdateStatus(ctx, projectID, status)
}

// CreateMilestone registers a milestone under a project.
func (s *ProjectServiceImpl) CreateMilestone(ctx context.Context, req primary.CreateMilestoneRequest) (*primary.Milestone, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("milestone name is required")
	}
	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}
	if req.DueDate != "" {
		if _, err := time.Parse(time.RFC3339, req.DueDate); err != nil {
			return nil, fmt.Errorf("invalid due date %q: %w", req.DueDate, err)
		}
	}

	status := req.Status
	if status == "" {
		status = trigger.MilestoneStatusPending
	}
	if !validMilestoneStatus(status) {
		return nil, fmt.Errorf("invalid milestone status: %s", status)
	}

	id, err := s.milestoneRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate milestone ID: %w", err)
	}

	record := &secondary.MilestoneRecord{
		ID:        id,
		ProjectID: req.ProjectID,
		Name:      req.Name,
		DueDate:   req.DueDate,
		Status:    status,
	}
	if err := s.milestoneRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}

	got, err := s.milestoneRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return recordToMilestone(got), nil
}

// ListMilestones lists milestones with optional filters.
func (s *ProjectServiceImpl) ListMilestones(ctx context.Context, filters primary.MilestoneFilters) ([]*primary.Milestone, error) {
	records, err := s.milestoneRepo.List(ctx, secondary.MilestoneFilters{
		ProjectID: filters.ProjectID,
		Status:    filters.Status,
		Limit:     filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}

	milestones := make([]*primary.Milestone, len(records))
	for i, r := range records {
		milestones[i] = recordToMilestone(r)
	}
	return milestones, nil
}

// SetMilestoneStatus sets a milestone's status.
func (s *ProjectServiceImpl) SetMilestoneStatus(ctx context.Context, milestoneID, status string) error {
	if !validMilestoneStatus(status) {
		return fmt.Errorf("invalid milestone status: %s", status)
	}
	return s.milestoneRepo.UpdateStatus(ctx, milestoneID, status)
}

// SetMilestoneDueDate sets or clears a milestone's due date.
func (s *ProjectServiceImpl) SetMilestoneDueDate(ctx context.Context, milestoneID, dueDate string) error {
	if dueDate != "" {
		if _, err := time.Parse(time.RFC3339, dueDate); err != nil {
			return fmt.Errorf("invalid due date %q: %w", dueDate, err)
		}
	}
	return s.milestoneRepo.UpdateDueDate(ctx, milestoneID, dueDate)
}

// RecordMetricSample records one metric measurement.
func (s *ProjectServiceImpl) RecordMetricSample(ctx context.Context, req primary.RecordSampleRequest) error {
	if req.Metric == "" {
		return fmt.Errorf("metric name is required")
	}
	return s.sampleRepo.Record(ctx, &secondary.MetricSampleRecord{
		Scope:  req.Scope,
		Metric: req.Metric,
		Value:  req.Value,
	})
}

// ListMetricSamples lists samples for a metric, oldest first.
func (s *ProjectServiceImpl) ListMetricSamples(ctx context.Context, scope, metricName string, limit int) ([]*primary.MetricSample, error) {
	records, err := s.sampleRepo.List(ctx, scope, metricName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list metric samples: %w", err)
	}

	samples := make([]*primary.MetricSample, len(records))
	for i, r := range records {
		samples[i] = &primary.MetricSample{
			ID:        r.ID,
			Scope:     r.Scope,
			Metric:    r.Metric,
			Value:     r.Value,
			Timestamp: r.Timestamp,
		}
	}
	return samples, nil
}

func recordToProject(record *secondary.ProjectRecord) *primary.Project {
	return &primary.Project{
		ID:        record.ID,
		Name:      record.Name,
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func recordToMilestone(record *secondary.MilestoneRecord) *primary.Milestone {
	return &primary.Milestone{
		ID:            record.ID,
		ProjectID:     record.ProjectID,
		Name:          record.Name,
		DueDate:       record.DueDate,
		Status:        record.Status,
		CompletedDate: record.CompletedDate,
	}
}

func validProjectStatus(status string) bool {
	switch status {
	case primary.ProjectStatusActive, primary.ProjectStatusOnHold, primary.ProjectStatusAtRisk,
		primary.ProjectStatusComplete, primary.ProjectStatusArchived:
		return true
	}
	return false
}

func validMilestoneStatus(status string) bool {
	switch status {
	case trigger.MilestoneStatusPending, trigger.MilestoneStatusInProgress,
		trigger.MilestoneStatusCompleted, trigger.MilestoneStatusCancelled:
		return true
	}
	return false
}

// Ensure ProjectServiceImpl implements the interface
var _ primary.ProjectService = (*ProjectServiceImpl)(nil)
