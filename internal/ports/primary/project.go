package primary

import "context"

// ProjectService defines the primary port for managing the engine's
// local view of projects, milestones, and metric samples. The upstream
// project tool feeds this view; the CLI exposes it for development and
// standalone use.
type ProjectService interface {
	// CreateProject registers a project in the local view.
	CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error)

	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, projectID string) (*Project, error)

	// ListProjects lists projects with optional filters.
	ListProjects(ctx context.Context, filters ProjectFilters) ([]*Project, error)

	// SetProjectStatus sets a project's status.
	SetProjectStatus(ctx context.Context, projectID, status string) error

	// CreateMilestone registers a milestone under a project.
	CreateMilestone(ctx context.Context, req CreateMilestoneRequest) (*Milestone, error)

	// ListMilestones lists milestones with optional filters.
	ListMilestones(ctx context.Context, filters MilestoneFilters) ([]*Milestone, error)

	// SetMilestoneStatus sets a milestone's status.
	SetMilestoneStatus(ctx context.Context, milestoneID, status string) error

	// SetMilestoneDueDate sets or clears a milestone's due date
	// (RFC3339 date, empty clears).
	SetMilestoneDueDate(ctx context.Context, milestoneID, dueDate string) error

	// RecordMetricSample records one metric measurement.
	RecordMetricSample(ctx context.Context, req RecordSampleRequest) error

	// ListMetricSamples lists samples for a metric, oldest first.
	ListMetricSamples(ctx context.Context, scope, metricName string, limit int) ([]*MetricSample, error)
}

// Project represents a project at the port boundary.
type Project struct {
	ID        string
	Name      string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// ProjectFilters contains filter options for listing projects.
type ProjectFilters struct {
	Status string
	Limit  int
}

// CreateProjectRequest carries a new project registration.
type CreateProjectRequest struct {
	Name   string
	Status string // defaults to active
}

// Milestone represents a milestone at the port boundary.
type Milestone struct {
	ID            string
	ProjectID     string
	Name          string
	DueDate       string
	Status        string
	CompletedDate string
}

// MilestoneFilters contains filter options for listing milestones.
type MilestoneFilters struct {
	ProjectID string
	Status    string
	Limit     int
}

// CreateMilestoneRequest carries a new milestone registration.
type CreateMilestoneRequest struct {
	ProjectID string
	Name      string
	DueDate   string // RFC3339 date; empty for no due date
	Status    string // defaults to pending
}

// RecordSampleRequest carries one metric measurement.
type RecordSampleRequest struct {
	Scope  string
	Metric string
	Value  float64
}

// MetricSample represents one recorded measurement at the port
// boundary.
type MetricSample struct {
	ID        string
	Scope     string
	Metric    string
	Value     float64
	Timestamp string
}

// Project status constants
const (
	ProjectStatusActive   = "active"
	ProjectStatusOnHold   = "on_hold"
	ProjectStatusAtRisk   = "at_risk"
	ProjectStatusComplete = "complete"
	ProjectStatusArchived = "archived"
)
