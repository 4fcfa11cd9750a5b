package secondary

import "context"

// ProjectRepository defines the secondary port for the engine's local
// project view. The upstream project tool owns the authoritative
// records; this view is what rules are evaluated against.
type ProjectRepository interface {
	// Create persists a new project.
	Create(ctx context.Context, record *ProjectRecord) error

	// GetByID retrieves a project by its ID.
	GetByID(ctx context.Context, id string) (*ProjectRecord, error)

	// List retrieves projects matching the given filters.
	List(ctx context.Context, filters ProjectFilters) ([]*ProjectRecord, error)

	// UpdateStatus sets a project's status.
	UpdateStatus(ctx context.Context, id, status string) error

	// GetNextID returns the next available project ID.
	GetNextID(ctx context.Context) (string, error)
}

// ProjectRecord represents a project as stored in the local view.
type ProjectRecord struct {
	ID        string
	Name      string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// ProjectFilters contains filter options for querying projects.
type ProjectFilters struct {
	Status string
	Limit  int
}

// MilestoneRepository defines the secondary port for the engine's
// local milestone view.
type MilestoneRepository interface {
	// Create persists a new milestone.
	Create(ctx context.Context, record *MilestoneRecord) error

	// GetByID retrieves a milestone by its ID.
	GetByID(ctx context.Context, id string) (*MilestoneRecord, error)

	// List retrieves milestones matching the given filters.
	List(ctx context.Context, filters MilestoneFilters) ([]*MilestoneRecord, error)

	// UpdateStatus sets a milestone's status, stamping the completed
	// date when the status is completed and clearing it otherwise.
	UpdateStatus(ctx context.Context, id, status string) error

	// UpdateDueDate sets or clears a milestone's due date.
	UpdateDueDate(ctx context.Context, id, dueDate string) error

	// GetNextID returns the next available milestone ID.
	GetNextID(ctx context.Context) (string, error)
}

// MilestoneFilters contains filter options for querying milestones.
type MilestoneFilters struct {
	ProjectID string
	Status    string
	Limit     int
}

// MetricSampleRepository defines the secondary port for recorded
// metric samples.
type MetricSampleRepository interface {
	// Record persists one sample.
	Record(ctx context.Context, record *MetricSampleRecord) error

	// List retrieves samples for one metric in a scope, oldest first.
	List(ctx context.Context, scope, metricName string, limit int) ([]*MetricSampleRecord, error)

	// Metrics returns the distinct metric names with samples in a scope.
	Metrics(ctx context.Context, scope string) ([]string, error)
}
