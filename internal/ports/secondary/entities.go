package secondary

import "context"

// EntityProvider defines the secondary port over the domain data the
// engine evaluates. The engine only reads snapshots; ownership of the
// underlying records stays with the excluded storage layer.
type EntityProvider interface {
	// ListCandidateMilestones returns milestone snapshots for a scope.
	// An empty scope returns milestones across all projects.
	ListCandidateMilestones(ctx context.Context, scope string) ([]*MilestoneRecord, error)

	// ListMetricSamples returns samples for one metric in a scope,
	// oldest first.
	ListMetricSamples(ctx context.Context, scope, metricName string) ([]*MetricSampleRecord, error)
}

// MilestoneRecord is a milestone snapshot at the port boundary.
type MilestoneRecord struct {
	ID            string
	ProjectID     string
	Name          string
	DueDate       string // RFC3339; empty when the milestone has no due date
	Status        string
	CompletedDate string // RFC3339; empty unless completed
}

// MetricSampleRecord is one measured metric value at the port boundary.
type MetricSampleRecord struct {
	ID        string
	Scope     string
	Metric    string
	Value     float64
	Timestamp string // RFC3339
}

// EntityMutator defines the secondary port for status-update actions.
// Implementations forward to whatever owns project/milestone records.
type EntityMutator interface {
	// UpdateProjectStatus sets a project's status.
	UpdateProjectStatus(ctx context.Context, projectID, status string) error

	// UpdateMilestoneStatus sets a milestone's status.
	UpdateMilestoneStatus(ctx context.Context, milestoneID, status string) error
}

// Notifier defines the secondary port for notification delivery.
type Notifier interface {
	// NotifyTeam delivers a message to a project's team channel.
	NotifyTeam(ctx context.Context, projectID, message string) error

	// SendEmail delivers an email to explicit recipients.
	SendEmail(ctx context.Context, recipients []string, subject, body string) error
}

// AlertSink defines the secondary port for raising operational alerts.
type AlertSink interface {
	// CreateAlert records an alert for a scope at a severity.
	CreateAlert(ctx context.Context, scope, message, severity string) error
}
