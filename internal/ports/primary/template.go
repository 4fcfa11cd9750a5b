package primary

import (
	"context"

	"github.com/example/vigil/internal/core/rule"
)

// TemplateService defines the primary port for the rule template
// catalog.
type TemplateService interface {
	// GetTemplate retrieves a template by ID.
	GetTemplate(ctx context.Context, templateID string) (*rule.Template, error)

	// ListTemplates lists templates, optionally filtered by category.
	ListTemplates(ctx context.Context, category string) ([]*rule.Template, error)
}
