package app

import (
	"context"
	"fmt"

	"github.com/example/vigil/internal/core/rule"
	"github.com/example/vigil/internal/ports/primary"
	"github.com/example/vigil/internal/ports/secondary"
)

// TemplateServiceImpl implements the TemplateService interface.
type TemplateServiceImpl struct {
	templateRepo secondary.TemplateRepository
}

// NewTemplateService creates a new TemplateService with injected dependencies.
func NewTemplateService(templateRepo secondary.TemplateRepository) *TemplateServiceImpl {
	return &TemplateServiceImpl{templateRepo: templateRepo}
}

// GetTemplate retrieves a template by ID.
func (s *TemplateServiceImpl) GetTemplate(ctx context.Context, templateID string) (*rule.Template, error) {
	return s.templateRepo.GetByID(ctx, templateID)
}

// ListTemplates lists templates, optionally filtered by category.
func (s *TemplateServiceImpl) ListTemplates(ctx context.Context, category string) ([]*rule.Template, error) {
	templates, err := s.templateRepo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// Ensure TemplateServiceImpl implements the interface
var _ primary.TemplateService = (*TemplateServiceImpl)(nil)
