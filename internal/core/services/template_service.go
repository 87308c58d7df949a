package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketvote/pollsync/internal/core/domain"
	"github.com/rocketvote/pollsync/internal/core/ports"
)

type templateService struct {
	api ports.TemplateAPI
}

func NewTemplateService(api ports.TemplateAPI) ports.TemplateService {
	return &templateService{api: api}
}

func (s *templateService) List(ctx context.Context) ([]domain.Template, error) {
	return s.api.ListTemplates(ctx)
}

func (s *templateService) Save(ctx context.Context, template domain.Template) error {
	if template.Title == "" {
		return errors.New("template title is required")
	}
	if len(template.Questions) == 0 {
		return errors.New("template needs at least one question")
	}
	return s.api.SaveTemplate(ctx, template)
}

func (s *templateService) Delete(ctx context.Context, title string) error {
	if title == "" {
		return errors.New("template title is required")
	}
	return s.api.DeleteTemplate(ctx, title)
}

// Prefill turns a saved template into a ready-to-edit poll creation
// input.
func (s *templateService) Prefill(ctx context.Context, title string) (*ports.CreatePollInput, error) {
	templates, err := s.api.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	for _, tmpl := range templates {
		if tmpl.Title != title {
			continue
		}
		questions := make([]domain.Question, len(tmpl.Questions))
		copy(questions, tmpl.Questions)
		return &ports.CreatePollInput{
			Questions: questions,
			Anonymous: tmpl.Anonymous,
		}, nil
	}
	return nil, domain.ErrTemplateNotFound
}
