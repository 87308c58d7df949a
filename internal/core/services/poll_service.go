package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rocketvote/pollsync/internal/core/domain"
	"github.com/rocketvote/pollsync/internal/core/ports"
)

type pollService struct {
	api ports.PollAPI
}

func NewPollService(api ports.PollAPI) ports.PollService {
	return &pollService{api: api}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*ports.CreatedPoll, error) {
	if len(input.Questions) == 0 {
		return nil, errors.New("at least one question is required")
	}

	questions := make([]domain.Question, 0, len(input.Questions))
	for _, q := range input.Questions {
		if strings.TrimSpace(q.Description) == "" {
			return nil, errors.New("question description is required")
		}

		options := make([]string, 0, len(q.Options))
		for _, opt := range q.Options {
			if trimmed := strings.TrimSpace(opt); trimmed != "" {
				options = append(options, trimmed)
			}
		}
		if len(options) < 2 {
			return nil, errors.New("at least two options are required per question")
		}

		questions = append(questions, domain.Question{
			Description: q.Description,
			Options:     options,
			MultiSelect: q.MultiSelect,
		})
	}

	return s.api.CreatePoll(ctx, ports.CreatePollInput{
		Questions: questions,
		Anonymous: input.Anonymous,
	})
}
