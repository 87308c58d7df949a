package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rocketvote/pollsync/internal/core/ports"
)

// revealService is the organizer side of a poll: revealing results and
// reading the administrative view. Reveal is one-shot and idempotent;
// participants observe it through their live update channel.
type revealService struct {
	api        ports.PollAPI
	creationID string
	appBaseURL string
}

func NewRevealService(api ports.PollAPI, creationID, appBaseURL string) ports.RevealService {
	return &revealService{
		api:        api,
		creationID: creationID,
		appBaseURL: appBaseURL,
	}
}

func (s *revealService) Reveal(ctx context.Context) error {
	if err := s.api.Reveal(ctx, s.creationID); err != nil {
		return fmt.Errorf("reveal poll: %w", err)
	}
	return nil
}

func (s *revealService) AdminView(ctx context.Context) (*ports.AdminView, error) {
	view, err := s.api.FetchAdminView(ctx, s.creationID)
	if err != nil {
		return nil, fmt.Errorf("fetch admin view: %w", err)
	}
	return view, nil
}

// ShareURL builds the public link participants open to vote.
func (s *revealService) ShareURL(pollID string) string {
	return strings.TrimRight(s.appBaseURL, "/") + "/" + pollID
}
