package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketvote/pollsync/internal/core/domain"
	"github.com/rocketvote/pollsync/internal/core/ports"
)

type submissionService struct {
	api    ports.PollAPI
	store  ports.SnapshotStore
	voter  ports.VoterService
	pollID string

	mu            sync.Mutex
	selection     domain.Selection
	status        domain.SubmissionStatus
	lastSubmitted domain.Selection
}

func NewSubmissionService(api ports.PollAPI, store ports.SnapshotStore, voter ports.VoterService, pollID string) ports.SubmissionService {
	return &submissionService{
		api:       api,
		store:     store,
		voter:     voter,
		pollID:    pollID,
		selection: domain.NewSelection(),
	}
}

// Toggle records one interaction with an option. A changed selection
// invalidates a prior confirmation, demoting Submitted back to Idle; an
// in-flight submission is never demoted.
func (s *submissionService) Toggle(questionIndex int, option string) error {
	snap, ok := s.store.Current()
	if !ok {
		return domain.ErrNoSnapshot
	}
	if questionIndex < 0 || questionIndex >= len(snap.Poll.Questions) {
		return domain.ErrInvalidQuestion
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.selection.Toggle(snap.Poll.Questions[questionIndex], questionIndex, option); err != nil {
		return err
	}
	if s.status == domain.StatusSubmitted {
		s.status = domain.StatusIdle
	}
	return nil
}

func (s *submissionService) Selection() domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Clone()
}

func (s *submissionService) Status() domain.SubmissionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// NeedsResubmission reports whether the current selection differs from
// the last one the server acknowledged.
func (s *submissionService) NeedsResubmission() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.needsResubmissionLocked()
}

func (s *submissionService) needsResubmissionLocked() bool {
	if s.lastSubmitted == nil {
		return true
	}
	return !s.selection.Equal(s.lastSubmitted)
}

// CanSubmit mirrors the submit button: a complete selection exists, no
// submission is in flight, the poll is not revealed, and either nothing
// was acknowledged yet or the selection changed since.
func (s *submissionService) CanSubmit() bool {
	snap, ok := s.store.Current()
	if !ok || s.store.Revealed() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.selection.Complete(snap.Poll) {
		return false
	}
	if s.status == domain.StatusSubmitting {
		return false
	}
	return s.status != domain.StatusSubmitted || s.needsResubmissionLocked()
}

// Submit sends the current selection as an overwrite ballot. An
// unchanged, already-acknowledged selection is a no-op; an incomplete
// one is rejected locally before any network call. On transport failure
// the selection is preserved and the status returns to Idle so the
// participant can retry without re-choosing.
func (s *submissionService) Submit(ctx context.Context) error {
	snap, ok := s.store.Current()
	if !ok {
		return domain.ErrNoSnapshot
	}
	if s.store.Revealed() {
		return domain.ErrPollRevealed
	}

	s.mu.Lock()
	if s.status == domain.StatusSubmitting {
		s.mu.Unlock()
		return domain.ErrSubmissionInFlight
	}
	if !s.selection.Complete(snap.Poll) {
		s.mu.Unlock()
		return domain.ErrIncompleteSelection
	}
	if s.status == domain.StatusSubmitted && !s.needsResubmissionLocked() {
		s.mu.Unlock()
		return nil
	}
	attempt := s.selection.Clone()
	s.status = domain.StatusSubmitting
	s.mu.Unlock()

	ballot, err := s.buildBallot(snap.Poll, attempt)
	if err == nil {
		err = s.api.SubmitBallot(ctx, s.pollID, ballot)
	}

	s.mu.Lock()
	if err != nil {
		// Failed is reported through the returned error and immediately
		// demoted to Idle so another attempt is possible
		s.status = domain.StatusIdle
		s.mu.Unlock()
		return fmt.Errorf("submit ballot: %w", err)
	}
	s.status = domain.StatusSubmitted
	s.lastSubmitted = attempt
	s.mu.Unlock()

	// best effort; the store keeps its last good snapshot and the
	// session loop retries on the next trigger
	_ = s.store.Refresh(ctx)
	return nil
}

func (s *submissionService) buildBallot(poll domain.Poll, selection domain.Selection) (domain.Ballot, error) {
	session, err := s.voter.SessionID()
	if err != nil {
		return domain.Ballot{}, fmt.Errorf("resolve voter session: %w", err)
	}
	ballot := domain.Ballot{
		VoterSession: session,
		Votes:        selection.Votes(poll),
	}
	if !poll.Anonymous {
		name, err := s.voter.DisplayName()
		if err != nil {
			return domain.Ballot{}, fmt.Errorf("resolve voter name: %w", err)
		}
		ballot.VoterName = name
	}
	return ballot, nil
}
