package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketvote/pollsync/internal/core/domain"
	"github.com/rocketvote/pollsync/internal/core/ports"
)

type snapshotStore struct {
	api    ports.PollAPI
	pollID string

	mu       sync.Mutex
	snapshot *domain.Snapshot
	revealed bool
	inFlight bool
	queued   bool
}

func NewSnapshotStore(api ports.PollAPI, pollID string) ports.SnapshotStore {
	return &snapshotStore{
		api:    api,
		pollID: pollID,
	}
}

// Refresh fetches the current snapshot and replaces the stored one
// atomically. Calls arriving while a fetch is in flight collapse into a
// single rerun once it lands, so timer and push triggers never stack
// redundant requests.
func (s *snapshotStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.inFlight {
		s.queued = true
		s.mu.Unlock()
		return nil
	}
	s.inFlight = true
	s.mu.Unlock()

	err := s.fetch(ctx)

	s.mu.Lock()
	s.inFlight = false
	rerun := s.queued
	s.queued = false
	s.mu.Unlock()

	if rerun {
		rerr := s.Refresh(ctx)
		if err == nil {
			err = rerr
		}
	}
	return err
}

func (s *snapshotStore) fetch(ctx context.Context) error {
	snap, err := s.api.FetchSnapshot(ctx, s.pollID)
	if err != nil {
		// previous snapshot stays in place; the next timer or push
		// trigger retries
		return fmt.Errorf("refresh snapshot: %w", err)
	}
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("refresh snapshot: %w", err)
	}

	s.mu.Lock()
	if s.revealed {
		// reveal is monotonic; a racing stale snapshot cannot undo it
		snap.Poll.Revealed = true
	} else if snap.Poll.Revealed {
		s.revealed = true
	}
	s.snapshot = snap
	s.mu.Unlock()
	return nil
}

// Current returns the latest snapshot, or false before the first
// successful fetch. The returned snapshot is never mutated after
// publication; reveal status should be read through Revealed, which
// also reflects the optimistic push-side latch.
func (s *snapshotStore) Current() (*domain.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil, false
	}
	return s.snapshot, true
}

func (s *snapshotStore) Revealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed
}

// MarkRevealed flips the local reveal latch ahead of the authoritative
// refresh, so the view reacts without waiting a full round-trip.
func (s *snapshotStore) MarkRevealed() {
	s.mu.Lock()
	s.revealed = true
	s.mu.Unlock()
}
