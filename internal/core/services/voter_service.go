package services

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rocketvote/pollsync/internal/core/ports"
)

const (
	voterSessionKey = "voter_session"
	voterNameKey    = "voter_name"
)

// voterService resolves the participant's local identity. The session
// id is minted once and persisted through the key-value port; every
// ballot is keyed by it server-side, which is what makes resubmission
// an overwrite even on anonymous polls.
type voterService struct {
	store ports.KeyValueStore
	mu    sync.Mutex
}

func NewVoterService(store ports.KeyValueStore) ports.VoterService {
	return &voterService{store: store}
}

func (s *voterService) SessionID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok, err := s.store.Get(voterSessionKey)
	if err != nil {
		return "", fmt.Errorf("load voter session: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = uuid.NewString()
	if err := s.store.Set(voterSessionKey, id); err != nil {
		return "", fmt.Errorf("persist voter session: %w", err)
	}
	return id, nil
}

func (s *voterService) DisplayName() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, _, err := s.store.Get(voterNameKey)
	if err != nil {
		return "", fmt.Errorf("load voter name: %w", err)
	}
	return name, nil
}

func (s *voterService) SetDisplayName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Set(voterNameKey, name); err != nil {
		return fmt.Errorf("persist voter name: %w", err)
	}
	return nil
}
