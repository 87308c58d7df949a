package devserver

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/rocketvote/pollsync/internal/core/domain"
)

// shareIDLength matches the short shareable ids the product uses in
// poll links.
const shareIDLength = 7

type ballot struct {
	name  string
	votes [][]string
}

type pollState struct {
	poll    domain.Poll
	ballots map[string]ballot // keyed by voter session
}

// store keeps every poll, ballot and template in memory. Ballots are
// replaced wholesale per session, which is what makes vote submission
// idempotent at the wire level.
type store struct {
	mu        sync.RWMutex
	polls     map[string]*pollState
	creations map[string]string // creation id -> poll id
	templates map[string]domain.Template
}

func newStore() *store {
	return &store{
		polls:     map[string]*pollState{},
		creations: map[string]string{},
		templates: map[string]domain.Template{},
	}
}

func (s *store) createPoll(questions []domain.Question, anonymous bool) (pollID, creationID string, err error) {
	pollID, err = gonanoid.New(shareIDLength)
	if err != nil {
		return "", "", err
	}
	creationID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[pollID] = &pollState{
		poll: domain.Poll{
			ID:        pollID,
			Anonymous: anonymous,
			Questions: questions,
		},
		ballots: map[string]ballot{},
	}
	s.creations[creationID] = pollID
	return pollID, creationID, nil
}

func (s *store) pollIDForCreation(creationID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pollID, ok := s.creations[creationID]
	return pollID, ok
}

// snapshot derives the authoritative view from the stored ballots.
// Attribution is computed only for non-anonymous polls; an anonymous
// snapshot simply never contains a voters map.
func (s *store) snapshot(pollID string) (*domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.polls[pollID]
	if !ok {
		return nil, false
	}

	snap := &domain.Snapshot{Poll: state.poll}
	snap.Poll.Questions = append([]domain.Question(nil), state.poll.Questions...)

	for i := range state.poll.Questions {
		result := domain.QuestionResult{Counts: map[string]int{}}
		if !state.poll.Anonymous {
			result.Voters = map[string][]string{}
		}
		for _, b := range state.ballots {
			if i >= len(b.votes) {
				continue
			}
			for _, opt := range b.votes[i] {
				result.Counts[opt]++
				if !state.poll.Anonymous && b.name != "" {
					result.Voters[opt] = append(result.Voters[opt], b.name)
				}
			}
		}
		for opt := range result.Voters {
			sort.Strings(result.Voters[opt])
		}
		snap.Results = append(snap.Results, result)
	}
	return snap, true
}

// putBallot replaces the session's previous ballot.
func (s *store) putBallot(pollID, session string, b domain.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.polls[pollID]
	if !ok {
		return domain.ErrPollNotFound
	}
	if state.poll.Revealed {
		return domain.ErrPollRevealed
	}
	if len(b.Votes) != len(state.poll.Questions) {
		return domain.ErrInvalidQuestion
	}
	for i, q := range state.poll.Questions {
		for _, opt := range b.Votes[i] {
			if !q.HasOption(opt) {
				return domain.ErrInvalidOption
			}
		}
	}

	state.ballots[session] = ballot{name: b.VoterName, votes: b.Votes}
	return nil
}

// reveal flips the poll's reveal flag. It reports whether the flag was
// already set so the handler can skip broadcasting on idempotent calls.
func (s *store) reveal(pollID string) (already, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, exists := s.polls[pollID]
	if !exists {
		return false, false
	}
	if state.poll.Revealed {
		return true, true
	}
	state.poll.Revealed = true
	return false, true
}

func (s *store) listTemplates() map[string]domain.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.Template, len(s.templates))
	for title, tmpl := range s.templates {
		out[title] = tmpl
	}
	return out
}

func (s *store) saveTemplate(tmpl domain.Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[tmpl.Title] = tmpl
}

func (s *store) deleteTemplate(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[title]; !ok {
		return false
	}
	delete(s.templates, title)
	return true
}
