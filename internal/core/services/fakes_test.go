package services

import (
	"context"
	"sync"

	"github.com/rocketvote/pollsync/internal/core/domain"
	"github.com/rocketvote/pollsync/internal/core/ports"
)

type submittedBallot struct {
	pollID string
	ballot domain.Ballot
}

// fakePollAPI stands in for the REST adapter. Each FetchSnapshot call
// returns a deep copy so the store always receives a fresh snapshot,
// the same way the real client decodes a fresh payload.
type fakePollAPI struct {
	mu          sync.Mutex
	snapshot    *domain.Snapshot
	fetchErr    error
	submitErr   error
	fetchCalls  int
	submitCalls int
	revealCalls int
	ballots     []submittedBallot
	fetchGate   chan struct{}
}

func (f *fakePollAPI) setSnapshot(snap *domain.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = snap
}

func (f *fakePollAPI) setFetchErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchErr = err
}

func (f *fakePollAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

func (f *fakePollAPI) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitCalls
}

func (f *fakePollAPI) lastBallot() (submittedBallot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ballots) == 0 {
		return submittedBallot{}, false
	}
	return f.ballots[len(f.ballots)-1], true
}

func (f *fakePollAPI) CreatePoll(ctx context.Context, input ports.CreatePollInput) (*ports.CreatedPoll, error) {
	return &ports.CreatedPoll{PollID: "fake poll", CreationID: "fake creation"}, nil
}

func (f *fakePollAPI) FetchSnapshot(ctx context.Context, pollID string) (*domain.Snapshot, error) {
	f.mu.Lock()
	f.fetchCalls++
	gate := f.fetchGate
	err := f.fetchErr
	snap := f.snapshot
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return copySnapshot(snap), nil
}

func (f *fakePollAPI) SubmitBallot(ctx context.Context, pollID string, ballot domain.Ballot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls++
	if f.submitErr != nil {
		return f.submitErr
	}
	f.ballots = append(f.ballots, submittedBallot{pollID: pollID, ballot: ballot})
	return nil
}

func (f *fakePollAPI) FetchAdminView(ctx context.Context, creationID string) (*ports.AdminView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &ports.AdminView{PollID: "fake poll", Snapshot: copySnapshot(f.snapshot)}, nil
}

func (f *fakePollAPI) Reveal(ctx context.Context, creationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revealCalls++
	f.snapshot = copySnapshot(f.snapshot)
	f.snapshot.Poll.Revealed = true
	return nil
}

func copySnapshot(snap *domain.Snapshot) *domain.Snapshot {
	if snap == nil {
		return nil
	}
	out := &domain.Snapshot{Poll: snap.Poll}
	out.Poll.Questions = append([]domain.Question(nil), snap.Poll.Questions...)
	for _, r := range snap.Results {
		cr := domain.QuestionResult{Counts: map[string]int{}}
		for opt, c := range r.Counts {
			cr.Counts[opt] = c
		}
		if r.Voters != nil {
			cr.Voters = map[string][]string{}
			for opt, names := range r.Voters {
				cr.Voters[opt] = append([]string(nil), names...)
			}
		}
		out.Results = append(out.Results, cr)
	}
	return out
}

type fakeKV struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}}
}

func (f *fakeKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

func (f *fakeKV) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return nil
}

type fakeLiveSource struct {
	mu           sync.Mutex
	ch           chan ports.Notification
	subscribeErr error
	subscribes   int
}

func (f *fakeLiveSource) Subscribe(ctx context.Context, pollID string) (<-chan ports.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribes++
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	return f.ch, nil
}

func twoQuestionSnapshot(anonymous bool) *domain.Snapshot {
	return &domain.Snapshot{
		Poll: domain.Poll{
			ID:        "abc1234",
			Anonymous: anonymous,
			Questions: []domain.Question{
				{Description: "Q1", Options: []string{"A", "B", "C"}},
				{Description: "Q2", Options: []string{"X", "Y"}, MultiSelect: true},
			},
		},
		Results: []domain.QuestionResult{
			{Counts: map[string]int{}},
			{Counts: map[string]int{}},
		},
	}
}
