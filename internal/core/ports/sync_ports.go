package ports

import (
	"context"

	"github.com/rocketvote/pollsync/internal/core/domain"
)

// Notification is a data-free invalidation signal: it says "refetch
// now", never what changed.
type Notification struct {
	ResultsRevealed bool `json:"results_revealed,omitempty"`
	VoteCast        bool `json:"vote_cast,omitempty"`
}

// LiveUpdateSource opens one push subscription per poll. The returned
// channel is closed when the connection drops or ctx is cancelled;
// callers fall back to periodic polling when Subscribe fails.
type LiveUpdateSource interface {
	Subscribe(ctx context.Context, pollID string) (<-chan Notification, error)
}

// SnapshotStore holds the last-known authoritative snapshot of one
// poll. Refresh replaces it wholesale; a failed refresh keeps the
// previous snapshot in place. Revealed is monotonic: once true it never
// reads false again, whatever a racing refresh reports.
type SnapshotStore interface {
	Refresh(ctx context.Context) error
	Current() (*domain.Snapshot, bool)
	Revealed() bool
	MarkRevealed()
}

// SubmissionService turns the participant's selection into overwrite
// vote requests and tracks the submission state machine.
type SubmissionService interface {
	Toggle(questionIndex int, option string) error
	Selection() domain.Selection
	Status() domain.SubmissionStatus
	NeedsResubmission() bool
	CanSubmit() bool
	Submit(ctx context.Context) error
}

// Update tells a session consumer that the stored snapshot may have
// changed. Err carries a transient refresh failure; the last good
// snapshot is still readable when it is set.
type Update struct {
	Revealed bool
	Err      error
}

// PollSession keeps one poll view eventually consistent: push channel
// when available, periodic polling otherwise. Stop tears down the
// connection and any timer; no background work survives it.
type PollSession interface {
	Start(ctx context.Context) error
	Updates() <-chan Update
	Stop()
}

type RevealService interface {
	Reveal(ctx context.Context) error
	AdminView(ctx context.Context) (*AdminView, error)
	ShareURL(pollID string) string
}

type TemplateService interface {
	List(ctx context.Context) ([]domain.Template, error)
	Save(ctx context.Context, template domain.Template) error
	Delete(ctx context.Context, title string) error
	Prefill(ctx context.Context, title string) (*CreatePollInput, error)
}
