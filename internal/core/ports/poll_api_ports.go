package ports

import (
	"context"

	"github.com/rocketvote/pollsync/internal/core/domain"
)

type CreatePollInput struct {
	Questions []domain.Question
	Anonymous bool
}

// CreatedPoll carries the two identities a new poll gets: the public
// shareable id and the organizer-only creation id.
type CreatedPoll struct {
	PollID     string
	CreationID string
}

type AdminView struct {
	PollID   string
	Snapshot *domain.Snapshot
}

// PollAPI is the REST contract the engine consumes. SubmitBallot
// replaces the calling session's previous ballot and is safe to call
// repeatedly with identical content; Reveal is an idempotent no-op once
// the poll is revealed.
type PollAPI interface {
	CreatePoll(ctx context.Context, input CreatePollInput) (*CreatedPoll, error)
	FetchSnapshot(ctx context.Context, pollID string) (*domain.Snapshot, error)
	SubmitBallot(ctx context.Context, pollID string, ballot domain.Ballot) error
	FetchAdminView(ctx context.Context, creationID string) (*AdminView, error)
	Reveal(ctx context.Context, creationID string) error
}

// PollService validates and issues poll creation.
type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*CreatedPoll, error)
}

// TemplateAPI is the reusable question set CRUD the engine consumes
// when prefilling a new poll.
type TemplateAPI interface {
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	SaveTemplate(ctx context.Context, template domain.Template) error
	DeleteTemplate(ctx context.Context, title string) error
}
