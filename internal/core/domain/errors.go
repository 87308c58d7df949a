package domain

import "errors"

var (
	ErrPollNotFound        = errors.New("poll not found")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrNoSnapshot          = errors.New("no snapshot fetched yet")
	ErrIncompleteSelection = errors.New("every question needs at least one selected option")
	ErrInvalidQuestion     = errors.New("question index out of range")
	ErrInvalidOption       = errors.New("option does not belong to this question")
	ErrSubmissionInFlight  = errors.New("a submission is already in flight")
	ErrPollRevealed        = errors.New("poll results already revealed")
	ErrMalformedSnapshot   = errors.New("malformed poll snapshot")
)
