package domain

// Ballot is the wire form of one voter's complete answer set. The
// server replaces any previous ballot stored under the same session,
// so sending the same ballot twice leaves tallies unchanged.
type Ballot struct {
	VoterSession string     `json:"voter_session"`
	VoterName    string     `json:"voter_name,omitempty"`
	Votes        [][]string `json:"votes"`
}

type SubmissionStatus int

const (
	StatusIdle SubmissionStatus = iota
	StatusSubmitting
	StatusSubmitted
	StatusFailed
)

func (s SubmissionStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSubmitted:
		return "submitted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
