package domain

// Snapshot is the complete authoritative view of a poll as last fetched
// from the server. It is always replaced wholesale, never merged field
// by field, so counts, voters and the revealed flag can only be read
// together.
type Snapshot struct {
	Poll    Poll             `json:"poll"`
	Results []QuestionResult `json:"results"`
}

// QuestionResult carries the tally for one question. Voters is only
// populated for non-anonymous polls; anonymous snapshots never contain
// it, so identity cannot leak through a client bug.
type QuestionResult struct {
	Counts map[string]int      `json:"counts"`
	Voters map[string][]string `json:"voters,omitempty"`
}

// Validate rejects payloads that do not line up with their own poll
// metadata. A snapshot failing validation is treated like a transport
// error: discarded, with the last good snapshot kept.
func (s *Snapshot) Validate() error {
	if len(s.Poll.Questions) == 0 {
		return ErrMalformedSnapshot
	}
	if len(s.Results) != len(s.Poll.Questions) {
		return ErrMalformedSnapshot
	}
	for i, q := range s.Poll.Questions {
		if len(q.Options) == 0 {
			return ErrMalformedSnapshot
		}
		for opt := range s.Results[i].Counts {
			if !q.HasOption(opt) {
				return ErrMalformedSnapshot
			}
		}
		if s.Poll.Anonymous && len(s.Results[i].Voters) > 0 {
			return ErrMalformedSnapshot
		}
	}
	return nil
}
