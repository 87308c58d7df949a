package domain

type Poll struct {
	ID        string     `json:"id"`
	Anonymous bool       `json:"anonymous"`
	Revealed  bool       `json:"revealed"`
	Questions []Question `json:"questions"`
}

// Question is immutable after poll creation. Option labels are unique
// within a question (case-insensitive, trimmed); the creation form
// guarantees this before the engine ever sees the poll.
type Question struct {
	Description string   `json:"description"`
	Options     []string `json:"options"`
	MultiSelect bool     `json:"multi_select"`
}

func (q Question) HasOption(option string) bool {
	for _, opt := range q.Options {
		if opt == option {
			return true
		}
	}
	return false
}
