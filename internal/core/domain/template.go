package domain

// Template is a reusable question set owned by the organizer. Templates
// are never mutated in place: re-saving under the same title overwrites
// the previous one.
type Template struct {
	Title     string     `json:"title"`
	Anonymous bool       `json:"anonymous"`
	Questions []Question `json:"questions"`
}
