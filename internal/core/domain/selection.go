package domain

// Selection holds a participant's in-progress, unsubmitted choices,
// keyed by question index.
type Selection map[int]map[string]struct{}

func NewSelection() Selection {
	return Selection{}
}

// Toggle applies one interaction with an option card. Single-select
// questions replace their whole set with the chosen option;
// multi-select questions flip the option's membership.
func (s Selection) Toggle(q Question, questionIndex int, option string) error {
	if !q.HasOption(option) {
		return ErrInvalidOption
	}

	if !q.MultiSelect {
		s[questionIndex] = map[string]struct{}{option: {}}
		return nil
	}

	set := s[questionIndex]
	if set == nil {
		set = map[string]struct{}{}
		s[questionIndex] = set
	}
	if _, chosen := set[option]; chosen {
		delete(set, option)
	} else {
		set[option] = struct{}{}
	}
	return nil
}

// Complete reports whether every question of the poll has at least one
// selected option. Submission is gated on this.
func (s Selection) Complete(poll Poll) bool {
	for i := range poll.Questions {
		if len(s[i]) == 0 {
			return false
		}
	}
	return len(poll.Questions) > 0
}

func (s Selection) Equal(other Selection) bool {
	if s.size() != other.size() {
		return false
	}
	for i, set := range s {
		if len(set) == 0 {
			continue
		}
		otherSet := other[i]
		if len(otherSet) != len(set) {
			return false
		}
		for opt := range set {
			if _, ok := otherSet[opt]; !ok {
				return false
			}
		}
	}
	return true
}

func (s Selection) Clone() Selection {
	clone := NewSelection()
	for i, set := range s {
		cloneSet := make(map[string]struct{}, len(set))
		for opt := range set {
			cloneSet[opt] = struct{}{}
		}
		clone[i] = cloneSet
	}
	return clone
}

// Votes renders the selection as index-aligned option lists for the
// vote payload, keeping each question's declaration order so identical
// selections always serialize identically.
func (s Selection) Votes(poll Poll) [][]string {
	votes := make([][]string, len(poll.Questions))
	for i, q := range poll.Questions {
		votes[i] = []string{}
		for _, opt := range q.Options {
			if _, chosen := s[i][opt]; chosen {
				votes[i] = append(votes[i], opt)
			}
		}
	}
	return votes
}

func (s Selection) size() int {
	n := 0
	for _, set := range s {
		if len(set) > 0 {
			n++
		}
	}
	return n
}
