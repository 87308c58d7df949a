package domain

import "sort"

// OptionStat is the display-ready aggregate for one option.
type OptionStat struct {
	Option     string
	Count      int
	Percentage float64
}

// TotalVotes sums the counts of one question.
func (s *Snapshot) TotalVotes(questionIndex int) int {
	if questionIndex < 0 || questionIndex >= len(s.Results) {
		return 0
	}
	total := 0
	for _, c := range s.Results[questionIndex].Counts {
		total += c
	}
	return total
}

// Percentages maps every option of the question to its share of the
// vote. With no votes yet every option reports 0 rather than dividing
// by zero.
func (s *Snapshot) Percentages(questionIndex int) map[string]float64 {
	if questionIndex < 0 || questionIndex >= len(s.Poll.Questions) {
		return nil
	}
	total := s.TotalVotes(questionIndex)
	percentages := make(map[string]float64, len(s.Poll.Questions[questionIndex].Options))
	for _, opt := range s.Poll.Questions[questionIndex].Options {
		if total == 0 {
			percentages[opt] = 0
			continue
		}
		percentages[opt] = float64(s.Results[questionIndex].Counts[opt]) / float64(total)
	}
	return percentages
}

// Ranking returns the question's options ordered by descending count.
// The sort is stable over declaration order, so ties render in the same
// order the organizer wrote them.
func (s *Snapshot) Ranking(questionIndex int) []OptionStat {
	if questionIndex < 0 || questionIndex >= len(s.Poll.Questions) {
		return nil
	}
	total := s.TotalVotes(questionIndex)
	stats := make([]OptionStat, 0, len(s.Poll.Questions[questionIndex].Options))
	for _, opt := range s.Poll.Questions[questionIndex].Options {
		count := s.Results[questionIndex].Counts[opt]
		stat := OptionStat{Option: opt, Count: count}
		if total > 0 {
			stat.Percentage = float64(count) / float64(total)
		}
		stats = append(stats, stat)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}

// VotersFor lists who picked the option. For anonymous polls it returns
// an empty list unconditionally, whatever the underlying counts say.
func (s *Snapshot) VotersFor(questionIndex int, option string) []string {
	if s.Poll.Anonymous {
		return []string{}
	}
	if questionIndex < 0 || questionIndex >= len(s.Results) {
		return []string{}
	}
	voters := s.Results[questionIndex].Voters[option]
	if voters == nil {
		return []string{}
	}
	return voters
}
