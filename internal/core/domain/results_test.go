package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(anonymous bool) *Snapshot {
	snap := &Snapshot{
		Poll: Poll{
			ID:        "abc1234",
			Anonymous: anonymous,
			Questions: []Question{
				{Description: "Favorite letter?", Options: []string{"A", "B", "C"}},
				{Description: "Pick any", Options: []string{"X", "Y"}, MultiSelect: true},
			},
		},
		Results: []QuestionResult{
			{Counts: map[string]int{"A": 1, "B": 3, "C": 1}},
			{Counts: map[string]int{}},
		},
	}
	if !anonymous {
		snap.Results[0].Voters = map[string][]string{
			"A": {"alice"},
			"B": {"bob", "carol", "dave"},
			"C": {"erin"},
		}
	}
	return snap
}

func TestPercentages(t *testing.T) {
	snap := testSnapshot(true)

	p := snap.Percentages(0)
	assert.InDelta(t, 0.2, p["A"], 1e-9)
	assert.InDelta(t, 0.6, p["B"], 1e-9)
	assert.InDelta(t, 0.2, p["C"], 1e-9)
}

func TestPercentagesNoVotesYet(t *testing.T) {
	snap := testSnapshot(true)

	p := snap.Percentages(1)
	require.Len(t, p, 2)
	assert.Zero(t, p["X"])
	assert.Zero(t, p["Y"])
}

func TestRankingStableTieBreak(t *testing.T) {
	snap := testSnapshot(true)

	ranking := snap.Ranking(0)
	require.Len(t, ranking, 3)
	assert.Equal(t, "B", ranking[0].Option)
	// A and C tie at 1; declaration order decides
	assert.Equal(t, "A", ranking[1].Option)
	assert.Equal(t, "C", ranking[2].Option)
	assert.InDelta(t, 0.6, ranking[0].Percentage, 1e-9)
}

func TestVotersFor(t *testing.T) {
	snap := testSnapshot(false)

	assert.Equal(t, []string{"bob", "carol", "dave"}, snap.VotersFor(0, "B"))
	assert.Empty(t, snap.VotersFor(0, "unknown"))
	assert.Empty(t, snap.VotersFor(5, "B"))
}

func TestVotersForAnonymousAlwaysEmpty(t *testing.T) {
	snap := testSnapshot(false)
	snap.Poll.Anonymous = true

	// even with an attribution map present, anonymous wins
	for _, opt := range snap.Poll.Questions[0].Options {
		assert.Empty(t, snap.VotersFor(0, opt))
	}
}

func TestSnapshotValidate(t *testing.T) {
	valid := testSnapshot(false)
	require.NoError(t, valid.Validate())

	missingResults := testSnapshot(false)
	missingResults.Results = missingResults.Results[:1]
	assert.ErrorIs(t, missingResults.Validate(), ErrMalformedSnapshot)

	strayCount := testSnapshot(false)
	strayCount.Results[0].Counts["D"] = 2
	assert.ErrorIs(t, strayCount.Validate(), ErrMalformedSnapshot)

	leakedVoters := testSnapshot(false)
	leakedVoters.Poll.Anonymous = true
	assert.ErrorIs(t, leakedVoters.Validate(), ErrMalformedSnapshot,
		"anonymous snapshots must not carry attribution")

	noQuestions := &Snapshot{Poll: Poll{ID: "x"}}
	assert.ErrorIs(t, noQuestions.Validate(), ErrMalformedSnapshot)
}
