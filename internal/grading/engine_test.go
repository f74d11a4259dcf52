package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/courseplayer/internal/content"
)

func TestGrade_Matrix(t *testing.T) {
	mc := content.MultipleChoice{ID: "mc", Options: []string{"A", "B", "C"}, CorrectIndex: 1}
	tf := content.TrueFalse{ID: "tf", Answer: true}
	txt := content.FreeText{ID: "txt", Reference: "anything"}
	fb := content.FillBlank{ID: "fb", Sentence: "The tower in ___ was built in ___", Expected: []string{"Paris", "1889"}}
	ro := content.Reorder{ID: "ro", Items: []string{"a", "b", "c"}, CorrectOrder: []int{2, 0, 1}}
	ma := content.Matching{ID: "ma",
		Pairs:        []content.Pair{{Left: "A", Right: "1"}, {Left: "B", Right: "2"}},
		RightOptions: []string{"2", "1"},
	}

	cases := []struct {
		name   string
		ex     content.Exercise
		answer any
		want   bool
	}{
		{"mc right", mc, 1.0, true},
		{"mc wrong", mc, 0.0, false},
		{"mc numeric string", mc, "1", true},
		{"mc missing", mc, nil, false},
		{"mc fractional", mc, 1.5, false},
		{"tf right", tf, true, true},
		{"tf wrong", tf, false, false},
		{"tf string", tf, "true", true},
		{"tf wrong shape", tf, 1.0, false},
		{"text filled", txt, "my thoughts", true},
		{"text blank", txt, "   ", false},
		{"text wrong shape", txt, 3.0, false},
		{"fill trimmed and folded", fb, []any{" paris ", "1889"}, true},
		{"fill wrong", fb, []any{"Lyon", "1889"}, false},
		{"fill short", fb, []any{"Paris"}, false},
		{"fill non string", fb, []any{"Paris", 1889.0}, false},
		{"reorder right", ro, []any{2.0, 0.0, 1.0}, true},
		{"reorder identity", ro, []any{0.0, 1.0, 2.0}, false},
		{"reorder native", ro, []int{2, 0, 1}, true},
		{"matching by label", ma, map[string]any{"0": 1.0, "1": 0.0}, true},
		{"matching swapped", ma, map[string]any{"0": 0.0, "1": 1.0}, false},
		{"matching partial", ma, map[string]any{"0": 1.0}, false},
		{"matching out of range", ma, map[string]any{"0": 1.0, "1": 5.0}, false},
		{"matching array form", ma, []any{1.0, 0.0}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Grade(tc.ex, tc.answer))
		})
	}
}

func TestGrade_MatchingWrongPairLabel(t *testing.T) {
	// left0 mapped to the option labelled "2" while its true pair is "1".
	ma := content.Matching{ID: "m",
		Pairs:        []content.Pair{{Left: "A", Right: "1"}, {Left: "B", Right: "2"}},
		RightOptions: []string{"1", "2"},
	}
	assert.False(t, Grade(ma, map[string]any{"0": 1.0, "1": 1.0}))
	assert.False(t, Grade(content.Matching{ID: "empty"}, map[string]any{}))
}

func TestEvaluate_Aggregate(t *testing.T) {
	e := NewEvaluator()
	exs := []content.Exercise{
		content.MultipleChoice{ID: "q1", Options: []string{"A", "B"}, CorrectIndex: 0},
		content.TrueFalse{ID: "q2", Answer: false},
		content.FreeText{ID: "q3"},
	}
	answers := map[string]any{"q1": 0.0, "q2": true, "q3": "done"}

	res := e.Evaluate(exs, answers)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 3, res.Total)
	assert.False(t, res.AllGood)
	require.Len(t, res.Items, 3)
	assert.False(t, res.Items[1].Correct)

	assert.Equal(t, res, e.Evaluate(exs, answers), "evaluation is deterministic")

	answers["q2"] = false
	assert.True(t, e.Evaluate(exs, answers).AllGood)

	empty := e.Evaluate(nil, nil)
	assert.True(t, empty.AllGood)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.Correct)
}

func TestCapstone(t *testing.T) {
	e := NewEvaluator()
	l := content.Lesson{Kind: content.KindCapstone, Capstone: &content.CapstoneBrief{Checklist: []string{"tests", "readme"}}}

	res, err := e.Capstone(l, CapstoneSubmission{Checked: []bool{true, true}, Link: "https://github.com/alice/project"})
	require.NoError(t, err)
	assert.True(t, res.Complete)

	res, err = e.Capstone(l, CapstoneSubmission{Checked: []bool{true, false}, Link: "https://github.com/alice/project"})
	require.NoError(t, err)
	assert.False(t, res.Complete)
	assert.Equal(t, 1, res.Checked)

	res, err = e.Capstone(l, CapstoneSubmission{Checked: []bool{true, true}, Link: "https://example.com/x"})
	require.NoError(t, err)
	assert.False(t, res.Complete)
	assert.False(t, res.LinkOK)

	res, err = e.Capstone(l, CapstoneSubmission{Checked: []bool{true, true}, Link: " "})
	require.NoError(t, err)
	assert.False(t, res.Complete)

	_, err = e.Capstone(content.Lesson{Kind: content.KindVideo}, CapstoneSubmission{})
	assert.ErrorIs(t, err, ErrNotCapstone)
}

func TestCapstone_CustomPatterns(t *testing.T) {
	pats, err := CompileLinkPatterns([]string{`^https://git\.example\.com/`})
	require.NoError(t, err)
	e := NewEvaluator(WithLinkPatterns(pats...))
	l := content.Lesson{Kind: content.KindCapstone, Capstone: &content.CapstoneBrief{}}

	res, err := e.Capstone(l, CapstoneSubmission{Link: "https://git.example.com/a"})
	require.NoError(t, err)
	assert.True(t, res.Complete, "empty checklist only needs the link")

	res, _ = e.Capstone(l, CapstoneSubmission{Link: "https://github.com/a"})
	assert.False(t, res.Complete)

	_, err = CompileLinkPatterns([]string{"("})
	assert.Error(t, err)
}
