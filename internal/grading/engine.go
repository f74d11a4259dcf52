package grading

import (
	"regexp"

	"github.com/mind-engage/courseplayer/internal/content"
)

// ItemResult is the outcome for one exercise.
type ItemResult struct {
	ExerciseID string               `json:"exerciseId"`
	Kind       content.ExerciseKind `json:"kind"`
	Correct    bool                 `json:"correct"`
}

// Result aggregates a lesson's exercises. Zero exercises is vacuously all
// good.
type Result struct {
	AllGood bool         `json:"allGood"`
	Correct int          `json:"correct"`
	Total   int          `json:"total"`
	Items   []ItemResult `json:"items"`
}

// Engine options

type Option func(*config)

type config struct {
	LinkPatterns []*regexp.Regexp // capstone submission allow-list
}

// WithLinkPatterns replaces the capstone link allow-list.
func WithLinkPatterns(p ...*regexp.Regexp) Option { return func(c *config) { c.LinkPatterns = p } }

// Evaluator scores answers against exercise keys. It holds no state between
// calls.
type Evaluator struct {
	cfg config
}

func NewEvaluator(opts ...Option) *Evaluator {
	cfg := config{LinkPatterns: DefaultLinkPatterns()}
	for _, o := range opts {
		o(&cfg)
	}
	return &Evaluator{cfg: cfg}
}

// Evaluate scores every exercise against answers, keyed by exercise id.
// A missing or wrong-shaped answer counts as incorrect.
func (e *Evaluator) Evaluate(exercises []content.Exercise, answers map[string]any) Result {
	res := Result{Total: len(exercises), Items: make([]ItemResult, 0, len(exercises))}
	for _, ex := range exercises {
		ok := Grade(ex, answers[ex.ExerciseID()])
		if ok {
			res.Correct++
		}
		res.Items = append(res.Items, ItemResult{ExerciseID: ex.ExerciseID(), Kind: ex.Kind(), Correct: ok})
	}
	res.AllGood = res.Correct == res.Total
	return res
}

// Grade scores a single answer.
func Grade(ex content.Exercise, answer any) bool {
	switch x := ex.(type) {
	case content.MultipleChoice:
		return gradeMultipleChoice(x, answer)
	case content.TrueFalse:
		return gradeTrueFalse(x, answer)
	case content.FreeText:
		return gradeFreeText(answer)
	case content.FillBlank:
		return gradeFillBlank(x, answer)
	case content.Reorder:
		return gradeReorder(x, answer)
	case content.Matching:
		return gradeMatching(x, answer)
	}
	return false
}

func gradeMultipleChoice(x content.MultipleChoice, answer any) bool {
	idx, ok := toInt(answer)
	return ok && idx >= 0 && idx == x.CorrectIndex
}

func gradeTrueFalse(x content.TrueFalse, answer any) bool {
	b, ok := toBool(answer)
	return ok && b == x.Answer
}

// Free text is complete, not correct: any non-blank answer passes.
func gradeFreeText(answer any) bool {
	s, ok := answer.(string)
	return ok && hasText(s)
}

func gradeFillBlank(x content.FillBlank, answer any) bool {
	got, ok := toStringSlice(answer)
	if !ok || len(x.Expected) == 0 || len(got) != len(x.Expected) {
		return false
	}
	for i, want := range x.Expected {
		if !sameText(got[i], want) {
			return false
		}
	}
	return true
}

func gradeReorder(x content.Reorder, answer any) bool {
	got, ok := toIntSlice(answer)
	if !ok || len(x.CorrectOrder) == 0 || len(got) != len(x.CorrectOrder) {
		return false
	}
	for i := range got {
		if got[i] != x.CorrectOrder[i] {
			return false
		}
	}
	return true
}

// Matching compares labels, not indexes: the right-hand options may be
// shown in any order.
func gradeMatching(x content.Matching, answer any) bool {
	picks, ok := toIndexMap(answer)
	if !ok || len(x.Pairs) == 0 {
		return false
	}
	for left, p := range x.Pairs {
		right, ok := picks[left]
		if !ok || right < 0 || right >= len(x.RightOptions) {
			return false
		}
		if !sameLabel(x.RightOptions[right], p.Right) {
			return false
		}
	}
	return true
}
