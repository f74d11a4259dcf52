package content

import "regexp"

// ExerciseKind tags an Exercise variant.
type ExerciseKind string

const (
	MultipleChoiceKind ExerciseKind = "multiple_choice"
	TrueFalseKind      ExerciseKind = "true_false"
	TextKind           ExerciseKind = "text"
	FillBlankKind      ExerciseKind = "fill_blank"
	ReorderKind        ExerciseKind = "reorder"
	MatchingKind       ExerciseKind = "matching"
)

// ExerciseKinds lists every variant in authoring order.
func ExerciseKinds() []ExerciseKind {
	return []ExerciseKind{MultipleChoiceKind, TrueFalseKind, TextKind, FillBlankKind, ReorderKind, MatchingKind}
}

// Exercise is a closed union; only the types in this file implement it.
type Exercise interface {
	ExerciseID() string
	Kind() ExerciseKind
	exercise()
}

type MultipleChoice struct {
	ID           string
	Prompt       string
	Options      []string
	CorrectIndex int
}

type TrueFalse struct {
	ID     string
	Prompt string
	Answer bool
}

// FreeText is never auto-graded; Reference is shown to the learner only.
type FreeText struct {
	ID        string
	Prompt    string
	Reference string
}

type FillBlank struct {
	ID       string
	Prompt   string
	Sentence string
	Expected []string
}

type Reorder struct {
	ID           string
	Prompt       string
	Items        []string
	CorrectOrder []int
}

type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Matching answers map a left index to an index into RightOptions.
type Matching struct {
	ID           string
	Prompt       string
	Pairs        []Pair
	RightOptions []string
}

func (e MultipleChoice) ExerciseID() string { return e.ID }
func (e TrueFalse) ExerciseID() string      { return e.ID }
func (e FreeText) ExerciseID() string       { return e.ID }
func (e FillBlank) ExerciseID() string      { return e.ID }
func (e Reorder) ExerciseID() string        { return e.ID }
func (e Matching) ExerciseID() string       { return e.ID }

func (MultipleChoice) Kind() ExerciseKind { return MultipleChoiceKind }
func (TrueFalse) Kind() ExerciseKind      { return TrueFalseKind }
func (FreeText) Kind() ExerciseKind       { return TextKind }
func (FillBlank) Kind() ExerciseKind      { return FillBlankKind }
func (Reorder) Kind() ExerciseKind        { return ReorderKind }
func (Matching) Kind() ExerciseKind       { return MatchingKind }

func (MultipleChoice) exercise() {}
func (TrueFalse) exercise()      {}
func (FreeText) exercise()       {}
func (FillBlank) exercise()      {}
func (Reorder) exercise()        {}
func (Matching) exercise()       {}

var blankMarker = regexp.MustCompile(`_{3,}|\[blank\]`)

// Blanks counts the blank markers in the sentence template.
func (e FillBlank) Blanks() int {
	return len(blankMarker.FindAllStringIndex(e.Sentence, -1))
}
