package session

import (
	"github.com/mind-engage/courseplayer/internal/content"
	"github.com/mind-engage/courseplayer/internal/gating"
	"github.com/mind-engage/courseplayer/internal/progress"
	"github.com/mind-engage/courseplayer/internal/sequence"
)

// ExerciseView is an exercise as shown to the learner: no answer keys.
type ExerciseView struct {
	ID           string               `json:"id"`
	Type         content.ExerciseKind `json:"type"`
	Prompt       string               `json:"prompt,omitempty"`
	Options      []string             `json:"options,omitempty"`
	Sentence     string               `json:"sentence,omitempty"`
	Blanks       int                  `json:"blanks,omitempty"`
	Items        []string             `json:"items,omitempty"`
	Left         []string             `json:"left,omitempty"`
	RightOptions []string             `json:"rightOptions,omitempty"`
}

func exerciseView(ex content.Exercise) ExerciseView {
	v := ExerciseView{ID: ex.ExerciseID(), Type: ex.Kind()}
	switch x := ex.(type) {
	case content.MultipleChoice:
		v.Prompt, v.Options = x.Prompt, x.Options
	case content.TrueFalse:
		v.Prompt = x.Prompt
	case content.FreeText:
		v.Prompt = x.Prompt
	case content.FillBlank:
		v.Prompt, v.Sentence, v.Blanks = x.Prompt, x.Sentence, len(x.Expected)
	case content.Reorder:
		v.Prompt, v.Items = x.Prompt, x.Items
	case content.Matching:
		v.Prompt, v.RightOptions = x.Prompt, x.RightOptions
		for _, p := range x.Pairs {
			v.Left = append(v.Left, p.Left)
		}
	}
	return v
}

// LessonView is a lesson with its number and, when known, its gate.
type LessonView struct {
	Key            string                 `json:"key"`
	UnitID         string                 `json:"unitId"`
	ID             string                 `json:"id"`
	Kind           content.LessonKind     `json:"kind"`
	Title          string                 `json:"title"`
	Number         string                 `json:"number,omitempty"`
	Status         gating.Status          `json:"status,omitempty"`
	Text           string                 `json:"text,omitempty"`
	HasVideo       bool                   `json:"hasVideo"`
	HasDocument    bool                   `json:"hasDocument"`
	ForceExercises bool                   `json:"forceExercises"`
	FinalMessage   string                 `json:"finalMessage,omitempty"`
	Exercises      []ExerciseView         `json:"exercises"`
	Capstone       *content.CapstoneBrief `json:"capstone,omitempty"`
}

type UnitView struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Synthetic bool         `json:"synthetic,omitempty"`
	Lessons   []LessonView `json:"lessons"`
}

type Outline struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Units       []UnitView `json:"units"`
	Countable   int        `json:"countableLessons"`
}

func lessonView(l content.Lesson, seq *sequence.Sequence) LessonView {
	v := LessonView{
		Key:            l.Key,
		UnitID:         l.UnitID,
		ID:             l.ID,
		Kind:           l.Kind,
		Title:          l.Title,
		Number:         seq.Number(l.Key),
		Text:           l.Text,
		HasVideo:       l.HasVideo(),
		HasDocument:    l.HasDocument(),
		ForceExercises: l.ForceExercises,
		FinalMessage:   l.FinalMessage,
		Exercises:      make([]ExerciseView, 0, len(l.Exercises)),
		Capstone:       l.Capstone,
	}
	for _, ex := range l.Exercises {
		v.Exercises = append(v.Exercises, exerciseView(ex))
	}
	return v
}

// BuildOutline renders a numbered course outline without answer keys.
func BuildOutline(c content.Course) Outline {
	seq := sequence.Build(c.Units)
	out := Outline{ID: c.ID, Title: c.Title, Description: c.Description, Countable: seq.CountableTotal()}
	for _, u := range c.Units {
		uv := UnitView{ID: u.ID, Title: u.Title, Synthetic: u.Synthetic, Lessons: make([]LessonView, 0, len(u.Lessons))}
		for _, l := range u.Lessons {
			uv.Lessons = append(uv.Lessons, lessonView(l, seq))
		}
		out.Units = append(out.Units, uv)
	}
	return out
}

// View is the player's state as a client sees it.
type View struct {
	SessionID     string               `json:"sessionId"`
	Learner       string               `json:"learner"`
	CourseID      string               `json:"courseId"`
	Lessons       []gating.LessonState `json:"lessons"`
	Stats         progress.Stats       `json:"stats"`
	FirstPlayable int                  `json:"firstPlayable"`
	Resume        *gating.LessonState  `json:"resume,omitempty"`
	LastActive    *progress.Position   `json:"lastActive,omitempty"`
	Active        string               `json:"active,omitempty"`
}
