// Package progress holds the learner's per-lesson progress, the completion
// law, and the reconciler that merges outcomes and persists snapshots.
package progress

import (
	"time"

	"github.com/mind-engage/courseplayer/internal/content"
)

type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// LessonProgress is created on first interaction and only ever overwritten.
type LessonProgress struct {
	VideoEnded     bool           `json:"videoEnded"`
	ExSubmitted    bool           `json:"exSubmitted"`
	ExPassed       bool           `json:"exPassed"`
	Score          *Score         `json:"score,omitempty"`
	AnswerSnapshot map[string]any `json:"answerSnapshot,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type Position struct {
	UnitID   string `json:"unitId"`
	LessonID string `json:"lessonId"`
}

// State is one learner's progress in one course.
type State struct {
	ByLesson   map[string]LessonProgress `json:"byLesson"`
	LastActive *Position                 `json:"lastActive,omitempty"`
}

func NewState() State { return State{ByLesson: map[string]LessonProgress{}} }

// Lesson returns the record for key; the zero value when absent.
func (s State) Lesson(key string) LessonProgress { return s.ByLesson[key] }

func (s State) clone() State {
	out := State{ByLesson: make(map[string]LessonProgress, len(s.ByLesson))}
	for k, v := range s.ByLesson {
		out.ByLesson[k] = v
	}
	if s.LastActive != nil {
		p := *s.LastActive
		out.LastActive = &p
	}
	return out
}

// Patch is a field-wise update; nil fields are left untouched.
type Patch struct {
	VideoEnded  *bool  `json:"videoEnded,omitempty"`
	ExSubmitted *bool  `json:"exSubmitted,omitempty"`
	ExPassed    *bool  `json:"exPassed,omitempty"`
	Score       *Score `json:"score,omitempty"`
}

func Bool(b bool) *bool { return &b }

func (p Patch) apply(lp LessonProgress) LessonProgress {
	if p.VideoEnded != nil {
		lp.VideoEnded = *p.VideoEnded
	}
	if p.ExSubmitted != nil {
		lp.ExSubmitted = *p.ExSubmitted
	}
	if p.ExPassed != nil {
		lp.ExPassed = *p.ExPassed
	}
	if p.Score != nil {
		s := *p.Score
		lp.Score = &s
	}
	return lp
}

// IsCompleted is the completion law: the learner submitted, and either
// watched the video to the end, or the lesson has a document, or it allows
// submission without media. A videoEnded flag only counts on lessons that
// carry a video; on any other lesson it is ignored.
func IsCompleted(l content.Lesson, lp LessonProgress) bool {
	if !lp.ExSubmitted {
		return false
	}
	return (l.HasVideo() && lp.VideoEnded) || l.HasDocument() || l.ForceExercises
}

type Stats struct {
	CompletedLessons int `json:"completedLessons"`
	PassedLessons    int `json:"passedLessons"`
	TotalLessons     int `json:"totalLessons"`
	Percentage       int `json:"percentage"`
}

type CourseMeta struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Document is what gets persisted under (learner, course).
type Document struct {
	CourseMeta      CourseMeta        `json:"courseMeta"`
	CourseStructure StructureSnapshot `json:"courseStructure"`
	Progress        State             `json:"progress"`
	Stats           Stats             `json:"stats"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}
