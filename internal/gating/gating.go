// Package gating derives lesson availability from the flattened sequence and
// the learner's progress. It keeps no state: every call recomputes.
package gating

import (
	"github.com/mind-engage/courseplayer/internal/progress"
	"github.com/mind-engage/courseplayer/internal/sequence"
)

type Status string

const (
	Locked    Status = "locked"
	Unlocked  Status = "unlocked"
	Completed Status = "completed"
)

// LessonState is one lesson's gate.
type LessonState struct {
	Index  int    `json:"index"`
	Key    string `json:"key"`
	Number string `json:"number,omitempty"`
	Status Status `json:"status"`
}

func (s LessonState) Playable() bool { return s.Status != Locked }

// Gates is the result of one recomputation.
type Gates struct {
	States        []LessonState `json:"lessons"`
	FirstPlayable int           `json:"firstPlayable"`
	byKey         map[string]int
}

// Compute walks the sequence once. A lesson is unlocked while every earlier
// lesson is completed; the first incomplete lesson locks everything after it.
func Compute(seq *sequence.Sequence, s progress.State) Gates {
	n := seq.Len()
	g := Gates{States: make([]LessonState, n), FirstPlayable: -1, byKey: make(map[string]int, n)}
	blocked := false
	for i := 0; i < n; i++ {
		l, _ := seq.LessonAt(i)
		st := LessonState{Index: i, Key: l.Key, Number: seq.Number(l.Key)}
		lp, ok := s.ByLesson[l.Key]
		done := ok && progress.IsCompleted(l, lp)
		switch {
		case blocked:
			st.Status = Locked
		case done:
			st.Status = Completed
		default:
			st.Status = Unlocked
		}
		if !done {
			if g.FirstPlayable < 0 {
				g.FirstPlayable = i
			}
			blocked = true
		}
		g.States[i] = st
		g.byKey[l.Key] = i
	}
	if g.FirstPlayable < 0 && n > 0 {
		g.FirstPlayable = n - 1
	}
	return g
}

func (g Gates) State(key string) (LessonState, bool) {
	i, ok := g.byKey[key]
	if !ok {
		return LessonState{}, false
	}
	return g.States[i], true
}

func (g Gates) IsLocked(key string) bool {
	st, ok := g.State(key)
	return !ok || st.Status == Locked
}

// Next is the lesson the learner should act on: the first incomplete one, or
// the last lesson once everything is done.
func (g Gates) Next() (LessonState, bool) {
	if g.FirstPlayable < 0 {
		return LessonState{}, false
	}
	return g.States[g.FirstPlayable], true
}

// Completed counts completed lessons over the whole sequence.
func (g Gates) Completed() int {
	n := 0
	for _, s := range g.States {
		if s.Status == Completed {
			n++
		}
	}
	return n
}
