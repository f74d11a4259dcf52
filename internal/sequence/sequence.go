// Package sequence flattens normalized units into the single ordered lesson
// sequence used for gating, numbering and "next lesson" navigation.
package sequence

import (
	"fmt"

	"github.com/mind-engage/courseplayer/internal/content"
)

// Entry is one position in the flattened sequence.
type Entry struct {
	UnitIndex   int    `json:"unitIndex"`
	LessonIndex int    `json:"lessonIndex"`
	Key         string `json:"key"`
}

type Sequence struct {
	units   []content.Unit
	flat    []Entry
	byKey   map[string]int
	numbers map[string]string
	total   int // countable lessons
}

// Build flattens units in document order and numbers countable lessons as
// "{unit}.{n}", restarting n in every unit.
func Build(units []content.Unit) *Sequence {
	s := &Sequence{
		units:   units,
		byKey:   map[string]int{},
		numbers: map[string]string{},
	}
	for ui, u := range units {
		counter := 0
		for li, l := range u.Lessons {
			s.byKey[l.Key] = len(s.flat)
			s.flat = append(s.flat, Entry{UnitIndex: ui, LessonIndex: li, Key: l.Key})
			if l.Countable() {
				counter++
				s.total++
				s.numbers[l.Key] = fmt.Sprintf("%d.%d", ui+1, counter)
			}
		}
	}
	return s
}

func (s *Sequence) Len() int { return len(s.flat) }

// Flat returns a copy of the flattened sequence.
func (s *Sequence) Flat() []Entry {
	out := make([]Entry, len(s.flat))
	copy(out, s.flat)
	return out
}

func (s *Sequence) At(i int) (Entry, bool) {
	if i < 0 || i >= len(s.flat) {
		return Entry{}, false
	}
	return s.flat[i], true
}

// IndexOf maps a (unit, lesson) position to its flat index, or -1.
func (s *Sequence) IndexOf(unitIdx, lessonIdx int) int {
	if unitIdx < 0 || unitIdx >= len(s.units) {
		return -1
	}
	if lessonIdx < 0 || lessonIdx >= len(s.units[unitIdx].Lessons) {
		return -1
	}
	return s.byKey[s.units[unitIdx].Lessons[lessonIdx].Key]
}

// IndexOfKey returns the flat index of a lesson key, or -1.
func (s *Sequence) IndexOfKey(key string) int {
	if i, ok := s.byKey[key]; ok {
		return i
	}
	return -1
}

func (s *Sequence) Lesson(key string) (content.Lesson, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return content.Lesson{}, false
	}
	e := s.flat[i]
	return s.units[e.UnitIndex].Lessons[e.LessonIndex], true
}

// LessonAt returns the lesson at flat index i.
func (s *Sequence) LessonAt(i int) (content.Lesson, bool) {
	e, ok := s.At(i)
	if !ok {
		return content.Lesson{}, false
	}
	return s.units[e.UnitIndex].Lessons[e.LessonIndex], true
}

// Number is the human label of a countable lesson; "" for everything else.
func (s *Sequence) Number(key string) string { return s.numbers[key] }

func (s *Sequence) CountableTotal() int { return s.total }

func (s *Sequence) Units() []content.Unit { return s.units }
