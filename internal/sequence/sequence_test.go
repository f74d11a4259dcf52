package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/courseplayer/internal/content"
)

func lesson(unit, id string, kind content.LessonKind) content.Lesson {
	return content.Lesson{Key: content.LessonKey(unit, id), UnitID: unit, ID: id, Kind: kind}
}

func testUnits() []content.Unit {
	return []content.Unit{
		{ID: "a", Lessons: []content.Lesson{
			lesson("a", "intro", content.KindText),
			lesson("a", "l1", content.KindVideo),
			lesson("a", "l2", content.KindVideo),
		}},
		{ID: "b", Lessons: []content.Lesson{
			lesson("b", "l1", content.KindVideo),
			lesson("b", "closing", content.KindText),
		}},
		{ID: "final-exam", Synthetic: true, Lessons: []content.Lesson{
			lesson("final-exam", "final-exam", content.KindExam),
		}},
	}
}

func TestBuild(t *testing.T) {
	s := Build(testUnits())

	require.Equal(t, 6, s.Len())
	assert.Equal(t, Entry{UnitIndex: 1, LessonIndex: 0, Key: "b::l1"}, s.Flat()[3])
	assert.Equal(t, 3, s.CountableTotal())

	assert.Equal(t, "", s.Number("a::intro"))
	assert.Equal(t, "1.1", s.Number("a::l1"))
	assert.Equal(t, "1.2", s.Number("a::l2"))
	assert.Equal(t, "2.1", s.Number("b::l1"))
	assert.Equal(t, "", s.Number("final-exam::final-exam"))
}

func TestLookups(t *testing.T) {
	s := Build(testUnits())

	assert.Equal(t, 4, s.IndexOf(1, 1))
	assert.Equal(t, -1, s.IndexOf(1, 2))
	assert.Equal(t, -1, s.IndexOf(9, 0))
	assert.Equal(t, 5, s.IndexOfKey("final-exam::final-exam"))
	assert.Equal(t, -1, s.IndexOfKey("nope"))

	l, ok := s.Lesson("b::closing")
	require.True(t, ok)
	assert.Equal(t, content.KindText, l.Kind)

	l, ok = s.LessonAt(0)
	require.True(t, ok)
	assert.Equal(t, "a::intro", l.Key)
	_, ok = s.LessonAt(6)
	assert.False(t, ok)
}

func TestBuild_Empty(t *testing.T) {
	s := Build(nil)
	assert.Zero(t, s.Len())
	assert.Zero(t, s.CountableTotal())
	assert.Empty(t, s.Flat())
}
