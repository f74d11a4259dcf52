package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCourse() map[string]any {
	return map[string]any{
		"id":    "go-101",
		"title": "Go 101",
		"units": []any{
			map[string]any{
				"id":          "basics",
				"title":       "Basics",
				"description": "What you will learn.",
				"lessons": []any{
					map[string]any{"id": "hello", "title": "Hello", "video": "videos/hello.mp4"},
					map[string]any{"video": "videos/vars.mp4", "exercises": []any{
						map[string]any{"type": "multiple_choice", "options": []any{"A", "B", "C"}, "correctIndex": 1.0},
						map[string]any{"type": "hologram"},
					}},
					map[string]any{"id": "notes", "type": "text", "text": "Read this."},
				},
				"closingText": "Well done.",
			},
			"not a unit",
			map[string]any{"lessons": "not a list"},
		},
		"finalExam":  map[string]any{"exercises": []any{map[string]any{"type": "true_false", "answer": true}}},
		"capstone":   map[string]any{"instructions": "Build it.", "checklist": []any{"tests", "readme"}},
		"courseWrap": map[string]any{"text": "Bye."},
	}
}

func keys(units []Unit) []string {
	var out []string
	for _, u := range units {
		for _, l := range u.Lessons {
			out = append(out, l.Key)
		}
	}
	return out
}

func TestNormalize_OrderAndSynthetics(t *testing.T) {
	units := Normalize(sampleCourse())

	assert.Equal(t, []string{
		"basics::intro",
		"basics::hello",
		"basics::lesson-0-1",
		"basics::notes",
		"basics::closing",
		"final-exam::final-exam",
		"capstone::capstone",
		"course-wrap::course-wrap",
	}, keys(units))

	require.Len(t, units, 5)
	assert.Equal(t, "unit-2", units[1].ID)
	assert.Equal(t, "Unit 3", units[1].Title)
	assert.Empty(t, units[1].Lessons)

	basics := units[0]
	intro := basics.Lessons[0]
	assert.Equal(t, KindText, intro.Kind)
	assert.True(t, intro.ForceExercises)
	assert.True(t, intro.Synthetic)
	assert.False(t, intro.HasVideo())

	second := basics.Lessons[2]
	assert.Equal(t, "Lesson 2", second.Title)
	assert.Equal(t, KindVideo, second.Kind)
	require.Len(t, second.Exercises, 1, "unknown exercise types are dropped")
	mc, ok := second.Exercises[0].(MultipleChoice)
	require.True(t, ok)
	assert.Equal(t, "ex-0", mc.ID)
	assert.Equal(t, 1, mc.CorrectIndex)

	assert.Equal(t, KindText, basics.Lessons[3].Kind)
	assert.True(t, basics.Lessons[4].ForceExercises)

	exam := units[2]
	assert.True(t, exam.Synthetic)
	require.Len(t, exam.Lessons, 1)
	assert.Equal(t, "final-exam::final-exam", exam.Lessons[0].Key)
	assert.Equal(t, KindExam, exam.Lessons[0].Kind)
	assert.Equal(t, "Final exam", exam.Lessons[0].Title)
	assert.True(t, exam.Lessons[0].ForceExercises)

	capstone := units[3].Lessons[0]
	assert.Equal(t, KindCapstone, capstone.Kind)
	require.NotNil(t, capstone.Capstone)
	assert.Equal(t, []string{"tests", "readme"}, capstone.Capstone.Checklist)
	assert.Empty(t, capstone.Exercises)

	wrap := units[4].Lessons[0]
	assert.Equal(t, "course-wrap::course-wrap", wrap.Key)
	assert.Equal(t, "Course wrap-up", wrap.Title)
}

func TestNormalize_Idempotent(t *testing.T) {
	a := keys(Normalize(sampleCourse()))
	b := keys(Normalize(sampleCourse()))
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}

func TestNormalize_UniqueKeys(t *testing.T) {
	raw := map[string]any{
		"units": []any{
			map[string]any{"id": "u", "lessons": []any{
				map[string]any{"id": "dup"},
				map[string]any{"id": "dup"},
				map[string]any{"id": "intro"},
			}, "description": "overview"},
			map[string]any{"id": "u"},
		},
	}
	units := Normalize(raw)
	require.Len(t, units, 2)
	seen := map[string]bool{}
	for _, k := range keys(units) {
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
	assert.Equal(t, "u::lesson-0-1", units[0].Lessons[2].Key)
	assert.Equal(t, "unit-1", units[1].ID)
}

func TestNormalize_Malformed(t *testing.T) {
	for _, raw := range []any{nil, "course", 42, []any{1, 2}, map[string]any{"units": 7}} {
		assert.Empty(t, Normalize(raw))
	}
	c := Decode(nil)
	assert.Empty(t, c.Units)
}

func TestNormalize_ClosingFromExercisesOnly(t *testing.T) {
	raw := map[string]any{"units": []any{map[string]any{
		"id":               "u",
		"closingExercises": []any{map[string]any{"type": "text", "prompt": "Reflect"}},
	}}}
	units := Normalize(raw)
	require.Len(t, units, 1)
	require.Len(t, units[0].Lessons, 1)
	closing := units[0].Lessons[0]
	assert.Equal(t, "u::closing", closing.Key)
	require.Len(t, closing.Exercises, 1)
	assert.Equal(t, TextKind, closing.Exercises[0].Kind())
}

func TestParseExercise_Defaults(t *testing.T) {
	ex := parseExercises([]any{
		map[string]any{"id": "r", "type": "reorder", "items": []any{"a", "b", "c"}},
		map[string]any{"id": "m", "type": "matching", "pairs": []any{
			map[string]any{"left": "A", "right": "1"},
			map[string]any{"left": "B", "right": "2"},
		}},
		map[string]any{"id": "r", "type": "fill_blank", "sentence": "___ is in [blank]", "answers": []any{"Paris", 1889.0}},
	})
	require.Len(t, ex, 3)
	assert.Equal(t, []int{0, 1, 2}, ex[0].(Reorder).CorrectOrder)
	assert.Equal(t, []string{"1", "2"}, ex[1].(Matching).RightOptions)
	fb := ex[2].(FillBlank)
	assert.Equal(t, "ex-2", fb.ID)
	assert.Equal(t, 2, fb.Blanks())
	assert.Equal(t, []string{"Paris", "1889"}, fb.Expected)
}

func TestParseExercises_FallbackIDsStayUnique(t *testing.T) {
	ex := parseExercises([]any{
		map[string]any{"id": "ex-1", "type": "true_false"},
		map[string]any{"type": "true_false"},
		map[string]any{"id": "ex-0", "type": "true_false"},
		map[string]any{"id": "ex-1", "type": "true_false"},
	})
	require.Len(t, ex, 4)
	ids := make([]string, len(ex))
	for i, e := range ex {
		ids[i] = e.ExerciseID()
	}
	assert.Equal(t, []string{"ex-1", "_ex-1", "ex-0", "ex-3"}, ids)
}
