package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/courseplayer/internal/content"
	"github.com/mind-engage/courseplayer/internal/sequence"
)

type memStore struct {
	mu     sync.Mutex
	fields map[string]map[string]any
	fail   error
	writes int
}

func newMemStore() *memStore { return &memStore{fields: map[string]map[string]any{}} }

func (m *memStore) LoadProgress(_ context.Context, learner, courseID string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.fields[learner+"/"+courseID]
	if !ok {
		return Document{}, errors.New("not found")
	}
	return FromFields(f)
}

func (m *memStore) UpsertProgress(_ context.Context, learner, courseID string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.writes++
	cur := m.fields[learner+"/"+courseID]
	if cur == nil {
		cur = map[string]any{}
	}
	for k, v := range fields {
		cur[k] = v
	}
	m.fields[learner+"/"+courseID] = cur
	return nil
}

type recorder struct{ got []Outcome }

func (r *recorder) Record(_ context.Context, o Outcome) error {
	r.got = append(r.got, o)
	return nil
}

func videoUnit(id string, n int) content.Unit {
	u := content.Unit{ID: id}
	for i := 0; i < n; i++ {
		lid := fmt.Sprintf("l%d", i)
		u.Lessons = append(u.Lessons, content.Lesson{
			Key: content.LessonKey(id, lid), UnitID: id, ID: lid,
			Kind: content.KindVideo, VideoRef: lid + ".mp4",
		})
	}
	return u
}

func TestIsCompleted(t *testing.T) {
	video := content.Lesson{Kind: content.KindVideo, VideoRef: "v.mp4"}
	doc := content.Lesson{Kind: content.KindVideo, DocumentRef: "d.pdf"}
	forced := content.Lesson{Kind: content.KindText, ForceExercises: true}
	bare := content.Lesson{Kind: content.KindVideo}

	cases := []struct {
		name string
		l    content.Lesson
		lp   LessonProgress
		want bool
	}{
		{"video not submitted", video, LessonProgress{VideoEnded: true}, false},
		{"video submitted not ended", video, LessonProgress{ExSubmitted: true}, false},
		{"video ended and submitted", video, LessonProgress{VideoEnded: true, ExSubmitted: true}, true},
		{"document submitted", doc, LessonProgress{ExSubmitted: true}, true},
		{"forced submitted", forced, LessonProgress{ExSubmitted: true}, true},
		{"bare never completes", bare, LessonProgress{ExSubmitted: true}, false},
		{"bare ignores stray videoEnded", bare, LessonProgress{ExSubmitted: true, VideoEnded: true}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsCompleted(tc.l, tc.lp))
		})
	}
}

func TestComputeStats(t *testing.T) {
	seq := sequence.Build([]content.Unit{videoUnit("u", 10)})
	s := NewState()
	for i := 0; i < 3; i++ {
		s.ByLesson[fmt.Sprintf("u::l%d", i)] = LessonProgress{VideoEnded: true, ExSubmitted: true, ExPassed: i == 0}
	}
	s.ByLesson["u::l5"] = LessonProgress{ExSubmitted: true}

	st := ComputeStats(seq, s)
	assert.Equal(t, Stats{CompletedLessons: 3, PassedLessons: 1, TotalLessons: 10, Percentage: 30}, st)
}

func TestComputeStats_NoCountable(t *testing.T) {
	seq := sequence.Build([]content.Unit{{ID: "u", Lessons: []content.Lesson{
		{Key: "u::a", Kind: content.KindText, ForceExercises: true},
		{Key: "u::b", Kind: content.KindText, ForceExercises: true},
		{Key: "u::c", Kind: content.KindText, ForceExercises: true},
	}}})
	s := NewState()
	s.ByLesson["u::a"] = LessonProgress{ExSubmitted: true}
	st := ComputeStats(seq, s)
	assert.Equal(t, 3, st.TotalLessons)
	assert.Equal(t, 33, st.Percentage)

	assert.Zero(t, ComputeStats(sequence.Build(nil), NewState()).Percentage)
}

func TestSanitize(t *testing.T) {
	in := map[string]any{
		"a": nil,
		"b": map[string]any{"c": nil, "d": 1.0},
		"e": []any{nil, map[string]any{"f": nil, "g": "x"}},
	}
	out := Sanitize(in)
	assert.Equal(t, map[string]any{
		"b": map[string]any{"d": 1.0},
		"e": []any{nil, map[string]any{"g": "x"}},
	}, out)
	assert.Contains(t, in, "a", "input is not mutated")
}

func newReconciler(t *testing.T, store Store, opts ...Option) (*Reconciler, *sequence.Sequence) {
	t.Helper()
	course := content.Course{ID: "c1", Title: "Course", Units: []content.Unit{videoUnit("u", 2)}}
	seq := sequence.Build(course.Units)
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	opts = append(opts, WithClock(func() time.Time { return clock }))
	return NewReconciler("alice", course, seq, store, opts...), seq
}

func TestApply_MergesAndPersists(t *testing.T) {
	store := newMemStore()
	rec := &recorder{}
	r, _ := newReconciler(t, store, WithRecorder(rec))
	ctx := context.Background()

	s0 := NewState()
	s1, st, err := r.Apply(ctx, s0, "u::l0", Patch{VideoEnded: Bool(true)}, nil)
	require.NoError(t, err)
	assert.Empty(t, s0.ByLesson, "input state is not mutated")
	assert.Equal(t, 0, st.CompletedLessons)
	require.NotNil(t, s1.LastActive)
	assert.Equal(t, Position{UnitID: "u", LessonID: "l0"}, *s1.LastActive)

	s2, st, err := r.Apply(ctx, s1, "u::l0",
		Patch{ExSubmitted: Bool(true), ExPassed: Bool(true), Score: &Score{Correct: 1, Total: 1}},
		map[string]any{"q1": 1.0})
	require.NoError(t, err)
	lp := s2.Lesson("u::l0")
	assert.True(t, lp.VideoEnded, "unspecified fields are kept")
	assert.True(t, lp.ExSubmitted)
	assert.Equal(t, &Score{Correct: 1, Total: 1}, lp.Score)
	assert.Equal(t, 50, st.Percentage)

	s3, _, err := r.Apply(ctx, s2, "u::l0", Patch{}, map[string]any{"q2": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"q2": true}, s3.Lesson("u::l0").AnswerSnapshot, "snapshots are replaced whole")

	doc, err := store.LoadProgress(ctx, "alice", "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", doc.CourseMeta.ID)
	assert.Equal(t, 50, doc.Stats.Percentage)
	assert.True(t, doc.Progress.ByLesson["u::l0"].ExPassed)
	require.Len(t, doc.CourseStructure.Units, 1)
	assert.Equal(t, "1.2", doc.CourseStructure.Units[0].Lessons[1].Number)
	assert.Equal(t, 3, store.writes)
	assert.Len(t, rec.got, 3)
}

func TestApply_SaveFailureKeepsState(t *testing.T) {
	store := newMemStore()
	store.fail = errors.New("unreachable")
	r, _ := newReconciler(t, store)

	s, _, err := r.Apply(context.Background(), NewState(), "u::l1", Patch{VideoEnded: Bool(true)}, nil)
	require.Error(t, err)
	assert.True(t, IsSaveError(err))
	assert.ErrorContains(t, err, "unreachable")
	assert.True(t, s.Lesson("u::l1").VideoEnded)

	store.fail = nil
	s, _, err = r.Apply(context.Background(), s, "u::l0", Patch{VideoEnded: Bool(true)}, nil)
	require.NoError(t, err)
	doc, err := store.LoadProgress(context.Background(), "alice", "c1")
	require.NoError(t, err)
	assert.True(t, doc.Progress.ByLesson["u::l1"].VideoEnded, "next save heals the failed one")
}
