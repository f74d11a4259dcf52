package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/courseplayer/internal/content"
	"github.com/mind-engage/courseplayer/internal/logger"
	"github.com/mind-engage/courseplayer/internal/sequence"
)

// Store is the keyed document store progress is persisted to.
type Store interface {
	LoadProgress(ctx context.Context, learner, courseID string) (Document, error)
	// UpsertProgress merge-writes top-level fields; sibling courses and
	// fields not present are left alone.
	UpsertProgress(ctx context.Context, learner, courseID string, fields map[string]any) error
}

// Outcome is one applied lesson event.
type Outcome struct {
	ID        string         `json:"id"`
	Learner   string         `json:"learner"`
	CourseID  string         `json:"courseId"`
	LessonKey string         `json:"lessonKey"`
	Patch     Patch          `json:"patch"`
	Answers   map[string]any `json:"answers,omitempty"`
	At        time.Time      `json:"at"`
}

// Recorder keeps an audit trail of applied outcomes.
type Recorder interface {
	Record(ctx context.Context, o Outcome) error
}

// Notifier is told about every successful save.
type Notifier interface {
	ProgressSaved(ctx context.Context, learner, courseID string, stats Stats) error
}

// SaveError reports a failed persistence attempt. It is not fatal: the
// in-memory state returned alongside it is already updated.
type SaveError struct {
	Learner  string
	CourseID string
	Err      error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save progress %s/%s: %v", e.Learner, e.CourseID, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// IsSaveError reports whether err carries a *SaveError.
func IsSaveError(err error) bool {
	var se *SaveError
	return errors.As(err, &se)
}

type Option func(*Reconciler)

func WithRecorder(r Recorder) Option { return func(rc *Reconciler) { rc.recorder = r } }
func WithNotifier(n Notifier) Option {
	return func(rc *Reconciler) { rc.notifiers = append(rc.notifiers, n) }
}
func WithLogger(l *logger.Logger) Option    { return func(rc *Reconciler) { rc.log = l } }
func WithClock(now func() time.Time) Option { return func(rc *Reconciler) { rc.now = now } }

// Reconciler merges outcomes into one learner's progress in one course.
type Reconciler struct {
	learner   string
	course    CourseMeta
	seq       *sequence.Sequence
	structure StructureSnapshot
	store     Store

	recorder  Recorder
	notifiers []Notifier
	log       *logger.Logger
	now       func() time.Time
}

func NewReconciler(learner string, course content.Course, seq *sequence.Sequence, store Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		learner:   learner,
		course:    CourseMeta{ID: course.ID, Title: course.Title},
		seq:       seq,
		structure: Structure(seq),
		store:     store,
		now:       time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	r.log = logger.OrNop(r.log)
	return r
}

// Apply merges patch into the lesson's record, replaces its answer snapshot
// when answers is non-nil, moves lastActive and persists the result.
//
// The returned state is always the merged one. A persistence failure comes
// back as *SaveError next to it and must not be rolled back by the caller:
// the next successful save carries the full snapshot.
func (r *Reconciler) Apply(ctx context.Context, s State, key string, patch Patch, answers map[string]any) (State, Stats, error) {
	next := s.clone()
	now := r.now().UTC()

	lp := patch.apply(next.ByLesson[key])
	if answers != nil {
		lp.AnswerSnapshot = answers
	}
	lp.UpdatedAt = now
	next.ByLesson[key] = lp

	if l, ok := r.seq.Lesson(key); ok {
		next.LastActive = &Position{UnitID: l.UnitID, LessonID: l.ID}
	}

	stats := ComputeStats(r.seq, next)

	if r.recorder != nil {
		o := Outcome{
			ID:        uuid.NewString(),
			Learner:   r.learner,
			CourseID:  r.course.ID,
			LessonKey: key,
			Patch:     patch,
			Answers:   answers,
			At:        now,
		}
		if err := r.recorder.Record(ctx, o); err != nil {
			r.log.Warn("record outcome failed", "learner", r.learner, "course", r.course.ID, "lesson", key, "err", err)
		}
	}

	if err := r.Save(ctx, next, stats); err != nil {
		return next, stats, err
	}
	return next, stats, nil
}

// Save writes the full snapshot. Errors are *SaveError.
func (r *Reconciler) Save(ctx context.Context, s State, stats Stats) error {
	if r.store == nil {
		return nil
	}
	fields, err := Fields(Document{
		CourseMeta:      r.course,
		CourseStructure: r.structure,
		Progress:        s,
		Stats:           stats,
		UpdatedAt:       r.now().UTC(),
	})
	if err == nil {
		err = r.store.UpsertProgress(ctx, r.learner, r.course.ID, fields)
	}
	if err != nil {
		r.log.Warn("progress save failed", "learner", r.learner, "course", r.course.ID, "err", err)
		return &SaveError{Learner: r.learner, CourseID: r.course.ID, Err: err}
	}
	for _, n := range r.notifiers {
		if err := n.ProgressSaved(ctx, r.learner, r.course.ID, stats); err != nil {
			r.log.Warn("progress notification failed", "learner", r.learner, "course", r.course.ID, "err", err)
		}
	}
	return nil
}
