// Package session is the single state holder for one learner in one course.
// Every event goes through a Player, which merges progress and recomputes
// gates before the next event is handled.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mind-engage/courseplayer/internal/content"
	"github.com/mind-engage/courseplayer/internal/gating"
	"github.com/mind-engage/courseplayer/internal/grading"
	"github.com/mind-engage/courseplayer/internal/logger"
	"github.com/mind-engage/courseplayer/internal/media"
	"github.com/mind-engage/courseplayer/internal/metrics"
	"github.com/mind-engage/courseplayer/internal/playback"
	"github.com/mind-engage/courseplayer/internal/progress"
	"github.com/mind-engage/courseplayer/internal/sequence"
)

var (
	ErrUnknownLesson    = errors.New("unknown lesson")
	ErrLessonLocked     = errors.New("lesson is locked")
	ErrMediaNotFinished = errors.New("video not finished")
	ErrNotActive        = errors.New("lesson is not the active lesson")
	ErrNoVideo          = errors.New("lesson has no video")
	ErrUseCapstone      = errors.New("capstone lessons take a capstone submission")
)

// Resolver turns a media reference into a fetchable URL.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

type Player struct {
	mu sync.Mutex

	id      string
	learner string
	course  content.Course
	seq     *sequence.Sequence

	state progress.State
	gates gating.Gates
	stats progress.Stats

	guard      *playback.Guard
	evaluator  *grading.Evaluator
	reconciler *progress.Reconciler
	resolver   Resolver
	metrics    *metrics.Metrics
	log        *logger.Logger

	active     string
	generation uint64
	videoURL   string
	docURL     string
}

type playerDeps struct {
	store     progress.Store
	resolver  Resolver
	evaluator *grading.Evaluator
	recorder  progress.Recorder
	notifiers []progress.Notifier
	tolerance float64
	metrics   *metrics.Metrics
	log       *logger.Logger
}

func newPlayer(learner string, course content.Course, state progress.State, d playerDeps) *Player {
	seq := sequence.Build(course.Units)
	log := logger.OrNop(d.log).With("learner", learner, "course", course.ID)

	ropts := []progress.Option{progress.WithLogger(log)}
	if d.recorder != nil {
		ropts = append(ropts, progress.WithRecorder(d.recorder))
	}
	for _, n := range d.notifiers {
		ropts = append(ropts, progress.WithNotifier(n))
	}
	if d.metrics != nil {
		ropts = append(ropts, progress.WithNotifier(d.metrics))
	}
	if state.ByLesson == nil {
		state.ByLesson = map[string]progress.LessonProgress{}
	}
	evaluator := d.evaluator
	if evaluator == nil {
		evaluator = grading.NewEvaluator()
	}

	p := &Player{
		id:         uuid.NewString(),
		learner:    learner,
		course:     course,
		seq:        seq,
		state:      state,
		evaluator:  evaluator,
		reconciler: progress.NewReconciler(learner, course, seq, d.store, ropts...),
		resolver:   d.resolver,
		metrics:    d.metrics,
		log:        log,
	}
	p.guard = playback.NewGuard(playback.WithTolerance(d.tolerance), playback.OnEnded(p.videoEnded))
	p.recompute()
	return p
}

func (p *Player) ID() string                   { return p.id }
func (p *Player) Learner() string              { return p.learner }
func (p *Player) Course() content.Course       { return p.course }
func (p *Player) Sequence() *sequence.Sequence { return p.seq }

// ResolvedMedia returns the URLs resolved for the active lesson.
func (p *Player) ResolvedMedia() (video, document string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.videoURL, p.docURL
}

// recompute must run after every state change. Caller holds mu.
func (p *Player) recompute() {
	p.gates = gating.Compute(p.seq, p.state)
	p.stats = progress.ComputeStats(p.seq, p.state)
}

func (p *Player) videoEnded(key string) {
	if p.metrics != nil {
		p.metrics.VideosEnded.Inc()
	}
	p.log.Debug("video ended", "lesson", key)
}

// View reports gates, stats and the resume position.
func (p *Player) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewLocked()
}

func (p *Player) viewLocked() View {
	v := View{
		SessionID:     p.id,
		Learner:       p.learner,
		CourseID:      p.course.ID,
		Lessons:       append([]gating.LessonState(nil), p.gates.States...),
		Stats:         p.stats,
		FirstPlayable: p.gates.FirstPlayable,
		Active:        p.active,
	}
	if next, ok := p.gates.Next(); ok {
		v.Resume = &next
	}
	if p.state.LastActive != nil {
		la := *p.state.LastActive
		v.LastActive = &la
	}
	return v
}

// State returns a copy of the lesson's progress record.
func (p *Player) State(key string) progress.LessonProgress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Lesson(key)
}

func (p *Player) lessonLocked(key string) (content.Lesson, error) {
	l, ok := p.seq.Lesson(key)
	if !ok {
		return content.Lesson{}, fmt.Errorf("%w: %s", ErrUnknownLesson, key)
	}
	if p.gates.IsLocked(key) {
		return content.Lesson{}, fmt.Errorf("%w: %s", ErrLessonLocked, key)
	}
	return l, nil
}

type OpenResult struct {
	Lesson      LessonView              `json:"lesson"`
	Progress    progress.LessonProgress `json:"progress"`
	VideoURL    string                  `json:"videoUrl,omitempty"`
	DocumentURL string                  `json:"documentUrl,omitempty"`
	EmbedURL    string                  `json:"embedUrl,omitempty"`
	Warnings    []string                `json:"warnings,omitempty"`
	// Superseded is set when another lesson was opened while this one's
	// media was resolving; the URLs are then dropped.
	Superseded bool `json:"superseded,omitempty"`
}

// Open makes key the active lesson, resets the playback watermark and
// resolves its media. Media resolution runs without holding the player.
func (p *Player) Open(ctx context.Context, key string) (OpenResult, error) {
	p.mu.Lock()
	l, err := p.lessonLocked(key)
	if err != nil {
		p.mu.Unlock()
		return OpenResult{}, err
	}
	p.active = key
	p.generation++
	gen := p.generation
	p.videoURL, p.docURL = "", ""
	p.guard.SetLesson(key)
	res := OpenResult{Lesson: lessonView(l, p.seq), Progress: p.state.Lesson(key)}
	if st, ok := p.gates.State(key); ok {
		res.Lesson.Status = st.Status
	}
	p.mu.Unlock()

	if l.HasVideo() {
		u, err := p.resolve(ctx, l.VideoRef)
		if err != nil {
			p.log.Warn("video resolution failed", "lesson", key, "err", err)
			res.Warnings = append(res.Warnings, "video unavailable: "+err.Error())
		}
		res.VideoURL = u
	}
	if l.HasDocument() {
		u, err := p.resolve(ctx, l.DocumentRef)
		if err != nil {
			p.log.Warn("document resolution failed", "lesson", key, "err", err)
			res.Warnings = append(res.Warnings, "document unavailable: "+err.Error())
		}
		if u != "" {
			res.DocumentURL = u
			res.EmbedURL = media.EmbedURL(u)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		res.Superseded = true
		res.VideoURL, res.DocumentURL, res.EmbedURL = "", "", ""
		return res, nil
	}
	p.videoURL, p.docURL = res.VideoURL, res.DocumentURL
	return res, nil
}

func (p *Player) resolve(ctx context.Context, ref string) (string, error) {
	if !media.NeedsResolution(ref) {
		return ref, nil
	}
	if p.resolver == nil {
		return "", errors.New("no media resolver configured")
	}
	u, err := p.resolver.Resolve(ctx, ref)
	if p.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		p.metrics.MediaResolve.WithLabelValues(outcome).Inc()
	}
	return u, err
}

type PlaybackEvent string

const (
	EventAdvance PlaybackEvent = "advance"
	EventSeek    PlaybackEvent = "seek"
	EventEnded   PlaybackEvent = "ended"
)

type PlaybackResult struct {
	Position   float64  `json:"position"`
	MaxReached float64  `json:"maxReached"`
	Clamped    bool     `json:"clamped,omitempty"`
	Ended      bool     `json:"ended,omitempty"`
	Completed  bool     `json:"completed"`
	Warnings   []string `json:"warnings,omitempty"`
	View       *View    `json:"view,omitempty"`
}

// Playback feeds a play-head event for the active lesson into the guard.
// The first end of a video is merged into progress.
func (p *Player) Playback(ctx context.Context, key string, ev PlaybackEvent, t float64) (PlaybackResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if key != p.active || p.guard.Lesson() != key {
		return PlaybackResult{}, fmt.Errorf("%w: %s", ErrNotActive, key)
	}
	l, err := p.lessonLocked(key)
	if err != nil {
		return PlaybackResult{}, err
	}
	if !l.HasVideo() {
		return PlaybackResult{}, fmt.Errorf("%w: %s", ErrNoVideo, key)
	}

	var res PlaybackResult
	switch ev {
	case EventAdvance:
		p.guard.Advance(t)
	case EventSeek:
		sr := p.guard.Seek(t)
		if sr.Clamped {
			res.Clamped = true
			res.Warnings = append(res.Warnings, "seeking ahead is disabled until you have watched this part")
			p.log.Warn("seek clamped", "lesson", key, "target", t, "maxReached", sr.MaxReached)
			if p.metrics != nil {
				p.metrics.SeekClamps.Inc()
			}
		}
	case EventEnded:
		if _, first := p.guard.End(); first {
			res.Ended = true
			if w := p.applyLocked(ctx, key, progress.Patch{VideoEnded: progress.Bool(true)}, nil); w != "" {
				res.Warnings = append(res.Warnings, w)
			}
			v := p.viewLocked()
			res.View = &v
		}
	default:
		return PlaybackResult{}, fmt.Errorf("unknown playback event %q", ev)
	}
	res.Position = p.guard.Position()
	res.MaxReached = p.guard.MaxReached()
	res.Completed = progress.IsCompleted(l, p.state.Lesson(key))
	return res, nil
}

// applyLocked merges one outcome and recomputes. A failed save is reported
// as a warning; the merged state is kept either way.
func (p *Player) applyLocked(ctx context.Context, key string, patch progress.Patch, answers map[string]any) string {
	next, _, err := p.reconciler.Apply(ctx, p.state, key, patch, answers)
	p.state = next
	p.recompute()
	if err == nil {
		return ""
	}
	if p.metrics != nil {
		p.metrics.SaveFailures.Inc()
	}
	if progress.IsSaveError(err) {
		return "progress could not be saved; it will be retried with your next action"
	}
	p.log.Error("apply outcome", "lesson", key, "err", err)
	return err.Error()
}

type SubmitResult struct {
	Result    grading.Result `json:"result"`
	Completed bool           `json:"completed"`
	Warnings  []string       `json:"warnings,omitempty"`
	View      View           `json:"view"`
}

// Submit grades answers for the lesson's exercises and records the
// submission. Plain video lessons need their video watched first.
func (p *Player) Submit(ctx context.Context, key string, answers map[string]any) (SubmitResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, err := p.lessonLocked(key)
	if err != nil {
		return SubmitResult{}, err
	}
	if l.Kind == content.KindCapstone {
		return SubmitResult{}, fmt.Errorf("%w: %s", ErrUseCapstone, key)
	}
	lp := p.state.Lesson(key)
	if l.HasVideo() && !l.HasDocument() && !l.ForceExercises && !lp.VideoEnded {
		return SubmitResult{}, fmt.Errorf("%w: %s", ErrMediaNotFinished, key)
	}
	if answers == nil {
		answers = map[string]any{}
	}

	r := p.evaluator.Evaluate(l.Exercises, answers)
	if p.metrics != nil {
		label := "failed"
		if r.AllGood {
			label = "passed"
		}
		p.metrics.Submissions.WithLabelValues(label).Inc()
	}
	patch := progress.Patch{
		ExSubmitted: progress.Bool(true),
		ExPassed:    progress.Bool(r.AllGood),
		Score:       &progress.Score{Correct: r.Correct, Total: r.Total},
	}
	res := SubmitResult{Result: r}
	if w := p.applyLocked(ctx, key, patch, answers); w != "" {
		res.Warnings = append(res.Warnings, w)
	}
	res.Completed = progress.IsCompleted(l, p.state.Lesson(key))
	res.View = p.viewLocked()
	return res, nil
}

type CapstoneSubmitResult struct {
	Result   grading.CapstoneResult `json:"result"`
	Warnings []string               `json:"warnings,omitempty"`
	View     View                   `json:"view"`
}

// SubmitCapstone records a capstone submission. The lesson counts as
// submitted once the whole contract is met, and stays submitted.
func (p *Player) SubmitCapstone(ctx context.Context, key string, sub grading.CapstoneSubmission) (CapstoneSubmitResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, err := p.lessonLocked(key)
	if err != nil {
		return CapstoneSubmitResult{}, err
	}
	r, err := p.evaluator.Capstone(l, sub)
	if err != nil {
		return CapstoneSubmitResult{}, fmt.Errorf("%w: %s", err, key)
	}
	checked := make([]any, len(sub.Checked))
	for i, c := range sub.Checked {
		checked[i] = c
	}
	// An incomplete resubmission never takes back an earlier completion.
	patch := progress.Patch{Score: &progress.Score{Correct: r.Checked, Total: r.Total}}
	if r.Complete {
		patch.ExSubmitted = progress.Bool(true)
		patch.ExPassed = progress.Bool(true)
	}
	res := CapstoneSubmitResult{Result: r}
	if w := p.applyLocked(ctx, key, patch, map[string]any{"checked": checked, "link": sub.Link}); w != "" {
		res.Warnings = append(res.Warnings, w)
	}
	res.View = p.viewLocked()
	return res, nil
}

// Flush re-sends the full snapshot, healing earlier failed saves.
func (p *Player) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reconciler.Save(ctx, p.state, p.stats)
}
