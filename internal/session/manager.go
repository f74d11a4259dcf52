package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mind-engage/courseplayer/internal/content"
	"github.com/mind-engage/courseplayer/internal/docstore"
	"github.com/mind-engage/courseplayer/internal/grading"
	"github.com/mind-engage/courseplayer/internal/logger"
	"github.com/mind-engage/courseplayer/internal/metrics"
	"github.com/mind-engage/courseplayer/internal/playback"
	"github.com/mind-engage/courseplayer/internal/progress"
)

// Manager owns one Player per (learner, course). Players are created on
// first access and load course and progress exactly once.
type Manager struct {
	mu      sync.Mutex
	players map[string]*Player
	store   docstore.Store
	deps    playerDeps
	log     *logger.Logger
}

type Option func(*Manager)

func WithResolver(r Resolver) Option { return func(m *Manager) { m.deps.resolver = r } }
func WithEvaluator(e *grading.Evaluator) Option {
	return func(m *Manager) { m.deps.evaluator = e }
}
func WithRecorder(r progress.Recorder) Option { return func(m *Manager) { m.deps.recorder = r } }
func WithNotifier(n progress.Notifier) Option {
	return func(m *Manager) { m.deps.notifiers = append(m.deps.notifiers, n) }
}
func WithSeekTolerance(sec float64) Option   { return func(m *Manager) { m.deps.tolerance = sec } }
func WithMetrics(mt *metrics.Metrics) Option { return func(m *Manager) { m.deps.metrics = mt } }
func WithLogger(l *logger.Logger) Option     { return func(m *Manager) { m.log = l } }

func NewManager(store docstore.Store, opts ...Option) *Manager {
	m := &Manager{
		players: map[string]*Player{},
		store:   store,
		deps:    playerDeps{store: store, tolerance: playback.DefaultTolerance},
	}
	for _, o := range opts {
		o(m)
	}
	m.log = logger.OrNop(m.log)
	m.deps.log = m.log
	return m
}

func playerKey(learner, courseID string) string { return learner + "/" + courseID }

// LoadCourse reads and normalizes a stored course.
func (m *Manager) LoadCourse(ctx context.Context, courseID string) (content.Course, error) {
	rec, err := m.store.GetCourse(ctx, courseID)
	if err != nil {
		return content.Course{}, err
	}
	raw, err := content.Parse(rec.Raw)
	if err != nil {
		return content.Course{}, fmt.Errorf("course %s: %w", courseID, err)
	}
	c := content.Decode(raw)
	c.ID = courseID
	if c.Title == "" {
		c.Title = rec.Title
	}
	return c, nil
}

// Player returns the learner's session for a course, creating it on first
// use.
func (m *Manager) Player(ctx context.Context, learner, courseID string) (*Player, error) {
	key := playerKey(learner, courseID)
	m.mu.Lock()
	if p, ok := m.players[key]; ok {
		m.mu.Unlock()
		return p, nil
	}
	m.mu.Unlock()

	course, err := m.LoadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	state := progress.NewState()
	doc, err := m.store.LoadProgress(ctx, learner, courseID)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load progress: %w", err)
	default:
		state = doc.Progress
	}
	p := newPlayer(learner, course, state, m.deps)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.players[key]; ok {
		return existing, nil
	}
	m.players[key] = p
	m.updateGauge()
	m.log.Info("player session opened", "learner", learner, "course", courseID, "session", p.ID())
	return p, nil
}

// Close drops a learner's session after flushing its snapshot.
func (m *Manager) Close(ctx context.Context, learner, courseID string) error {
	key := playerKey(learner, courseID)
	m.mu.Lock()
	p, ok := m.players[key]
	delete(m.players, key)
	m.updateGauge()
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return p.Flush(ctx)
}

// Invalidate drops every session of a course so the next access sees a
// freshly uploaded snapshot.
func (m *Manager) Invalidate(courseID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, p := range m.players {
		if p.course.ID == courseID {
			delete(m.players, k)
		}
	}
	m.updateGauge()
}

// updateGauge runs with mu held.
func (m *Manager) updateGauge() {
	if m.deps.metrics != nil {
		m.deps.metrics.Sessions.Set(float64(len(m.players)))
	}
}
