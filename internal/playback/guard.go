// Package playback tracks how far a learner got in the active video and
// refuses seeks past that point.
package playback

import "math"

const DefaultTolerance = 1.0 // seconds

// SeekResult is where the play head ends up after a seek.
type SeekResult struct {
	Position   float64 `json:"position"`
	MaxReached float64 `json:"maxReached"`
	Clamped    bool    `json:"clamped"`
}

type Option func(*Guard)

// WithTolerance sets how far past the watermark a seek may land.
func WithTolerance(sec float64) Option {
	return func(g *Guard) {
		if sec >= 0 {
			g.tolerance = sec
		}
	}
}

// OnEnded registers the handler called once when the active video ends.
func OnEnded(fn func(key string)) Option { return func(g *Guard) { g.onEnded = fn } }

// Guard is the watermark of one active lesson. It is not safe for
// concurrent use; the owning session serializes calls.
type Guard struct {
	tolerance  float64
	key        string
	maxReached float64
	position   float64
	ended      bool
	onEnded    func(key string)
}

func NewGuard(opts ...Option) *Guard {
	g := &Guard{tolerance: DefaultTolerance}
	for _, o := range opts {
		o(g)
	}
	return g
}

// SetLesson switches the active lesson and resets the watermark, even when
// the key is the same one.
func (g *Guard) SetLesson(key string) {
	g.key = key
	g.maxReached = 0
	g.position = 0
	g.ended = false
}

func (g *Guard) Lesson() string      { return g.key }
func (g *Guard) MaxReached() float64 { return g.maxReached }
func (g *Guard) Position() float64   { return g.position }
func (g *Guard) Tolerance() float64  { return g.tolerance }

// Advance records normal playback progress.
func (g *Guard) Advance(t float64) float64 {
	if !valid(t) {
		return g.maxReached
	}
	g.position = t
	if t > g.maxReached {
		g.maxReached = t
	}
	return g.maxReached
}

// Seek moves the play head. Targets beyond the watermark plus tolerance snap
// back to the watermark.
func (g *Guard) Seek(target float64) SeekResult {
	if !valid(target) || target < 0 {
		target = 0
	}
	res := SeekResult{Position: target, MaxReached: g.maxReached}
	if target > g.maxReached+g.tolerance {
		res.Position = g.maxReached
		res.Clamped = true
	}
	g.position = res.Position
	return res
}

// End marks the active video finished. It reports the lesson key and
// whether this call was the first end for it.
func (g *Guard) End() (string, bool) {
	if g.key == "" || g.ended {
		return g.key, false
	}
	g.ended = true
	if g.position > g.maxReached {
		g.maxReached = g.position
	}
	if g.onEnded != nil {
		g.onEnded(g.key)
	}
	return g.key, true
}

func valid(t float64) bool { return !math.IsNaN(t) && !math.IsInf(t, 0) }
