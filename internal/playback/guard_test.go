package playback

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_SeekClamp(t *testing.T) {
	g := NewGuard()
	g.SetLesson("u::l1")

	assert.Equal(t, 10.0, g.Advance(10))
	assert.Equal(t, 10.0, g.Advance(4), "watermark never goes back")

	res := g.Seek(10.5)
	assert.False(t, res.Clamped)
	assert.Equal(t, 10.5, res.Position)

	res = g.Seek(30)
	assert.True(t, res.Clamped)
	assert.Equal(t, 10.0, res.Position)
	assert.Equal(t, 10.0, g.Position())

	res = g.Seek(-5)
	assert.False(t, res.Clamped)
	assert.Equal(t, 0.0, res.Position)

	res = g.Seek(math.NaN())
	assert.Equal(t, 0.0, res.Position)
}

func TestGuard_ResetOnLessonChange(t *testing.T) {
	g := NewGuard(WithTolerance(2))
	g.SetLesson("a")
	g.Advance(50)
	g.SetLesson("b")
	assert.Zero(t, g.MaxReached())
	assert.True(t, g.Seek(3).Clamped)
	assert.False(t, g.Seek(2).Clamped)
}

func TestGuard_End(t *testing.T) {
	var ended []string
	g := NewGuard(OnEnded(func(key string) { ended = append(ended, key) }))

	_, first := g.End()
	assert.False(t, first, "no active lesson")

	g.SetLesson("u::l1")
	key, first := g.End()
	assert.Equal(t, "u::l1", key)
	assert.True(t, first)
	_, first = g.End()
	assert.False(t, first)

	g.SetLesson("u::l1")
	_, first = g.End()
	assert.True(t, first, "reopening rearms the end signal")
	require.Equal(t, []string{"u::l1", "u::l1"}, ended)
}

func TestGuard_WatermarkMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := NewGuard()
	g.SetLesson("x")
	prev := 0.0
	for i := 0; i < 1000; i++ {
		v := rng.Float64() * 600
		var pos float64
		if rng.Intn(2) == 0 {
			g.Advance(v)
			pos = g.Position()
		} else {
			pos = g.Seek(v).Position
		}
		assert.GreaterOrEqual(t, g.MaxReached(), prev)
		assert.LessOrEqual(t, pos, g.MaxReached()+g.Tolerance())
		prev = g.MaxReached()
	}
}
