package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/courseplayer/internal/progress"
)

func TestAMQPPublisher_DisabledWithoutURI(t *testing.T) {
	p, err := NewAMQPPublisher("", nil)
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.ProgressSaved(context.Background(), "alice", "c1", progress.Stats{Percentage: 10}))
	assert.NoError(t, p.Close())
}

var _ progress.Notifier = (*AMQPPublisher)(nil)
