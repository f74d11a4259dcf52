package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFSStore(t.TempDir(), "")
	require.NoError(t, err)

	key, err := s.Put(ctx, "/videos/intro.mp4", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.Equal(t, "videos/intro.mp4", key)

	rc, err := s.Get(ctx, key)
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "bytes", string(b))

	u, err := s.SignedURL(ctx, key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file://"))
	assert.True(t, strings.HasSuffix(u, "/videos/intro.mp4"))

	_, err = s.Get(ctx, "missing.mp4")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.SignedURL(ctx, "missing.mp4")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStore_PublicURLAndTraversal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFSStore(dir, "http://localhost:8080/")
	require.NoError(t, err)

	_, err = s.Put(ctx, "../../escape.pdf", strings.NewReader("x"))
	require.NoError(t, err)
	u, err := s.SignedURL(ctx, "escape.pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/assets/escape.pdf", u)

	_, err = s.Put(ctx, "  ", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "video/mp4", ContentType("a/b.MP4"))
	assert.Equal(t, "application/pdf", ContentType("doc.pdf?x=1"))
	assert.Equal(t, "", ContentType("noext"))
}
