package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSigner struct {
	calls int
	err   error
}

func (s *countingSigner) SignedURL(_ context.Context, key string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "https://cdn.example.com/" + key + "?sig=1", nil
}

func TestNeedsResolution(t *testing.T) {
	for ref, want := range map[string]bool{
		"https://youtu.be/x":     false,
		"HTTP://example.com/v":   false,
		"data:video/mp4;base64,": false,
		"blob:abc":               false,
		"videos/intro.mp4":       true,
		"gs://bucket/videos/a":   true,
		"":                       false,
	} {
		assert.Equal(t, want, NeedsResolution(ref), ref)
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "videos/a.mp4", ObjectKey("gs://bucket/videos/a.mp4"))
	assert.Equal(t, "videos/a.mp4", ObjectKey("/videos/a.mp4"))
	assert.Equal(t, "", ObjectKey("gs://bucket"))
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	signer := &countingSigner{}
	r := NewResolver(signer, WithCache(NewMemoryCache(), time.Minute))

	u, err := r.Resolve(ctx, "https://example.com/v.mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v.mp4", u)
	assert.Zero(t, signer.calls)

	u, err = r.Resolve(ctx, "gs://b/videos/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/videos/a.mp4?sig=1", u)
	_, err = r.Resolve(ctx, "gs://b/videos/a.mp4")
	require.NoError(t, err)
	assert.Equal(t, 1, signer.calls, "second resolve hits the cache")

	_, err = r.Resolve(ctx, " ")
	assert.ErrorIs(t, err, ErrEmptyRef)

	signer.err = errors.New("denied")
	_, err = r.Resolve(ctx, "videos/other.mp4")
	assert.ErrorContains(t, err, "denied")
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", "u", time.Second))
	_, ok, _ := c.Get(ctx, "a")
	assert.True(t, ok)
	now = now.Add(2 * time.Second)
	_, ok, _ = c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestEmbedURL(t *testing.T) {
	cases := map[string]string{
		"https://drive.google.com/file/d/abc123/view?usp=sharing": "https://drive.google.com/file/d/abc123/preview",
		"https://drive.google.com/file/d/abc123/preview":          "https://drive.google.com/file/d/abc123/preview",
		"https://drive.google.com/open?id=xyz":                    "https://drive.google.com/file/d/xyz/preview",
		"https://example.com/a.pdf":                               "https://docs.google.com/viewer?url=https%3A%2F%2Fexample.com%2Fa.pdf&embedded=true",
		"not a url":                                               "not a url",
		"ftp://example.com/x.pdf":                                 "ftp://example.com/x.pdf",
		"":                                                        "",
		"%zz":                                                     "%zz",
	}
	for in, want := range cases {
		assert.Equal(t, want, EmbedURL(in), in)
	}
}
