// Package media resolves opaque media references to fetchable URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mind-engage/courseplayer/internal/logger"
)

// Signer issues a directly fetchable URL for a blob key.
type Signer interface {
	SignedURL(ctx context.Context, key string) (string, error)
}

// Cache remembers resolved URLs for a while.
type Cache interface {
	Get(ctx context.Context, ref string) (string, bool, error)
	Set(ctx context.Context, ref, url string, ttl time.Duration) error
}

var ErrEmptyRef = errors.New("empty media reference")

var directPrefixes = []string{"http://", "https://", "data:", "blob:"}

// NeedsResolution reports whether ref must go through the blob store.
func NeedsResolution(ref string) bool {
	r := strings.ToLower(strings.TrimSpace(ref))
	if r == "" {
		return false
	}
	for _, p := range directPrefixes {
		if strings.HasPrefix(r, p) {
			return false
		}
	}
	return true
}

// ObjectKey strips a gs://bucket/ or leading slash from a storage ref.
func ObjectKey(ref string) string {
	r := strings.TrimSpace(ref)
	if strings.HasPrefix(r, "gs://") {
		r = strings.TrimPrefix(r, "gs://")
		if i := strings.Index(r, "/"); i >= 0 {
			r = r[i+1:]
		} else {
			r = ""
		}
	}
	return strings.TrimPrefix(r, "/")
}

type Resolver struct {
	signer Signer
	cache  Cache
	ttl    time.Duration
	log    *logger.Logger
}

type ResolverOption func(*Resolver)

func WithCache(c Cache, ttl time.Duration) ResolverOption {
	return func(r *Resolver) { r.cache, r.ttl = c, ttl }
}

func WithResolverLogger(l *logger.Logger) ResolverOption {
	return func(r *Resolver) { r.log = l }
}

func NewResolver(signer Signer, opts ...ResolverOption) *Resolver {
	r := &Resolver{signer: signer, ttl: 10 * time.Minute}
	for _, o := range opts {
		o(r)
	}
	r.log = logger.OrNop(r.log)
	return r
}

// Resolve returns a fetchable URL for ref. Direct URLs pass through. Cache
// failures are logged and otherwise ignored.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmptyRef
	}
	if !NeedsResolution(ref) {
		return ref, nil
	}
	if r.cache != nil {
		if u, ok, err := r.cache.Get(ctx, ref); err != nil {
			r.log.Warn("media cache read failed", "ref", ref, "err", err)
		} else if ok {
			return u, nil
		}
	}
	if r.signer == nil {
		return "", fmt.Errorf("resolve %q: no blob store configured", ref)
	}
	key := ObjectKey(ref)
	if key == "" {
		return "", fmt.Errorf("resolve %q: %w", ref, ErrEmptyRef)
	}
	u, err := r.signer.SignedURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", ref, err)
	}
	if r.cache != nil {
		// Cached entries expire before the signature does.
		if err := r.cache.Set(ctx, ref, u, r.ttl*9/10); err != nil {
			r.log.Warn("media cache write failed", "ref", ref, "err", err)
		}
	}
	return u, nil
}
