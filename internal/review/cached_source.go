package review

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
)

// CachedSource wraps a Source and caches CurrentReview for a short TTL.
// The menu asks for the current review on every review-mode rebuild and the
// status bar asks from a background command, so concurrent lookups are
// collapsed into one gh process.
type CachedSource struct {
	inner Source
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.Mutex
	info    *Info
	err     error
	expires time.Time
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource wraps inner with a CurrentReview cache.
func NewCachedSource(inner Source, ttl time.Duration) *CachedSource {
	return &CachedSource{inner: inner, ttl: ttl, now: time.Now}
}

type lookupResult struct {
	info *Info
	err  error
}

// CurrentReview returns the cached pull request, refreshing it when expired.
// ErrNoReview is cached like a result.
func (s *CachedSource) CurrentReview() (*Info, error) {
	s.mu.Lock()
	if s.now().Before(s.expires) {
		info, err := s.info, s.err
		s.mu.Unlock()
		return info, err
	}
	s.mu.Unlock()

	v, _, _ := s.group.Do("current", func() (any, error) {
		info, err := s.inner.CurrentReview()
		s.mu.Lock()
		s.info, s.err = info, err
		s.expires = s.now().Add(s.ttl)
		s.mu.Unlock()
		return lookupResult{info: info, err: err}, nil
	})
	r := v.(lookupResult)
	return r.info, r.err
}

// Invalidate forgets the cached pull request.
func (s *CachedSource) Invalidate() {
	s.mu.Lock()
	s.expires = time.Time{}
	s.mu.Unlock()
}

// FetchFiles delegates to the inner source.
func (s *CachedSource) FetchFiles(ctx context.Context, scope int) ([]git.Record, error) {
	return s.inner.FetchFiles(ctx, scope)
}

// SetReviewed delegates to the inner source.
func (s *CachedSource) SetReviewed(ctx context.Context, reviewID, path string, viewed bool) error {
	return s.inner.SetReviewed(ctx, reviewID, path, viewed)
}
