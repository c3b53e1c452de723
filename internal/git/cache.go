package git

import (
	"sync"
	"time"
)

// CachedService wraps a Service implementation with a TTL-based cache for
// the read operations the menu repeats on every rebuild. Write operations
// automatically invalidate the cache so the next read is fresh.
//
// A single keypress can trigger a rebuild, a title update and a status bar
// refresh, all of which ask for Status and Head. The short TTL collapses
// those into one git process each.
type CachedService struct {
	inner Service
	ttl   time.Duration
	now   func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	val    any
	err    error
	expiry time.Time
}

// Compile-time check.
var _ Service = (*CachedService)(nil)

// NewCachedService wraps an existing Service with a TTL cache.
// Recommended TTL: 1-2 seconds.
func NewCachedService(inner Service, ttl time.Duration) *CachedService {
	return &CachedService{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string]cacheEntry, 4),
	}
}

// Invalidate clears all cached entries. Called after any write operation
// and when the watcher reports a change under .git.
func (c *CachedService) Invalidate() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry, 4)
	c.mu.Unlock()
}

func (c *CachedService) get(key string) (val any, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.cache[key]
	if !found || c.now().After(e.expiry) {
		return nil, false, nil
	}
	return e.val, true, e.err
}

func (c *CachedService) set(key string, val any, err error) {
	c.mu.Lock()
	c.cache[key] = cacheEntry{val: val, err: err, expiry: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// invalidateAndReturn is a helper for write methods. Failed writes still
// invalidate: a partially applied batch leaves the index in an unknown state.
func (c *CachedService) invalidateAndReturn(err error) error {
	c.Invalidate()
	return err
}

// ── Repository info ─────────────────────────────────────────────────────────

// RepoRoot delegates to the inner service.
func (c *CachedService) RepoRoot() string { return c.inner.RepoRoot() }

// GitDir delegates to the inner service.
func (c *CachedService) GitDir() string { return c.inner.GitDir() }

// DefaultBaseRef returns the inner service's base ref (cached).
func (c *CachedService) DefaultBaseRef() string {
	if v, ok, _ := c.get("baseref"); ok {
		return v.(string)
	}
	v := c.inner.DefaultBaseRef()
	c.set("baseref", v, nil)
	return v
}

// Head returns the current HEAD ref (cached).
func (c *CachedService) Head() (string, error) {
	if v, ok, err := c.get("head"); ok {
		return v.(string), err
	}
	v, err := c.inner.Head()
	c.set("head", v, err)
	return v, err
}

// ── Status (cached) ─────────────────────────────────────────────────────────

// Status delegates to the inner service (cached).
func (c *CachedService) Status() (*Snapshot, error) {
	if v, ok, err := c.get("status"); ok {
		return v.(*Snapshot), err
	}
	v, err := c.inner.Status()
	c.set("status", v, err)
	return v, err
}

// ── Write operations (invalidate cache) ─────────────────────────────────────

// Stage stages paths and invalidates the cache.
func (c *CachedService) Stage(paths ...string) error {
	return c.invalidateAndReturn(c.inner.Stage(paths...))
}

// Unstage unstages paths and invalidates the cache.
func (c *CachedService) Unstage(paths ...string) error {
	return c.invalidateAndReturn(c.inner.Unstage(paths...))
}

// Discard discards worktree changes and invalidates the cache.
func (c *CachedService) Discard(path string, untracked bool) error {
	return c.invalidateAndReturn(c.inner.Discard(path, untracked))
}

// Restore resets a file to HEAD and invalidates the cache.
func (c *CachedService) Restore(path string) error {
	return c.invalidateAndReturn(c.inner.Restore(path))
}

// RevertToBase reverts a file to its base version and invalidates the cache.
func (c *CachedService) RevertToBase(path, baseRef string) error {
	return c.invalidateAndReturn(c.inner.RevertToBase(path, baseRef))
}

// Resolve resolves a conflict and invalidates the cache.
func (c *CachedService) Resolve(path string, side ConflictSide) error {
	return c.invalidateAndReturn(c.inner.Resolve(path, side))
}
