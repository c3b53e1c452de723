package review

import (
	"time"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
)

// DefaultTTL is how long fetched review files are considered fresh.
const DefaultTTL = 120 * time.Second

// State describes what a Lookup found.
type State int

const (
	// StateEmpty means nothing has been fetched for the scope and no fetch
	// is running.
	StateEmpty State = iota
	// StateLoading means a fetch is in flight. Records holds the previous
	// data, if any.
	StateLoading
	// StateStale means data is present but older than the TTL.
	StateStale
	// StateFresh means data is present and within the TTL.
	StateFresh
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateStale:
		return "stale"
	case StateFresh:
		return "fresh"
	default:
		return "empty"
	}
}

// Entry is a read-only view of the cache for one scope.
type Entry struct {
	Records   []git.Record
	State     State
	Populated bool  // a fetch for this scope has completed at least once
	Err       error // error of the last completed fetch, nil on success
}

// NeedsFetch reports whether the caller should start a fetch.
func (e Entry) NeedsFetch() bool {
	return e.State == StateEmpty || e.State == StateStale
}

// Cache holds the review files of one pull request. Records live in
// index-addressed cells that SetReviewed mutates in place; Lookup always
// hands out copies so rendered rows never alias a cell.
//
// Cache is not safe for concurrent use. It is owned by the update loop.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	scope     int
	cells     []git.Record
	populated bool
	fetchedAt time.Time
	lastErr   error

	loading      bool
	loadingScope int

	// pending holds viewed flags set locally whose remote update has not
	// answered yet. Complete re-applies them over fetched records.
	pending map[string]pendingFlag
}

type pendingFlag struct {
	reviewed bool
	inFlight int
}

// NewCache returns an empty cache. A non-positive ttl selects DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl, now: time.Now}
}

// Lookup returns the cached records for scope and their state.
func (c *Cache) Lookup(scope int) Entry {
	loading := c.loading && c.loadingScope == scope
	if !c.populated || c.scope != scope {
		if loading {
			return Entry{State: StateLoading}
		}
		return Entry{State: StateEmpty}
	}

	e := Entry{
		Records:   make([]git.Record, len(c.cells)),
		Populated: true,
		Err:       c.lastErr,
	}
	copy(e.Records, c.cells)
	switch {
	case loading:
		e.State = StateLoading
	case c.now().Sub(c.fetchedAt) < c.ttl:
		e.State = StateFresh
	default:
		e.State = StateStale
	}
	return e
}

// BeginFetch marks a fetch for scope as in flight. It returns false when a
// fetch is already running, in which case the caller must not start another.
func (c *Cache) BeginFetch(scope int) bool {
	if c.loading {
		return false
	}
	c.loading = true
	c.loadingScope = scope
	return true
}

// Complete records the outcome of the fetch started by BeginFetch. A
// completion for a scope other than the one in flight is dropped.
//
// A failed fetch keeps whatever data the scope already had and still stamps
// fetchedAt, so the failure is not retried until the TTL runs out.
func (c *Cache) Complete(scope int, records []git.Record, err error) {
	if !c.loading || c.loadingScope != scope {
		return
	}
	c.loading = false

	if c.scope != scope {
		c.scope = scope
		c.cells = nil
		c.pending = nil
	}
	c.populated = true
	c.fetchedAt = c.now()
	c.lastErr = err
	if err == nil {
		c.cells = make([]git.Record, len(records))
		copy(c.cells, records)
		for i := range c.cells {
			if p, ok := c.pending[c.cells[i].Path]; ok {
				c.cells[i].Reviewed = p.reviewed
			}
		}
	}
}

// Toggle sets the reviewed flag of path like SetReviewed and holds it
// against fetches that complete before Settle is called for path.
func (c *Cache) Toggle(scope int, path string, reviewed bool) (prev, ok bool) {
	prev, ok = c.SetReviewed(scope, path, reviewed)
	if !ok {
		return prev, false
	}
	if c.pending == nil {
		c.pending = make(map[string]pendingFlag)
	}
	p := c.pending[path]
	p.reviewed = reviewed
	p.inFlight++
	c.pending[path] = p
	return prev, true
}

// Settle releases one Toggle of path once its remote update has answered.
func (c *Cache) Settle(scope int, path string) {
	if c.scope != scope {
		return
	}
	p, ok := c.pending[path]
	if !ok {
		return
	}
	p.inFlight--
	if p.inFlight <= 0 {
		delete(c.pending, path)
		return
	}
	c.pending[path] = p
}

// SetReviewed flips the reviewed flag of path in place and returns the
// previous value. ok is false when path is not cached for scope.
func (c *Cache) SetReviewed(scope int, path string, reviewed bool) (prev, ok bool) {
	if c.scope != scope {
		return false, false
	}
	for i := range c.cells {
		if c.cells[i].Path == path {
			prev = c.cells[i].Reviewed
			c.cells[i].Reviewed = reviewed
			return prev, true
		}
	}
	return false, false
}

// Expire marks the cached data stale without dropping it, so the next
// Lookup triggers a refetch while the old rows keep rendering.
func (c *Cache) Expire() {
	c.fetchedAt = time.Time{}
}
