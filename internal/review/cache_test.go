package review

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
)

func newTestCache(t *testing.T) (*Cache, *time.Time) {
	t.Helper()
	now := time.Unix(1_700_000_000, 0)
	c := NewCache(0)
	c.now = func() time.Time { return now }
	return c, &now
}

func files() []git.Record {
	return []git.Record{
		{Path: "a.go", Kind: git.KindModified},
		{Path: "b.go", Kind: git.KindAdded, Reviewed: true},
	}
}

func TestCache_Lifecycle(t *testing.T) {
	c, now := newTestCache(t)

	e := c.Lookup(7)
	assert.Equal(t, StateEmpty, e.State)
	assert.True(t, e.NeedsFetch())

	require.True(t, c.BeginFetch(7))
	assert.False(t, c.BeginFetch(7), "second fetch while loading")
	assert.Equal(t, StateLoading, c.Lookup(7).State)
	assert.False(t, c.Lookup(7).Populated)

	c.Complete(7, files(), nil)
	e = c.Lookup(7)
	assert.Equal(t, StateFresh, e.State)
	assert.Len(t, e.Records, 2)
	assert.False(t, e.NeedsFetch())

	*now = now.Add(DefaultTTL)
	e = c.Lookup(7)
	assert.Equal(t, StateStale, e.State)
	assert.Len(t, e.Records, 2, "stale data keeps rendering")

	require.True(t, c.BeginFetch(7))
	e = c.Lookup(7)
	assert.Equal(t, StateLoading, e.State)
	assert.Len(t, e.Records, 2)
}

func TestCache_FailedFetchIsNotRetriedUntilTTL(t *testing.T) {
	c, now := newTestCache(t)

	require.True(t, c.BeginFetch(1))
	c.Complete(1, nil, errors.New("offline"))

	e := c.Lookup(1)
	assert.Equal(t, StateFresh, e.State)
	assert.True(t, e.Populated)
	assert.Empty(t, e.Records)
	assert.EqualError(t, e.Err, "offline")

	*now = now.Add(DefaultTTL + time.Second)
	assert.True(t, c.Lookup(1).NeedsFetch())
}

func TestCache_FailedRefreshKeepsData(t *testing.T) {
	c, _ := newTestCache(t)
	require.True(t, c.BeginFetch(1))
	c.Complete(1, files(), nil)

	c.Expire()
	require.True(t, c.BeginFetch(1))
	c.Complete(1, nil, errors.New("502"))

	e := c.Lookup(1)
	assert.Len(t, e.Records, 2)
	assert.Error(t, e.Err)
}

func TestCache_CompleteForOtherScopeIsDropped(t *testing.T) {
	c, _ := newTestCache(t)
	require.True(t, c.BeginFetch(1))
	c.Complete(2, files(), nil)

	assert.Equal(t, StateLoading, c.Lookup(1).State)
	assert.Equal(t, StateEmpty, c.Lookup(2).State)
}

func TestCache_SetReviewedMutatesCellNotCopies(t *testing.T) {
	c, _ := newTestCache(t)
	require.True(t, c.BeginFetch(3))
	c.Complete(3, files(), nil)

	before := c.Lookup(3).Records

	prev, ok := c.SetReviewed(3, "a.go", true)
	require.True(t, ok)
	assert.False(t, prev)

	assert.False(t, before[0].Reviewed, "earlier lookup is a copy")
	assert.True(t, c.Lookup(3).Records[0].Reviewed)

	_, ok = c.SetReviewed(3, "missing.go", true)
	assert.False(t, ok)
	_, ok = c.SetReviewed(4, "a.go", true)
	assert.False(t, ok)
}

func TestCache_ToggleSurvivesRefetchUntilSettled(t *testing.T) {
	c, _ := newTestCache(t)
	require.True(t, c.BeginFetch(3))
	c.Complete(3, files(), nil)

	prev, ok := c.Toggle(3, "a.go", true)
	require.True(t, ok)
	assert.False(t, prev)

	// A fetch answering with the old server state keeps the local flag.
	require.True(t, c.BeginFetch(3))
	c.Complete(3, files(), nil)
	assert.True(t, c.Lookup(3).Records[0].Reviewed)

	c.Settle(3, "a.go")
	require.True(t, c.BeginFetch(3))
	c.Complete(3, files(), nil)
	assert.False(t, c.Lookup(3).Records[0].Reviewed, "settled flag no longer overrides")
}

func TestCache_ToggleHeldUntilLastSettle(t *testing.T) {
	c, _ := newTestCache(t)
	require.True(t, c.BeginFetch(3))
	c.Complete(3, files(), nil)

	c.Toggle(3, "a.go", true)
	c.Toggle(3, "a.go", false)
	c.Toggle(3, "a.go", true)
	c.Settle(3, "a.go")
	c.Settle(3, "a.go")

	require.True(t, c.BeginFetch(3))
	c.Complete(3, files(), nil)
	assert.True(t, c.Lookup(3).Records[0].Reviewed)

	_, ok := c.Toggle(3, "missing.go", true)
	assert.False(t, ok)
}
