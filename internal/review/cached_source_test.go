package review

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
)

type slowSource struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *slowSource) CurrentReview() (*Info, error) {
	s.calls.Add(1)
	<-s.release
	return &Info{Number: 9}, nil
}

func (s *slowSource) FetchFiles(context.Context, int) ([]git.Record, error) { return nil, nil }

func (s *slowSource) SetReviewed(context.Context, string, string, bool) error { return nil }

func TestCachedSource_ConcurrentLookupsShareOneCall(t *testing.T) {
	inner := &slowSource{release: make(chan struct{})}
	src := NewCachedSource(inner, time.Minute)

	var wg sync.WaitGroup
	results := make([]*Info, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			info, err := src.CurrentReview()
			assert.NoError(t, err)
			results[i] = info
		}(i)
	}

	// Let every goroutine reach the singleflight group before releasing.
	time.Sleep(50 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	assert.Equal(t, int32(1), inner.calls.Load())
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, 9, r.Number)
	}

	_, _ = src.CurrentReview()
	assert.Equal(t, int32(1), inner.calls.Load(), "served from cache")

	src.Invalidate()
	_, _ = src.CurrentReview()
	assert.Equal(t, int32(2), inner.calls.Load())
}
