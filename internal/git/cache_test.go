package git

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingService struct {
	Service
	statusCalls int
	stageErr    error
}

func (s *countingService) Status() (*Snapshot, error) {
	s.statusCalls++
	return &Snapshot{Unstaged: []Record{{Path: "a.go", Kind: KindModified}}}, nil
}

func (s *countingService) Stage(paths ...string) error { return s.stageErr }

func TestCachedService_StatusIsCachedWithinTTL(t *testing.T) {
	inner := &countingService{}
	c := NewCachedService(inner, time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	_, err := c.Status()
	require.NoError(t, err)
	_, err = c.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, inner.statusCalls)

	now = now.Add(2 * time.Second)
	_, err = c.Status()
	require.NoError(t, err)
	assert.Equal(t, 2, inner.statusCalls)
}

func TestCachedService_WriteInvalidates(t *testing.T) {
	inner := &countingService{}
	c := NewCachedService(inner, time.Minute)

	_, _ = c.Status()
	require.NoError(t, c.Stage("a.go"))
	_, _ = c.Status()
	assert.Equal(t, 2, inner.statusCalls)

	inner.stageErr = errors.New("boom")
	err := c.Stage("a.go")
	require.Error(t, err)
	_, _ = c.Status()
	assert.Equal(t, 3, inner.statusCalls, "failed writes still invalidate")
}
