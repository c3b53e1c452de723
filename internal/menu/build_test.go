package menu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
	"github.com/Akashdeep-Patra/zed-git-review/internal/review"
)

// checkInvariants asserts the properties every line model must hold.
func checkInvariants(t *testing.T, lm *LineModel) {
	t.Helper()
	for line := range lm.Selectable {
		row, ok := lm.Entries[line]
		require.True(t, ok, "selectable line %d has no entry", line)
		assert.True(t, row.Kind == RowCategory || row.Kind == RowFile, "line %d", line)
	}
	for _, keys := range []map[string]int{lm.DiffKeys, lm.DirectKeys} {
		assert.LessOrEqual(t, len(keys), MaxCodes)
		lines := map[int]bool{}
		for code, line := range keys {
			assert.False(t, lines[line], "line %d has two codes (%s)", line, code)
			lines[line] = true
			assert.Equal(t, RowFile, lm.Rows[line-1].Kind)
		}
	}
}

func kinds(lm *LineModel) []RowKind {
	out := make([]RowKind, len(lm.Rows))
	for i, r := range lm.Rows {
		out[i] = r.Kind
	}
	return out
}

func TestBuildStatus_Empty(t *testing.T) {
	lm := BuildStatus(git.Snapshot{})

	require.Len(t, lm.Rows, 1)
	assert.Equal(t, RowInfo, lm.Rows[0].Kind)
	assert.Equal(t, TextNoChanges, lm.Rows[0].Text)
	assert.Empty(t, lm.Selectable)
	assert.Equal(t, 0, lm.FirstSelectable())
}

func TestBuildStatus_Layout(t *testing.T) {
	lm := BuildStatus(git.Snapshot{
		Conflicts: recs(git.KindConflict, "c.go"),
		Staged:    recs(git.KindAdded, "s1.go", "s2.go"),
		Unstaged:  recs(git.KindModified, "u.go"),
	})
	checkInvariants(t, lm)

	assert.Equal(t, []RowKind{
		RowCategory, RowFile, RowSeparator,
		RowCategory, RowFile, RowFile, RowSeparator,
		RowCategory, RowFile,
	}, kinds(lm))
	assert.Len(t, lm.Selectable, 7)
	assert.Equal(t, SectionConflicts, lm.Rows[0].Section)
	assert.Equal(t, 2, lm.Rows[3].Count)
	assert.Equal(t, 1, lm.Rows[5].Index)

	// Codes run across sections in emission order.
	assert.Equal(t, 2, lm.DiffKeys["hh"])
	assert.Equal(t, 5, lm.DiffKeys["jj"])
	assert.Equal(t, 6, lm.DiffKeys["kk"])
	assert.Equal(t, 9, lm.DiffKeys["ll"])
	assert.Equal(t, 9, lm.DirectKeys["LL"])
}

func TestBuildStatus_WithoutConflictsStartsWithStaged(t *testing.T) {
	lm := BuildStatus(git.Snapshot{Unstaged: recs(git.KindModified, "a.go")})
	checkInvariants(t, lm)

	assert.Equal(t, []RowKind{RowCategory, RowSeparator, RowCategory, RowFile}, kinds(lm))
	assert.Equal(t, SectionStaged, lm.Rows[0].Section)
	assert.Equal(t, 0, lm.Rows[0].Count)
}

func TestBuildStatus_ThirtyFilesGetTwentyFiveCodes(t *testing.T) {
	var paths []string
	for i := range 30 {
		paths = append(paths, fmt.Sprintf("f%02d.go", i))
	}
	lm := BuildStatus(git.Snapshot{Unstaged: recs(git.KindModified, paths...)})
	checkInvariants(t, lm)

	assert.Len(t, lm.DiffKeys, 25)
	assert.Len(t, lm.DirectKeys, 25)

	n := 0
	for line, r := range lm.Rows {
		if r.Kind != RowFile {
			continue
		}
		n++
		assert.True(t, lm.Selectable[line+1], "file %d selectable", n)
		if n <= 25 {
			assert.Equal(t, DiffCodes[n-1], r.DiffCode)
			assert.Equal(t, DirectCodes[n-1], r.DirectCode)
			assert.Equal(t, line+1, lm.DiffKeys[r.DiffCode])
		} else {
			assert.Empty(t, r.DiffCode, "file %d", n)
			assert.Empty(t, r.DirectCode, "file %d", n)
		}
	}
	assert.Equal(t, 30, n)

	rendered := lm.Render(DefaultRenderOptions)
	assert.Equal(t, "  ", rendered[len(rendered)-1].Text[:2], "uncoded rows keep the gutter")
}

func testInfo() *review.Info {
	return &review.Info{Number: 12, ID: "PR_12", Title: "Menu", BaseBranch: "main"}
}

func TestBuildReview_States(t *testing.T) {
	lm := BuildReview(nil, review.Entry{})
	require.Len(t, lm.Rows, 1)
	assert.Equal(t, TextNoReview, lm.Rows[0].Text)

	lm = BuildReview(testInfo(), review.Entry{State: review.StateLoading})
	require.Len(t, lm.Rows, 1)
	assert.Equal(t, TextLoading, lm.Rows[0].Text)
	assert.Empty(t, lm.Selectable)

	lm = BuildReview(testInfo(), review.Entry{State: review.StateFresh, Populated: true, Err: errors.New("x")})
	assert.Equal(t, []RowKind{RowHeader, RowInfo}, kinds(lm))
	assert.Equal(t, TextReviewFailed, lm.Rows[1].Text)
}

func TestBuildReview_PartitionsByViewedState(t *testing.T) {
	entry := review.Entry{
		State:     review.StateFresh,
		Populated: true,
		Records: []git.Record{
			{Path: "a.go", Additions: 5},
			{Path: "b.go", Additions: 1, Deletions: 1, Reviewed: true},
			{Path: "c.go", Deletions: 3},
		},
	}
	lm := BuildReview(testInfo(), entry)
	checkInvariants(t, lm)

	assert.Equal(t, []RowKind{
		RowHeader,
		RowCategory, RowFile, RowFile, RowSeparator,
		RowCategory, RowFile,
	}, kinds(lm))
	assert.Equal(t, "#12 Menu → main", lm.Rows[0].Text)

	assert.Equal(t, "a.go", lm.Rows[2].Record.Path)
	assert.Equal(t, git.KindAdded, lm.Rows[2].Record.Kind)
	assert.Equal(t, "c.go", lm.Rows[3].Record.Path)
	assert.Equal(t, git.KindDeleted, lm.Rows[3].Record.Kind)
	assert.Equal(t, 1, lm.Rows[3].Index)
	assert.Equal(t, SectionReviewed, lm.Rows[6].Section)
	assert.Equal(t, git.KindModified, lm.Rows[6].Record.Kind)

	assert.Equal(t, 7, lm.DiffKeys["kk"])
}
