package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusOutput_Empty(t *testing.T) {
	s := ParseStatusOutput("")
	require.NotNil(t, s)
	assert.Equal(t, 0, s.TotalCount())
}

func TestParseStatusOutput_Sections(t *testing.T) {
	out := "M  staged.go\x00" +
		" M unstaged.go\x00" +
		"?? new.txt\x00" +
		"UU conflict.go\x00" +
		"AA both_added.go\x00" +
		"!! ignored.log\x00"

	s := ParseStatusOutput(out)

	require.Len(t, s.Staged, 1)
	assert.Equal(t, Record{Path: "staged.go", Kind: KindModified}, s.Staged[0])

	require.Len(t, s.Unstaged, 2)
	assert.Equal(t, "unstaged.go", s.Unstaged[0].Path)
	assert.Equal(t, KindModified, s.Unstaged[0].Kind)
	assert.Equal(t, "new.txt", s.Unstaged[1].Path)
	assert.Equal(t, KindUntracked, s.Unstaged[1].Kind)

	require.Len(t, s.Conflicts, 2)
	assert.Equal(t, "conflict.go", s.Conflicts[0].Path)
	assert.Equal(t, "both_added.go", s.Conflicts[1].Path)
	assert.Equal(t, KindConflict, s.Conflicts[1].Kind)
}

func TestParseStatusOutput_PartialStagingProducesTwoRecords(t *testing.T) {
	s := ParseStatusOutput("MM both.go\x00")

	require.Len(t, s.Staged, 1)
	require.Len(t, s.Unstaged, 1)
	assert.Equal(t, "both.go", s.Staged[0].Path)
	assert.Equal(t, "both.go", s.Unstaged[0].Path)
}

func TestParseStatusOutput_Rename(t *testing.T) {
	s := ParseStatusOutput("R  new/name.go\x00old/name.go\x00 D gone.go\x00")

	require.Len(t, s.Staged, 1)
	assert.Equal(t, KindRenamed, s.Staged[0].Kind)
	assert.Equal(t, "new/name.go", s.Staged[0].Path)
	assert.Equal(t, "old/name.go", s.Staged[0].OrigPath)

	require.Len(t, s.Unstaged, 1)
	assert.Equal(t, KindDeleted, s.Unstaged[0].Kind)
	assert.Empty(t, s.Unstaged[0].OrigPath)
}

func TestParseStatusOutput_TrailingEntryWithoutNUL(t *testing.T) {
	s := ParseStatusOutput("A  added.go")
	require.Len(t, s.Staged, 1)
	assert.Equal(t, KindAdded, s.Staged[0].Kind)
}

func TestKindFromCounts(t *testing.T) {
	tests := []struct {
		name      string
		add, del  int
		wantKind  ChangeKind
		wantGlyph string
	}{
		{"only additions", 10, 0, KindAdded, "A"},
		{"only deletions", 0, 4, KindDeleted, "D"},
		{"both", 3, 2, KindModified, "M"},
		{"neither", 0, 0, KindModified, "M"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := KindFromCounts(tt.add, tt.del)
			assert.Equal(t, tt.wantKind, k)
			assert.Equal(t, tt.wantGlyph, k.Glyph())
		})
	}
}
