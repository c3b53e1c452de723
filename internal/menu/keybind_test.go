package menu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes_CoverEveryPairOnce(t *testing.T) {
	for name, codes := range map[string][25]string{"diff": DiffCodes, "direct": DirectCodes} {
		alphabet := "hjkl;"
		if name == "direct" {
			alphabet = "HJKL:"
		}
		seen := map[string]bool{}
		for _, c := range codes {
			require.Len(t, c, 2, name)
			assert.True(t, strings.ContainsRune(alphabet, rune(c[0])), "%s: %q", name, c)
			assert.True(t, strings.ContainsRune(alphabet, rune(c[1])), "%s: %q", name, c)
			assert.False(t, seen[c], "%s: duplicate %q", name, c)
			seen[c] = true
		}
		assert.Len(t, seen, 25, name)
	}
}

func TestCodes_SameKeyPairsComeFirst(t *testing.T) {
	assert.Equal(t, []string{"hh", "jj", "kk", "ll", ";;"}, DiffCodes[:5])
	assert.Equal(t, []string{"HH", "JJ", "KK", "LL", "::"}, DirectCodes[:5])
	assert.Equal(t, "hj", DiffCodes[5], "outward rolls follow")
}

func TestCodes_DirectIsShiftedDiff(t *testing.T) {
	for i := range DiffCodes {
		assert.Equal(t, shift.Replace(DiffCodes[i]), DirectCodes[i])
	}
}

func TestAssignCodes(t *testing.T) {
	diff, direct, ok := AssignCodes(1)
	require.True(t, ok)
	assert.Equal(t, "hh", diff)
	assert.Equal(t, "HH", direct)

	diff, direct, ok = AssignCodes(25)
	require.True(t, ok)
	assert.Equal(t, ";h", diff)
	assert.Equal(t, ":H", direct)

	for _, ord := range []int{-1, 0, 26, 100} {
		_, _, ok := AssignCodes(ord)
		assert.False(t, ok, "ordinal %d", ord)
	}
}

func TestIsCodePrefix(t *testing.T) {
	for _, k := range []string{"h", "j", "k", "l", ";", "H", "J", "K", "L", ":"} {
		assert.True(t, IsCodePrefix(k), k)
	}
	for _, k := range []string{"g", "q", "enter", " "} {
		assert.False(t, IsCodePrefix(k), k)
	}
}
