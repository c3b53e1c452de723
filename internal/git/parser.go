package git

import "strings"

// porcelain status letters as printed by `git status --porcelain=v1`.
const (
	codeUnmodified = ' '
	codeAdded      = 'A'
	codeDeleted    = 'D'
	codeRenamed    = 'R'
	codeCopied     = 'C'
	codeUnmerged   = 'U'
	codeUntracked  = '?'
	codeIgnored    = '!'
)

// kindFromCode maps a porcelain letter onto a ChangeKind. 'M' and 'T'
// (type change) both read as modified.
func kindFromCode(c byte) ChangeKind {
	switch c {
	case codeAdded:
		return KindAdded
	case codeDeleted:
		return KindDeleted
	case codeRenamed:
		return KindRenamed
	case codeCopied:
		return KindCopied
	case codeUntracked:
		return KindUntracked
	case codeUnmerged:
		return KindConflict
	default:
		return KindModified
	}
}

// ParseStatusOutput parses `git status --porcelain=v1 -z`.
// NUL-delimited scanning avoids allocating a massive []string for repos
// with thousands of changed files.
//
// Untracked files are reported in Unstaged with KindUntracked. Ignored
// entries are dropped.
func ParseStatusOutput(out string) *Snapshot {
	result := &Snapshot{}
	if len(out) == 0 {
		return result
	}

	for len(out) > 0 {
		nul := strings.IndexByte(out, '\x00')
		var entry string
		if nul < 0 {
			entry = out
			out = ""
		} else {
			entry = out[:nul]
			out = out[nul+1:]
		}
		if len(entry) < 4 {
			continue
		}

		staging := entry[0]
		worktree := entry[1]
		path := entry[3:]

		var origPath string
		// Renames/copies have an extra NUL-separated entry for the original path.
		if staging == codeRenamed || staging == codeCopied ||
			worktree == codeRenamed || worktree == codeCopied {
			nul2 := strings.IndexByte(out, '\x00')
			if nul2 < 0 {
				origPath = out
				out = ""
			} else {
				origPath = out[:nul2]
				out = out[nul2+1:]
			}
		}

		switch {
		case staging == codeIgnored:
			continue
		case staging == codeUntracked && worktree == codeUntracked:
			result.Unstaged = append(result.Unstaged, Record{Path: path, Kind: KindUntracked})
			continue
		case staging == codeUnmerged || worktree == codeUnmerged ||
			(staging == codeAdded && worktree == codeAdded) ||
			(staging == codeDeleted && worktree == codeDeleted):
			result.Conflicts = append(result.Conflicts, Record{Path: path, Kind: KindConflict})
			continue
		}

		if staging != codeUnmodified && staging != codeUntracked {
			result.Staged = append(result.Staged, Record{
				Path:     path,
				OrigPath: origPath,
				Kind:     kindFromCode(staging),
			})
		}
		if worktree != codeUnmodified && worktree != codeUntracked {
			rec := Record{Path: path, Kind: kindFromCode(worktree)}
			if worktree == codeRenamed || worktree == codeCopied {
				rec.OrigPath = origPath
			}
			result.Unstaged = append(result.Unstaged, rec)
		}
	}
	return result
}
