package menu

import (
	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
	"github.com/Akashdeep-Patra/zed-git-review/internal/review"
)

// Text shown when a build has nothing selectable.
const (
	TextNoChanges    = "No changes to display"
	TextNoReview     = "No open review for this branch"
	TextLoading      = "Loading…"
	TextReviewFailed = "Failed to load review files"
)

// lineBuilder emits rows in order and hands out jump codes to file rows.
// The ordinal is shared across every section of one build.
type lineBuilder struct {
	lm      *LineModel
	ordinal int
}

func newLineBuilder() *lineBuilder {
	return &lineBuilder{lm: newLineModel()}
}

func (b *lineBuilder) emit(r Row) int {
	b.lm.Rows = append(b.lm.Rows, r)
	line := len(b.lm.Rows)
	if r.Selectable() {
		b.lm.Selectable[line] = true
		b.lm.Entries[line] = r
	}
	return line
}

func (b *lineBuilder) info(text string) { b.emit(Row{Kind: RowInfo, Text: text}) }

func (b *lineBuilder) header(text string) { b.emit(Row{Kind: RowHeader, Text: text}) }

func (b *lineBuilder) separator() { b.emit(Row{Kind: RowSeparator}) }

// section emits a category row followed by one file row per record.
func (b *lineBuilder) section(s Section, records []git.Record) {
	b.emit(Row{Kind: RowCategory, Section: s, Count: len(records)})
	for i, rec := range records {
		row := Row{Kind: RowFile, Section: s, Index: i, Record: rec}
		b.ordinal++
		if diff, direct, ok := AssignCodes(b.ordinal); ok {
			row.DiffCode, row.DirectCode = diff, direct
		}
		line := b.emit(row)
		if row.DiffCode != "" {
			b.lm.DiffKeys[row.DiffCode] = line
			b.lm.DirectKeys[row.DirectCode] = line
		}
	}
}

func (b *lineBuilder) done() *LineModel {
	b.lm.Target = TargetPreserve()
	return b.lm
}

// BuildStatus lays out a working tree snapshot: conflicts (only when
// present), staged and unstaged changes.
func BuildStatus(snap git.Snapshot) *LineModel {
	b := newLineBuilder()
	if snap.TotalCount() == 0 {
		b.info(TextNoChanges)
		return b.done()
	}
	if len(snap.Conflicts) > 0 {
		b.section(SectionConflicts, snap.Conflicts)
		b.separator()
	}
	b.section(SectionStaged, snap.Staged)
	b.separator()
	b.section(SectionUnstaged, snap.Unstaged)
	return b.done()
}

// BuildReview lays out the files of a pull request split by viewed state.
// A nil info means the branch has no open pull request.
func BuildReview(info *review.Info, entry review.Entry) *LineModel {
	b := newLineBuilder()
	switch {
	case info == nil:
		b.info(TextNoReview)
		return b.done()
	case !entry.Populated:
		b.info(TextLoading)
		return b.done()
	case len(entry.Records) == 0 && entry.Err != nil:
		b.header(info.Header())
		b.info(TextReviewFailed)
		return b.done()
	}

	var unreviewed, reviewed []git.Record
	for _, rec := range entry.Records {
		rec.Kind = git.KindFromCounts(rec.Additions, rec.Deletions)
		if rec.Reviewed {
			reviewed = append(reviewed, rec)
		} else {
			unreviewed = append(unreviewed, rec)
		}
	}

	b.header(info.Header())
	b.section(SectionUnreviewed, unreviewed)
	b.separator()
	b.section(SectionReviewed, reviewed)
	return b.done()
}
