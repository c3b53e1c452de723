// Package review reads and updates the per-file "viewed" state of the pull
// request open for the current branch.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
)

var (
	// ErrNoReview is returned when the current branch has no open pull request.
	ErrNoReview = errors.New("no open review for this branch")
	// ErrGHMissing is returned when the gh executable cannot be found.
	ErrGHMissing = errors.New("gh executable not found in PATH")
)

// Info identifies the pull request under review.
type Info struct {
	Number     int
	ID         string // GraphQL node id
	Title      string
	BaseBranch string
	HeadBranch string
	URL        string
}

// Scope returns the cache scope for this review.
func (i *Info) Scope() int { return i.Number }

// Header renders the one-line summary shown above the review file list.
func (i *Info) Header() string {
	return fmt.Sprintf("#%d %s → %s", i.Number, i.Title, i.BaseBranch)
}

// Source is the contract for a review host.
type Source interface {
	CurrentReview() (*Info, error)
	FetchFiles(ctx context.Context, scope int) ([]git.Record, error)
	SetReviewed(ctx context.Context, reviewID, path string, viewed bool) error
}
