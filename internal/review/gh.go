package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/Akashdeep-Patra/zed-git-review/internal/git"
)

// ghTimeout bounds every gh invocation.
const ghTimeout = 30 * time.Second

// filesPageSize is the GraphQL page size for pull request files (API max).
const filesPageSize = 100

const filesQuery = `query($owner: String!, $name: String!, $number: Int!, $first: Int!, $after: String) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      id
      files(first: $first, after: $after) {
        nodes { path additions deletions viewerViewedState }
        pageInfo { hasNextPage endCursor }
      }
    }
  }
}`

const markViewedMutation = `mutation($id: ID!, $path: String!) {
  markFileAsViewed(input: {pullRequestId: $id, path: $path}) { clientMutationId }
}`

const unmarkViewedMutation = `mutation($id: ID!, $path: String!) {
  unmarkFileAsViewed(input: {pullRequestId: $id, path: $path}) { clientMutationId }
}`

// GHSource implements Source with the GitHub CLI.
type GHSource struct {
	dir string
}

var _ Source = (*GHSource)(nil)

// NewGHSource returns a source that runs gh in dir.
func NewGHSource(dir string) (*GHSource, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return nil, ErrGHMissing
	}
	return &GHSource{dir: dir}, nil
}

// prView is the subset of `gh pr view --json` output we read.
type prView struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	BaseRefName string `json:"baseRefName"`
	HeadRefName string `json:"headRefName"`
	URL         string `json:"url"`
	State       string `json:"state"`
}

// CurrentReview returns the open pull request for the checked-out branch.
func (g *GHSource) CurrentReview() (*Info, error) {
	out, err := g.run(context.Background(), "pr", "view", "--json",
		"id,number,title,baseRefName,headRefName,url,state")
	if err != nil {
		if isNoPR(err) {
			return nil, ErrNoReview
		}
		return nil, err
	}
	return parsePRView(out)
}

func parsePRView(out []byte) (*Info, error) {
	var v prView
	if err := json.Unmarshal(out, &v); err != nil {
		return nil, fmt.Errorf("decoding pr view: %w", err)
	}
	if v.State != "" && v.State != "OPEN" {
		return nil, ErrNoReview
	}
	return &Info{
		Number:     v.Number,
		ID:         v.ID,
		Title:      v.Title,
		BaseBranch: v.BaseRefName,
		HeadBranch: v.HeadRefName,
		URL:        v.URL,
	}, nil
}

// filesResponse mirrors the GraphQL response shape of filesQuery.
type filesResponse struct {
	Data struct {
		Repository struct {
			PullRequest *struct {
				ID    string `json:"id"`
				Files struct {
					Nodes []struct {
						Path              string `json:"path"`
						Additions         int    `json:"additions"`
						Deletions         int    `json:"deletions"`
						ViewerViewedState string `json:"viewerViewedState"`
					} `json:"nodes"`
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
				} `json:"files"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchFiles returns every file of pull request scope with its viewed state,
// in the order the API reports them.
func (g *GHSource) FetchFiles(ctx context.Context, scope int) ([]git.Record, error) {
	var (
		records []git.Record
		after   string
	)
	for {
		args := []string{"api", "graphql",
			"-F", "owner={owner}", "-F", "name={repo}",
			"-F", fmt.Sprintf("number=%d", scope),
			"-F", fmt.Sprintf("first=%d", filesPageSize),
			"-f", "query=" + filesQuery,
		}
		if after != "" {
			args = append(args, "-f", "after="+after)
		}
		out, err := g.run(ctx, args...)
		if err != nil {
			return nil, fmt.Errorf("fetching review files: %w", err)
		}
		page, next, err := parseFilesPage(out)
		if err != nil {
			return nil, err
		}
		records = append(records, page...)
		if next == "" {
			return records, nil
		}
		after = next
	}
}

// parseFilesPage decodes one page and returns the cursor of the next page,
// or "" when this was the last one.
func parseFilesPage(out []byte) ([]git.Record, string, error) {
	var resp filesResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, "", fmt.Errorf("decoding review files: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, "", fmt.Errorf("review files: %s", resp.Errors[0].Message)
	}
	pr := resp.Data.Repository.PullRequest
	if pr == nil {
		return nil, "", ErrNoReview
	}
	records := make([]git.Record, 0, len(pr.Files.Nodes))
	for _, n := range pr.Files.Nodes {
		records = append(records, git.Record{
			Path:      n.Path,
			Kind:      git.KindFromCounts(n.Additions, n.Deletions),
			Additions: n.Additions,
			Deletions: n.Deletions,
			Reviewed:  n.ViewerViewedState == "VIEWED",
			ReviewID:  pr.ID,
		})
	}
	next := ""
	if pr.Files.PageInfo.HasNextPage {
		next = pr.Files.PageInfo.EndCursor
	}
	return records, next, nil
}

// SetReviewed marks or unmarks path as viewed on the pull request.
func (g *GHSource) SetReviewed(ctx context.Context, reviewID, path string, viewed bool) error {
	q := unmarkViewedMutation
	if viewed {
		q = markViewedMutation
	}
	out, err := g.run(ctx, "api", "graphql",
		"-f", "id="+reviewID, "-f", "path="+path, "-f", "query="+q)
	if err != nil {
		return fmt.Errorf("updating viewed state: %w", err)
	}
	var resp struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(out, &resp); err == nil && len(resp.Errors) > 0 {
		return fmt.Errorf("updating viewed state: %s", resp.Errors[0].Message)
	}
	return nil
}

// run executes gh in the repository with a timeout. The caller's context
// wins when it is shorter.
func (g *GHSource) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, ghTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "gh", args...)
	cmd.Dir = g.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		return nil, fmt.Errorf("gh %s: %s: %w", args[0], msg, err)
	}
	return stdout.Bytes(), nil
}

func isNoPR(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no pull requests found") ||
		strings.Contains(msg, "no open pull requests")
}
