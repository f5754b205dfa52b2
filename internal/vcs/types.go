package vcs

import "context"

// Platform abstracts hosting platform operations (GitHub, etc.) needed to
// review a pull request: reading metadata, diffs and file contents, and
// posting one batched review.
type Platform interface {
	Info() PlatformInfo

	// FetchPullRequest reads PR metadata by repo ("owner/name") and number.
	FetchPullRequest(ctx context.Context, repo string, number int) (*PullRequest, error)

	// FetchPullRequestDiff returns the full unified diff of the PR
	// (base..head).
	FetchPullRequestDiff(ctx context.Context, repo string, number int) (string, error)

	// FetchCompareDiff returns the unified diff between two commits.
	FetchCompareDiff(ctx context.Context, repo, base, head string) (string, error)

	// FetchFileContent returns the decoded content of path at ref. It fails
	// if the path is absent at that ref or the content is not text.
	FetchFileContent(ctx context.Context, repo, path, ref string) (string, error)

	// CreateReview attaches all comments to the PR in a single review with
	// a plain "comment" disposition. Callers must not invoke it with an
	// empty comment list.
	CreateReview(ctx context.Context, repo string, number int, headSHA string, comments []ReviewComment) error

	Validate() error
}

// PlatformInfo describes a hosting platform implementation.
type PlatformInfo struct {
	Name    string
	BaseURL string
}

// PullRequest holds platform-agnostic pull request metadata.
type PullRequest struct {
	Number      int
	Title       string
	Description string
	Author      string
	State       string
	HeadSHA     string
	BaseSHA     string
	WebURL      string
}

// ReviewComment is one inline comment in a batched review, anchored on the
// new side of the diff.
type ReviewComment struct {
	Path string
	Line int
	Body string
}
