// Package github implements vcs.Platform for the GitHub REST API.
package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sanix-darker/revu/internal/vcs"
)

const acceptDiff = "application/vnd.github.v3.diff"

// Platform implements vcs.Platform for GitHub.
type Platform struct {
	client  *resty.Client
	baseURL string
}

func init() {
	vcs.Register("github", NewPlatform)
}

// NewPlatform creates a GitHub Platform.
func NewPlatform(token, baseURL string) (vcs.Platform, error) {
	if token == "" {
		return nil, fmt.Errorf("github: token is required")
	}
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetAuthToken(token).
		SetHeader("Accept", "application/vnd.github+json").
		SetHeader("User-Agent", "revu-bot")

	return &Platform{client: client, baseURL: baseURL}, nil
}

func (p *Platform) Info() vcs.PlatformInfo {
	return vcs.PlatformInfo{Name: "github", BaseURL: p.baseURL}
}

func (p *Platform) Validate() error {
	return nil
}

func (p *Platform) FetchPullRequest(ctx context.Context, repo string, number int) (*vcs.PullRequest, error) {
	var pr struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Body   string `json:"body"`
		User   struct {
			Login string `json:"login"`
		} `json:"user"`
		Head struct {
			SHA string `json:"sha"`
		} `json:"head"`
		Base struct {
			SHA string `json:"sha"`
		} `json:"base"`
		State   string `json:"state"`
		HTMLURL string `json:"html_url"`
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&pr).
		Get(fmt.Sprintf("/repos/%s/pulls/%d", repo, number))
	if err != nil {
		return nil, fmt.Errorf("github: failed to fetch PR #%d: %w", number, err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("github: failed to fetch PR #%d: %w", number, err)
	}

	return &vcs.PullRequest{
		Number:      pr.Number,
		Title:       pr.Title,
		Description: pr.Body,
		Author:      pr.User.Login,
		State:       pr.State,
		HeadSHA:     pr.Head.SHA,
		BaseSHA:     pr.Base.SHA,
		WebURL:      pr.HTMLURL,
	}, nil
}

func (p *Platform) FetchPullRequestDiff(ctx context.Context, repo string, number int) (string, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Accept", acceptDiff).
		Get(fmt.Sprintf("/repos/%s/pulls/%d", repo, number))
	if err != nil {
		return "", fmt.Errorf("github: failed to fetch PR diff: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("github: failed to fetch PR diff: %w", err)
	}
	return string(resp.Body()), nil
}

func (p *Platform) FetchCompareDiff(ctx context.Context, repo, base, head string) (string, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Accept", acceptDiff).
		Get(fmt.Sprintf("/repos/%s/compare/%s...%s", repo, base, head))
	if err != nil {
		return "", fmt.Errorf("github: failed to fetch compare diff %s...%s: %w", base, head, err)
	}
	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("github: failed to fetch compare diff %s...%s: %w", base, head, err)
	}
	return string(resp.Body()), nil
}

func (p *Platform) FetchFileContent(ctx context.Context, repo, path, ref string) (string, error) {
	var file struct {
		Type     string `json:"type"`
		Encoding string `json:"encoding"`
		Content  string `json:"content"`
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("ref", ref).
		SetResult(&file).
		Get(fmt.Sprintf("/repos/%s/contents/%s", repo, path))
	if err != nil {
		return "", fmt.Errorf("github: failed to fetch content of %s@%s: %w", path, ref, err)
	}
	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("github: failed to fetch content of %s@%s: %w", path, ref, err)
	}

	if file.Type != "" && file.Type != "file" {
		return "", fmt.Errorf("github: %s@%s is not a file (type %q)", path, ref, file.Type)
	}
	if file.Encoding != "base64" {
		return "", fmt.Errorf("github: unsupported content encoding %q for %s@%s", file.Encoding, path, ref)
	}

	// GitHub inserts newlines into the base64 payload.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("github: failed to decode content of %s@%s: %w", path, ref, err)
	}
	return string(decoded), nil
}

func (p *Platform) CreateReview(ctx context.Context, repo string, number int, headSHA string, comments []vcs.ReviewComment) error {
	if headSHA == "" {
		return fmt.Errorf("github: missing head SHA for review")
	}
	if len(comments) == 0 {
		return fmt.Errorf("github: refusing to create a review with no comments")
	}

	type reviewComment struct {
		Path string `json:"path"`
		Line int    `json:"line"`
		Side string `json:"side"`
		Body string `json:"body"`
	}

	payload := struct {
		CommitID string          `json:"commit_id"`
		Event    string          `json:"event"`
		Comments []reviewComment `json:"comments"`
	}{
		CommitID: headSHA,
		Event:    "COMMENT",
	}
	for _, c := range comments {
		payload.Comments = append(payload.Comments, reviewComment{
			Path: c.Path,
			Line: c.Line,
			Side: "RIGHT",
			Body: c.Body,
		})
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(payload).
		Post(fmt.Sprintf("/repos/%s/pulls/%d/reviews", repo, number))
	if err != nil {
		return fmt.Errorf("github: failed to create review: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("github: failed to create review: %w", err)
	}
	return nil
}

func checkStatus(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}
	body := strings.TrimSpace(string(resp.Body()))
	if code == http.StatusNotFound {
		return fmt.Errorf("HTTP 404: %s", body)
	}
	return fmt.Errorf("HTTP %d: %s", code, body)
}
