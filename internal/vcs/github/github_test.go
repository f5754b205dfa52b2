package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanix-darker/revu/internal/vcs"
)

func newTestPlatform(t *testing.T, handler http.Handler) (vcs.Platform, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewPlatform("test-token", srv.URL)
	require.NoError(t, err)
	return p, srv
}

func TestNewPlatform_RequiresToken(t *testing.T) {
	_, err := NewPlatform("", "")
	require.Error(t, err)
}

func TestFetchPullRequest(t *testing.T) {
	p, _ := newTestPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/pulls/42", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"number": 42,
			"title": "Add feature",
			"body": "Adds the thing",
			"user": {"login": "darker"},
			"head": {"sha": "headsha123"},
			"base": {"sha": "basesha456"},
			"state": "open",
			"html_url": "https://github.com/owner/repo/pull/42"
		}`))
	}))

	pr, err := p.FetchPullRequest(context.Background(), "owner/repo", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, pr.Number)
	assert.Equal(t, "Add feature", pr.Title)
	assert.Equal(t, "Adds the thing", pr.Description)
	assert.Equal(t, "darker", pr.Author)
	assert.Equal(t, "headsha123", pr.HeadSHA)
	assert.Equal(t, "basesha456", pr.BaseSHA)
	assert.Equal(t, "open", pr.State)
}

func TestFetchPullRequest_NotFound(t *testing.T) {
	p, _ := newTestPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))

	_, err := p.FetchPullRequest(context.Background(), "owner/repo", 999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchPullRequestDiff(t *testing.T) {
	const rawDiff = "diff --git a/main.go b/main.go\n--- a/main.go\n+++ b/main.go\n"

	p, _ := newTestPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/pulls/42", r.URL.Path)
		assert.Equal(t, "application/vnd.github.v3.diff", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(rawDiff))
	}))

	diff, err := p.FetchPullRequestDiff(context.Background(), "owner/repo", 42)
	require.NoError(t, err)
	assert.Equal(t, rawDiff, diff)
}

func TestFetchCompareDiff(t *testing.T) {
	p, _ := newTestPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/compare/abc123...def456", r.URL.Path)
		assert.Equal(t, "application/vnd.github.v3.diff", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("compare diff body"))
	}))

	diff, err := p.FetchCompareDiff(context.Background(), "owner/repo", "abc123", "def456")
	require.NoError(t, err)
	assert.Equal(t, "compare diff body", diff)
}

func TestFetchFileContent(t *testing.T) {
	content := "package main\n\nfunc main() {}\n"
	// GitHub wraps base64 payloads with newlines.
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	wrapped := encoded[:10] + "\n" + encoded[10:]

	p, _ := newTestPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/owner/repo/contents/main.go", r.URL.Path)
		assert.Equal(t, "headsha123", r.URL.Query().Get("ref"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"type":     "file",
			"encoding": "base64",
			"content":  wrapped,
		})
	}))

	got, err := p.FetchFileContent(context.Background(), "owner/repo", "main.go", "headsha123")
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestFetchFileContent_NotAFile(t *testing.T) {
	p, _ := newTestPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type": "dir", "encoding": "", "content": ""}`))
	}))

	_, err := p.FetchFileContent(context.Background(), "owner/repo", "internal", "ref")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a file")
}

func TestFetchFileContent_NotFound(t *testing.T) {
	p, _ := newTestPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := p.FetchFileContent(context.Background(), "owner/repo", "gone.go", "ref")
	require.Error(t, err)
}

func TestCreateReview(t *testing.T) {
	var captured struct {
		CommitID string `json:"commit_id"`
		Event    string `json:"event"`
		Comments []struct {
			Path string `json:"path"`
			Line int    `json:"line"`
			Side string `json:"side"`
			Body string `json:"body"`
		} `json:"comments"`
	}

	p, _ := newTestPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/owner/repo/pulls/42/reviews", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))

	comments := []vcs.ReviewComment{
		{Path: "main.go", Line: 4, Body: "consider error handling"},
		{Path: "util.go", Line: 10, Body: "possible nil dereference"},
	}
	err := p.CreateReview(context.Background(), "owner/repo", 42, "headsha123", comments)
	require.NoError(t, err)

	assert.Equal(t, "headsha123", captured.CommitID)
	assert.Equal(t, "COMMENT", captured.Event)
	require.Len(t, captured.Comments, 2)
	assert.Equal(t, "main.go", captured.Comments[0].Path)
	assert.Equal(t, 4, captured.Comments[0].Line)
	assert.Equal(t, "RIGHT", captured.Comments[0].Side)
	assert.Equal(t, "consider error handling", captured.Comments[0].Body)
}

func TestCreateReview_Guards(t *testing.T) {
	called := false
	p, _ := newTestPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	err := p.CreateReview(context.Background(), "owner/repo", 42, "sha", nil)
	require.Error(t, err)

	err = p.CreateReview(context.Background(), "owner/repo", 42, "", []vcs.ReviewComment{{Path: "a", Line: 1, Body: "b"}})
	require.Error(t, err)

	assert.False(t, called)
}

func TestCreateReview_ServerError(t *testing.T) {
	p, _ := newTestPlatform(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Validation Failed"}`))
	}))

	err := p.CreateReview(context.Background(), "owner/repo", 42, "sha", []vcs.ReviewComment{{Path: "a", Line: 1, Body: "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
