package vcs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlatform struct {
	name string
}

func (s *stubPlatform) Info() PlatformInfo { return PlatformInfo{Name: s.name} }
func (s *stubPlatform) FetchPullRequest(ctx context.Context, repo string, number int) (*PullRequest, error) {
	return &PullRequest{Number: number}, nil
}
func (s *stubPlatform) FetchPullRequestDiff(ctx context.Context, repo string, number int) (string, error) {
	return "", nil
}
func (s *stubPlatform) FetchCompareDiff(ctx context.Context, repo, base, head string) (string, error) {
	return "", nil
}
func (s *stubPlatform) FetchFileContent(ctx context.Context, repo, path, ref string) (string, error) {
	return "", nil
}
func (s *stubPlatform) CreateReview(ctx context.Context, repo string, number int, headSHA string, comments []ReviewComment) error {
	return nil
}
func (s *stubPlatform) Validate() error { return nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register("stub", func(token, baseURL string) (Platform, error) {
		return &stubPlatform{name: "stub"}, nil
	})

	p, err := r.Get("stub", "token", "")
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Info().Name)

	_, err = r.Get("gitlab", "token", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown platform "gitlab"`)

	assert.Panics(t, func() {
		r.Register("stub", func(token, baseURL string) (Platform, error) { return nil, nil })
	})
}
