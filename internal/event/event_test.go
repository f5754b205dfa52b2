package event

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePayload(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writePayload(t, `{
		"action": "opened",
		"number": 7,
		"repository": {"name": "repo", "owner": {"login": "owner"}},
		"pull_request": {"number": 7}
	}`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "opened", p.Action)
	assert.Equal(t, "owner/repo", p.Repo())
	assert.Equal(t, 7, p.PullNumber())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writePayload(t, "{not json")
	_, err := Load(path)
	require.Error(t, err)
}

func TestPayload_PullNumberFallback(t *testing.T) {
	p := &Payload{}
	p.PullRequest.Number = 12
	assert.Equal(t, 12, p.PullNumber())

	p.Number = 5
	assert.Equal(t, 5, p.PullNumber())
}

func TestPayload_Repo(t *testing.T) {
	p := &Payload{}
	assert.Empty(t, p.Repo())

	p.Repository.Name = "repo"
	assert.Empty(t, p.Repo())

	p.Repository.Owner.Login = "owner"
	assert.Equal(t, "owner/repo", p.Repo())
}

func TestPayload_Trigger(t *testing.T) {
	tests := []struct {
		name   string
		action string
		before string
		after  string
		want   Trigger
	}{
		{"opened reviews full diff", "opened", "", "", TriggerFullDiff},
		{"synchronize reviews pushed range", "synchronize", "abc", "def", TriggerCompareDiff},
		{"synchronize without range is unsupported", "synchronize", "", "", TriggerUnsupported},
		{"closed is unsupported", "closed", "", "", TriggerUnsupported},
		{"edited is unsupported", "edited", "", "", TriggerUnsupported},
		{"empty action is unsupported", "", "", "", TriggerUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Payload{Action: tt.action, Before: tt.before, After: tt.after}
			assert.Equal(t, tt.want, p.Trigger())
		})
	}
}

func TestTrigger_String(t *testing.T) {
	assert.Equal(t, "full_diff", TriggerFullDiff.String())
	assert.Equal(t, "compare_diff", TriggerCompareDiff.String())
	assert.Equal(t, "unsupported", TriggerUnsupported.String())
}
