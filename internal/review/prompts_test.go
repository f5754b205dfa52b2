package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanix-darker/revu/internal/diffparse"
)

func promptFixture() (PRContext, diffparse.FileChange, diffparse.Hunk) {
	pr := PRContext{
		Owner:       "owner",
		Repo:        "repo",
		Number:      42,
		Title:       "Add retry logic",
		Description: "Retries transient failures.",
		HeadSHA:     "headsha",
	}
	h := diffparse.Hunk{
		Header: "@@ -40,2 +40,3 @@",
		Lines: []diffparse.DiffLine{
			{Type: diffparse.LineContext, Content: "before", OldLineNo: 40, NewLineNo: 40},
			{Type: diffparse.LineAdded, Content: "magic := 42", NewLineNo: 41},
			{Type: diffparse.LineContext, Content: "after", OldLineNo: 41, NewLineNo: 42},
		},
	}
	fc := diffparse.FileChange{
		OldName: "sample.go",
		NewName: "sample.go",
		Hunks:   []diffparse.Hunk{h},
	}
	return pr, fc, h
}

func TestBuildHunkPrompt(t *testing.T) {
	pr, fc, h := promptFixture()
	prompt := BuildHunkPrompt(pr, fc, h, "package main\n")

	assert.Contains(t, prompt, `{"reviews": [{"lineNumber":`)
	assert.Contains(t, prompt, "Title: Add retry logic")
	assert.Contains(t, prompt, "Retries transient failures.")
	assert.Contains(t, prompt, `## File "sample.go" after the change`)
	assert.Contains(t, prompt, "package main")
	assert.Contains(t, prompt, "41 +magic := 42")
	assert.Contains(t, prompt, "@@ -40,2 +40,3 @@")

	// Line-number prefixes are present for context lines too.
	assert.Contains(t, prompt, "40  before")
	assert.Contains(t, prompt, "42  after")
}

func TestBuildHunkPrompt_Deterministic(t *testing.T) {
	pr, fc, h := promptFixture()

	first := BuildHunkPrompt(pr, fc, h, "content\n")
	second := BuildHunkPrompt(pr, fc, h, "content\n")
	assert.Equal(t, first, second)
}

func TestBuildHunkPrompt_EmptyFileContent(t *testing.T) {
	pr, fc, h := promptFixture()
	prompt := BuildHunkPrompt(pr, fc, h, "")

	require.NotEmpty(t, prompt)
	assert.Contains(t, prompt, `## File "sample.go" after the change`)
	// The content block stays well-formed even when empty.
	assert.Contains(t, prompt, "```\n```\n")
}

func TestBuildHunkPrompt_TrailingNewlineNormalized(t *testing.T) {
	pr, fc, h := promptFixture()
	prompt := BuildHunkPrompt(pr, fc, h, "no trailing newline")
	assert.Contains(t, prompt, "no trailing newline\n```")
}

func TestBuildHunkPrompt_DescriptionIsDelimited(t *testing.T) {
	pr, fc, h := promptFixture()
	pr.Description = "line one\nline two"
	prompt := BuildHunkPrompt(pr, fc, h, "")

	start := strings.Index(prompt, "---\nline one\nline two\n---")
	assert.GreaterOrEqual(t, start, 0)
}
