package review

import (
	"fmt"
	"strings"

	"github.com/sanix-darker/revu/internal/diffparse"
)

// SystemPrompt is the fixed system message sent with every hunk request.
const SystemPrompt = "You are an expert code reviewer. You respond only with the requested JSON object."

// BuildHunkPrompt builds the review request for a single hunk. It is a pure
// function: identical inputs always produce a byte-identical prompt.
//
// The prompt pins the response contract (a single {"reviews": [...]} object),
// embeds the full post-change file content for context, and renders the hunk
// with explicit line-number prefixes so the model can cite the exact line.
func BuildHunkPrompt(pr PRContext, fc diffparse.FileChange, h diffparse.Hunk, fileContent string) string {
	var sb strings.Builder

	sb.WriteString("Your task is to review a pull request change.\n\n")
	sb.WriteString("Instructions:\n")
	sb.WriteString(`- Respond with a single JSON object, nothing else: {"reviews": [{"lineNumber": <line_number>, "reviewComment": "<review comment>"}]}
- "reviews" must be an empty array when there is nothing to flag.
- Only comment where there is a concrete improvement to make.
- Never give positive or complimentary comments.
- Never suggest adding comments to the code.
- Write each review comment in GitHub Markdown.
- Each lineNumber must be one of the numbers prefixed to the diff lines below.
- Use the pull request title and description to understand intent only; never review the description text itself.
`)

	sb.WriteString("\n## Pull request\n\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n\n", pr.Title))
	sb.WriteString("Description:\n\n---\n")
	sb.WriteString(pr.Description)
	sb.WriteString("\n---\n")

	sb.WriteString(fmt.Sprintf("\n## File %q after the change\n\n", fc.NewName))
	sb.WriteString("```\n")
	sb.WriteString(fileContent)
	if fileContent != "" && !strings.HasSuffix(fileContent, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")

	sb.WriteString("\n## Diff to review (every line is prefixed with its line number)\n\n")
	sb.WriteString("```diff\n")
	sb.WriteString(diffparse.AnnotateHunk(h))
	sb.WriteString("```\n")

	return sb.String()
}
