package review

import (
	"encoding/json"
	"strings"
)

// PRContext is the immutable per-run snapshot of the pull request under
// review. It is constructed once from the trigger event and PR metadata and
// read-only afterwards.
type PRContext struct {
	Owner       string
	Repo        string
	Number      int
	Title       string
	Description string
	HeadSHA     string
}

// Slug returns the "owner/repo" form used by the platform API.
func (c PRContext) Slug() string {
	return c.Owner + "/" + c.Repo
}

// LineRef holds the model-cited line number before coercion. Providers are
// inconsistent about emitting it as a JSON number or string, so both decode
// into the raw text; values of any other shape keep their raw form and fail
// integer coercion later, invalidating only that finding.
type LineRef string

func (l *LineRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = LineRef(strings.TrimSpace(s))
		return nil
	}
	*l = LineRef(strings.TrimSpace(string(data)))
	return nil
}

// Finding is one model-proposed review comment, not yet validated into an
// anchor.
type Finding struct {
	LineNumber LineRef `json:"lineNumber"`
	Comment    string  `json:"reviewComment"`
}

// CommentAnchor is a validated, submission-ready inline comment position.
type CommentAnchor struct {
	Path string
	Line int
	Body string
}
