package review

import (
	"strconv"
	"strings"

	"github.com/sanix-darker/revu/internal/diffparse"
	"go.uber.org/zap"
)

// ProjectFindings maps findings for one hunk onto submission-ready anchors.
// A finding is dropped, without affecting its siblings, when the file change
// has no target path or its line number does not coerce to an integer. No
// deduplication or range validation happens here; the platform owns the
// final word on anchor validity.
func ProjectFindings(fc diffparse.FileChange, findings []Finding, logger *zap.Logger) []CommentAnchor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(fc.NewName) == "" {
		return nil
	}

	anchors := make([]CommentAnchor, 0, len(findings))
	for _, f := range findings {
		line, err := strconv.Atoi(strings.TrimSpace(string(f.LineNumber)))
		if err != nil {
			logger.Debug("dropping finding with non-numeric line number",
				zap.String("path", fc.NewName),
				zap.String("lineNumber", string(f.LineNumber)))
			continue
		}
		anchors = append(anchors, CommentAnchor{
			Path: fc.NewName,
			Line: line,
			Body: f.Comment,
		})
	}
	return anchors
}
