package diffparse

import (
	"fmt"
	"strings"
)

// AnnotateHunk renders a hunk for AI review with an explicit line number in
// front of every line, so the model can cite the exact line it comments on.
// Added and context lines carry their new-file number, deleted lines their
// old-file number.
func AnnotateHunk(h Hunk) string {
	var sb strings.Builder

	sb.WriteString(h.Header)
	sb.WriteString("\n")

	for _, l := range h.Lines {
		marker := " "
		lineNo := l.NewLineNo
		switch l.Type {
		case LineAdded:
			marker = "+"
		case LineDeleted:
			marker = "-"
			lineNo = l.OldLineNo
		}
		if lineNo > 0 {
			sb.WriteString(fmt.Sprintf("%d %s%s\n", lineNo, marker, l.Content))
		} else {
			sb.WriteString(fmt.Sprintf("%s%s\n", marker, l.Content))
		}
	}

	return sb.String()
}
