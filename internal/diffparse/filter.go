package diffparse

import (
	"path/filepath"
	"strings"
)

// FilterTextChanges returns only reviewable text-file changes.
func FilterTextChanges(changes []FileChange) []FileChange {
	out := make([]FileChange, 0, len(changes))
	for _, fc := range changes {
		if fc.IsBinary {
			continue
		}
		out = append(out, fc)
	}
	return out
}

// ExcludeChanges drops changes whose target is gone (deleted files) or whose
// target path matches any of the exclusion glob patterns. Order is preserved
// and an empty pattern set passes everything through.
func ExcludeChanges(changes []FileChange, patterns []string) []FileChange {
	out := make([]FileChange, 0, len(changes))
	for _, fc := range changes {
		if fc.IsDeleted || strings.TrimSpace(fc.NewName) == "" {
			continue
		}
		if matchesAny(fc.NewName, patterns) {
			continue
		}
		out = append(out, fc)
	}
	return out
}

// matchesAny matches case-sensitively. Patterns without a path separator are
// also tried against the path's base name, so "*.md" excludes docs/README.md.
func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, err := filepath.Match(pattern, filepath.Base(path)); err == nil && ok {
				return true
			}
		}
	}
	return false
}
