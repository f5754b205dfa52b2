package diffparse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// FileChange represents a parsed file diff.
type FileChange struct {
	OldName   string
	NewName   string // empty when the file was deleted
	IsNew     bool
	IsDeleted bool
	IsRenamed bool
	IsBinary  bool
	Hunks     []Hunk
	Stats     DiffStats
}

// Hunk represents a diff hunk.
type Hunk struct {
	Header   string // the raw @@ header, shown to the model as-is
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []DiffLine
}

// DiffLine represents a single line in a diff.
type DiffLine struct {
	Type      LineType
	Content   string
	OldLineNo int // 0 for added lines
	NewLineNo int // 0 for deleted lines
}

// LineType classifies a diff line.
type LineType int

const (
	LineContext LineType = iota
	LineAdded
	LineDeleted
)

// DiffStats holds addition/deletion counts.
type DiffStats struct {
	Additions int
	Deletions int
}

// Path returns the reviewable path of the change: the new name when present,
// otherwise the old one.
func (fc FileChange) Path() string {
	if strings.TrimSpace(fc.NewName) != "" {
		return fc.NewName
	}
	return fc.OldName
}

// Parse parses raw unified diff output into structured FileChanges.
//
// Parsing is fault-isolated per file section and per hunk: a section or hunk
// the library cannot parse is skipped and the rest of the diff survives.
// Parsing the same text twice yields structurally identical results.
func Parse(raw string) []FileChange {
	var changes []FileChange

	for _, section := range splitFileSections(raw) {
		fc, ok := parseFileSection(section)
		if !ok {
			continue
		}
		changes = append(changes, fc)
	}

	return changes
}

// splitFileSections cuts a multi-file unified diff on "diff --git" headers.
// Diffs without that header (plain ---/+++ pairs) come back as one section.
func splitFileSections(raw string) []string {
	lines := strings.Split(raw, "\n")

	var sections []string
	var current []string
	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git ") && len(current) > 0 {
			sections = append(sections, strings.Join(current, "\n"))
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		sections = append(sections, strings.Join(current, "\n"))
	}
	return sections
}

func parseFileSection(section string) (FileChange, bool) {
	if strings.TrimSpace(section) == "" {
		return FileChange{}, false
	}

	fd, err := diff.ParseFileDiff([]byte(section))
	if err != nil || fd == nil {
		return parseFileSectionPerHunk(section)
	}

	fc := newFileChange(fd.OrigName, fd.NewName, fd.Extended)
	for _, h := range fd.Hunks {
		fc.appendHunk(h)
	}
	return fc, true
}

// parseFileSectionPerHunk is the degraded path for sections the library
// rejects wholesale: each hunk is re-parsed behind a pseudo header so that
// one malformed hunk cannot take its well-formed siblings down with it.
func parseFileSectionPerHunk(section string) (FileChange, bool) {
	header, hunks := splitHunks(section)
	origName, newName, ok := headerPaths(header)
	if !ok {
		return FileChange{}, false
	}

	fc := newFileChange(origName, newName, strings.Split(header, "\n"))
	pseudo := fmt.Sprintf("--- %s\n+++ %s\n", origName, newName)
	for _, hunkText := range hunks {
		fd, err := diff.ParseFileDiff([]byte(pseudo + hunkText))
		if err != nil || fd == nil {
			continue
		}
		for _, h := range fd.Hunks {
			fc.appendHunk(h)
		}
	}
	return fc, true
}

// splitHunks separates the pre-hunk header block from the "@@"-led hunks.
func splitHunks(section string) (header string, hunks []string) {
	lines := strings.Split(section, "\n")

	var headerLines []string
	var current []string
	inHunk := false
	for _, line := range lines {
		if strings.HasPrefix(line, "@@") {
			if inHunk && len(current) > 0 {
				hunks = append(hunks, strings.Join(current, "\n")+"\n")
				current = nil
			}
			inHunk = true
		}
		if inHunk {
			current = append(current, line)
		} else {
			headerLines = append(headerLines, line)
		}
	}
	if inHunk && len(current) > 0 {
		hunks = append(hunks, strings.Join(current, "\n")+"\n")
	}
	return strings.Join(headerLines, "\n"), hunks
}

// headerPaths recovers the ---/+++ (or diff --git) paths from a section header.
func headerPaths(header string) (orig, updated string, ok bool) {
	for _, line := range strings.Split(header, "\n") {
		switch {
		case strings.HasPrefix(line, "--- "):
			orig = strings.TrimSpace(strings.TrimPrefix(line, "--- "))
		case strings.HasPrefix(line, "+++ "):
			updated = strings.TrimSpace(strings.TrimPrefix(line, "+++ "))
		case strings.HasPrefix(line, "diff --git ") && orig == "" && updated == "":
			fields := strings.Fields(strings.TrimPrefix(line, "diff --git "))
			if len(fields) == 2 {
				orig, updated = fields[0], fields[1]
			}
		}
	}
	return orig, updated, orig != "" || updated != ""
}

func newFileChange(origName, newName string, extended []string) FileChange {
	fc := FileChange{
		OldName: cleanPath(origName),
		NewName: cleanPath(newName),
	}

	if origName == "/dev/null" {
		fc.IsNew = true
		fc.OldName = ""
	}
	if newName == "/dev/null" {
		fc.IsDeleted = true
		fc.NewName = ""
	}
	if fc.OldName != "" && fc.NewName != "" && fc.OldName != fc.NewName {
		fc.IsRenamed = true
	}

	for _, ext := range extended {
		if strings.Contains(ext, "Binary files") || strings.Contains(ext, "GIT binary patch") {
			fc.IsBinary = true
		}
		if strings.HasPrefix(ext, "deleted file mode") {
			fc.IsDeleted = true
			fc.NewName = ""
		}
	}
	if !fc.IsBinary {
		fc.IsBinary = isBinaryPath(fc.Path())
	}

	return fc
}

// appendHunk walks a parsed hunk body, numbering each line on its old/new axis.
func (fc *FileChange) appendHunk(h *diff.Hunk) {
	hunk := Hunk{
		Header: fmt.Sprintf("@@ -%d,%d +%d,%d @@%s",
			h.OrigStartLine, h.OrigLines, h.NewStartLine, h.NewLines, sectionSuffix(h.Section)),
		OldStart: int(h.OrigStartLine),
		OldLines: int(h.OrigLines),
		NewStart: int(h.NewStartLine),
		NewLines: int(h.NewLines),
	}

	oldLine := int(h.OrigStartLine)
	newLine := int(h.NewStartLine)

	lines := strings.Split(string(h.Body), "\n")
	// Only the trailing "" from a newline-terminated body is split noise.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	for _, line := range lines {
		if len(line) == 0 {
			// Blank context line with its leading space stripped. It still
			// occupies a line on both sides.
			hunk.Lines = append(hunk.Lines, DiffLine{
				Type:      LineContext,
				OldLineNo: oldLine,
				NewLineNo: newLine,
			})
			oldLine++
			newLine++
			continue
		}

		dl := DiffLine{}
		switch line[0] {
		case '+':
			dl.Type = LineAdded
			dl.Content = line[1:]
			dl.NewLineNo = newLine
			newLine++
			fc.Stats.Additions++
		case '-':
			dl.Type = LineDeleted
			dl.Content = line[1:]
			dl.OldLineNo = oldLine
			oldLine++
			fc.Stats.Deletions++
		case '\\':
			// "\ No newline at end of file"
			continue
		default:
			dl.Type = LineContext
			if line[0] == ' ' {
				dl.Content = line[1:]
			} else {
				dl.Content = line
			}
			dl.OldLineNo = oldLine
			dl.NewLineNo = newLine
			oldLine++
			newLine++
		}
		hunk.Lines = append(hunk.Lines, dl)
	}

	fc.Hunks = append(fc.Hunks, hunk)
}

func sectionSuffix(section string) string {
	if section == "" {
		return ""
	}
	return " " + section
}

func isBinaryPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(path)))
	switch ext {
	case ".pdf", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".ico", ".tiff", ".heic",
		".zip", ".tar", ".gz", ".bz2", ".xz", ".7z", ".rar",
		".jar", ".war", ".so", ".dll", ".dylib", ".a", ".o", ".obj", ".exe", ".bin", ".class",
		".woff", ".woff2", ".ttf", ".otf", ".eot",
		".mp3", ".mp4", ".mov", ".wav", ".avi", ".mkv", ".flac":
		return true
	default:
		return false
	}
}

func cleanPath(p string) string {
	p = strings.TrimPrefix(p, "a/")
	p = strings.TrimPrefix(p, "b/")
	return p
}
