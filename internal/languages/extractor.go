package languages

import (
	"iter"
	"regexp"
	"strconv"
	"strings"
)

// The second form is git's C-quoted path, used for control characters,
// quotes and backslashes, and for any non-ASCII byte unless quotepath is off.
var fileHeaderPattern = regexp.MustCompile(`^\+{3}\s(?:b/(.+)|("b/.+")|/dev/null)$`)

// AddedLine is one attributable line of content from a diff
type AddedLine struct {
	File     string
	Language string
	Text     string
}

// ExtractAddedLines walks diff text, which may hold the patches of many
// commits back to back, and yields every added line whose file has a known
// language, in document order.
func ExtractAddedLines(diff string, files FileLanguages) iter.Seq[AddedLine] {
	return func(yield func(AddedLine) bool) {
		cursor := NewCursor(files)

		for _, raw := range strings.Split(diff, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" || line[0] != '+' {
				continue
			}

			if m := fileHeaderPattern.FindStringSubmatch(line); m != nil {
				cursor.FileHeader(headerPath(m))
				continue
			}

			language, ok := cursor.Content()
			if !ok {
				continue
			}

			// A bare marker is a blank line and carries no content
			text := stripAddedMarker(line)
			if text == "" {
				continue
			}

			if !yield(AddedLine{
				File:     cursor.File(),
				Language: language,
				Text:     text,
			}) {
				return
			}
		}
	}
}

// headerPath returns the path of a matched file header, or "" for /dev/null
// and for a quoted path that does not unquote.
func headerPath(m []string) string {
	if m[2] == "" {
		return m[1]
	}
	path, err := strconv.Unquote(m[2])
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(path, "b/")
}

// stripAddedMarker drops the leading '+' and at most one space after it
func stripAddedMarker(line string) string {
	text := strings.TrimPrefix(line, "+")
	return strings.TrimPrefix(text, " ")
}

// AddedContent keeps the lines of a single file patch that start with the
// added marker, without the marker, joined back with newlines.
func AddedContent(patch string) string {
	var added []string
	for _, line := range strings.Split(patch, "\n") {
		if strings.HasPrefix(line, "+") {
			added = append(added, line[1:])
		}
	}
	return strings.Join(added, "\n")
}
