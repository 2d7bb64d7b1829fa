package languages

// FileLanguages maps a repository-relative path to its language.
// A missing entry means the language is unknown.
type FileLanguages map[string]string

// Cursor tracks which file a diff is currently describing.
//
// It has two states: no active language, or an active language taken from
// the last file header. Content lines are only attributable in the latter.
type Cursor struct {
	files    FileLanguages
	file     string
	language string
}

// NewCursor creates a cursor with no active language
func NewCursor(files FileLanguages) *Cursor {
	return &Cursor{files: files}
}

// FileHeader moves the cursor to path. An empty path (a deleted file) or a
// path without a known language leaves no active language.
func (c *Cursor) FileHeader(path string) {
	c.file = path
	c.language = ""
	if path != "" {
		c.language = c.files[path]
	}
}

// Content returns the language an added line belongs to, and whether the
// line is attributable at all.
func (c *Cursor) Content() (string, bool) {
	return c.language, c.language != ""
}

// File returns the path of the last file header, if any
func (c *Cursor) File() string {
	return c.file
}
