package languages

// Results accumulates added bytes and lines per language.
//
// Total only grows alongside Stats, so it always equals the sum of Stats.
// Lines attributed to no known language never reach a Results.
type Results struct {
	Total int            `json:"total"`
	Lines map[string]int `json:"lines"`
	Stats map[string]int `json:"stats"`
}

// NewResults creates an empty accumulator
func NewResults() *Results {
	return &Results{
		Lines: make(map[string]int),
		Stats: make(map[string]int),
	}
}

// Attribute records one added line of text for a language.
// It is the only way a Results is mutated.
func (r *Results) Attribute(language, text string) {
	if language == "" {
		return
	}
	if r.Lines == nil {
		r.Lines = make(map[string]int)
	}
	if r.Stats == nil {
		r.Stats = make(map[string]int)
	}

	size := len(text)
	r.Lines[language]++
	r.Stats[language] += size
	r.Total += size
}

// IsEmpty reports whether nothing has been attributed yet
func (r *Results) IsEmpty() bool {
	return len(r.Lines) == 0
}
