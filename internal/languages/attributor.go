package languages

// Attributor folds diff text into a shared Results
type Attributor struct {
	results *Results
	files   FileLanguages
}

// NewAttributor creates an attributor writing into results, classifying
// files with the given map for the whole pass.
func NewAttributor(results *Results, files FileLanguages) *Attributor {
	return &Attributor{
		results: results,
		files:   files,
	}
}

// Consume attributes every added line of diff and returns how many lines
// were attributed. It can be called once per page without resetting state.
func (a *Attributor) Consume(diff string) int {
	count := 0
	for line := range ExtractAddedLines(diff, a.files) {
		a.results.Attribute(line.Language, line.Text)
		count++
	}
	return count
}
