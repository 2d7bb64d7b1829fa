package languages

import (
	"cmp"
	"slices"
)

// Share is one language's part of a Results
type Share struct {
	Language string  `json:"language"`
	Bytes    int     `json:"bytes"`
	Lines    int     `json:"lines"`
	Percent  float64 `json:"percent"`
}

// Ranked lists languages by bytes, largest first, ties by name
func (r *Results) Ranked() []Share {
	shares := make([]Share, 0, len(r.Stats))
	for language, bytes := range r.Stats {
		share := Share{
			Language: language,
			Bytes:    bytes,
			Lines:    r.Lines[language],
		}
		if r.Total > 0 {
			share.Percent = float64(bytes) * 100 / float64(r.Total)
		}
		shares = append(shares, share)
	}

	slices.SortFunc(shares, func(a, b Share) int {
		if c := cmp.Compare(b.Bytes, a.Bytes); c != 0 {
			return c
		}
		return cmp.Compare(a.Language, b.Language)
	})
	return shares
}
