package languages

import "strings"

// SkipList holds repositories excluded from analysis, by bare name or by
// owner/name slug, compared case-insensitively.
type SkipList map[string]struct{}

// NewSkipList normalizes entries to lower case and drops blanks
func NewSkipList(entries []string) SkipList {
	s := make(SkipList, len(entries))
	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			s[entry] = struct{}{}
		}
	}
	return s
}

// Matches reports whether the repository owner/name is skipped
func (s SkipList) Matches(owner, name string) bool {
	if len(s) == 0 {
		return false
	}
	if _, ok := s[strings.ToLower(name)]; ok {
		return true
	}
	_, ok := s[strings.ToLower(owner+"/"+name)]
	return ok
}

// MatchesSlug is Matches for an "owner/name" slug, as found in events
func (s SkipList) MatchesSlug(slug string) bool {
	owner, name, found := strings.Cut(slug, "/")
	if !found {
		_, ok := s[strings.ToLower(slug)]
		return ok
	}
	return s.Matches(owner, name)
}
