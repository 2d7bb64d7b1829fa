// Package classifier maps the files of a working tree to languages.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/alimgiray/langscope/internal/languages"
)

// ErrClassifierUnavailable means the classifier cannot run at all on this host
var ErrClassifierUnavailable = errors.New("language classifier unavailable")

// Classifier returns the language of every file in a working tree
type Classifier interface {
	// Name identifies the classifier in logs and config
	Name() string

	// Available fails with ErrClassifierUnavailable when the classifier
	// cannot be used. It is checked before any other work.
	Available() error

	// Classify maps repository-relative paths under root to languages
	Classify(ctx context.Context, root string) (languages.FileLanguages, error)
}

// Supported classifier names
const (
	NameLinguist = "linguist"
	NameEnry     = "enry"
)

// New returns the classifier configured under name
func New(name string) (Classifier, error) {
	switch name {
	case "", NameLinguist:
		return NewLinguist(), nil
	case NameEnry:
		return NewEnry(), nil
	default:
		return nil, fmt.Errorf("unknown classifier %q", name)
	}
}

// invert turns a language -> files breakdown into a path -> language map.
// When a path is listed twice the alphabetically first language wins.
func invert(breakdown map[string][]string) languages.FileLanguages {
	names := make([]string, 0, len(breakdown))
	for language := range breakdown {
		names = append(names, language)
	}
	sort.Strings(names)

	files := make(languages.FileLanguages)
	for _, language := range names {
		for _, path := range breakdown[language] {
			if _, ok := files[path]; !ok {
				files[path] = language
			}
		}
	}
	return files
}
