package classifier

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alimgiray/langscope/internal/languages"
	"github.com/alimgiray/langscope/pkg/logger"
	"github.com/src-d/enry/v2"
)

// enrySampleSize bounds how much of a file enry inspects
const enrySampleSize = 16 * 1024

// Enry classifies files in-process. It keeps programming and markup
// languages and skips vendored, dot, documentation and binary files, close to
// what linguist reports for a repository.
type Enry struct{}

// NewEnry creates an in-process classifier
func NewEnry() *Enry {
	return &Enry{}
}

func (e *Enry) Name() string {
	return NameEnry
}

// Available always succeeds, enry needs nothing from the host
func (e *Enry) Available() error {
	return nil
}

func (e *Enry) Classify(ctx context.Context, root string) (languages.FileLanguages, error) {
	logger.WithField("path", root).Debug("running enry")

	files := make(languages.FileLanguages)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".git" || (rel != "." && enry.IsVendor(rel+"/")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || enry.IsVendor(rel) || enry.IsDotFile(rel) || enry.IsDocumentation(rel) {
			return nil
		}

		content, err := readSample(path)
		if err != nil {
			return err
		}
		if enry.IsBinary(content) {
			return nil
		}

		language := enry.GetLanguage(filepath.Base(rel), content)
		if language == "" {
			return nil
		}
		switch enry.GetLanguageType(language) {
		case enry.Programming, enry.Markup:
			files[rel] = language
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to classify %s: %w", root, err)
	}

	return files, nil
}

func readSample(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, enrySampleSize))
}
