package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/alimgiray/langscope/internal/languages"
	"github.com/alimgiray/langscope/pkg/logger"
)

const linguistBinary = "github-linguist"

// Linguist runs the github-linguist executable
type Linguist struct {
	binary   string
	lookPath func(string) (string, error)
}

// NewLinguist creates a classifier backed by github-linguist from PATH
func NewLinguist() *Linguist {
	return &Linguist{
		binary:   linguistBinary,
		lookPath: exec.LookPath,
	}
}

func (l *Linguist) Name() string {
	return NameLinguist
}

func (l *Linguist) Available() error {
	if _, err := l.lookPath(l.binary); err != nil {
		return fmt.Errorf("%w: %s not found: %v", ErrClassifierUnavailable, l.binary, err)
	}
	return nil
}

func (l *Linguist) Classify(ctx context.Context, root string) (languages.FileLanguages, error) {
	logger.WithField("path", root).Debug("running linguist")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, l.binary, "--json")
	cmd.Dir = root
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to run %s: %w: %s", l.binary, err, strings.TrimSpace(stderr.String()))
	}

	breakdown, err := parseLinguistJSON(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	return invert(breakdown), nil
}

// parseLinguistJSON reads the --json output of github-linguist. Older
// releases print language -> [files]; newer ones print language ->
// {size, percentage, files}.
func parseLinguistJSON(data []byte) (map[string][]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse linguist output: %w", err)
	}

	breakdown := make(map[string][]string, len(raw))
	for language, value := range raw {
		var files []string
		if err := json.Unmarshal(value, &files); err == nil {
			breakdown[language] = files
			continue
		}

		var detailed struct {
			Files []string `json:"files"`
		}
		if err := json.Unmarshal(value, &detailed); err != nil {
			return nil, fmt.Errorf("failed to parse linguist entry for %s: %w", language, err)
		}
		breakdown[language] = detailed.Files
	}
	return breakdown, nil
}
