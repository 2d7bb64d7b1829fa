// Package git runs the git executable for clones, synthetic commits and
// author-filtered history with patches.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/alimgiray/langscope/pkg/logger"
)

// SubprocessErr describes a git invocation that exited unsuccessfully
type SubprocessErr struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (err SubprocessErr) Error() string {
	if err.Stderr != "" {
		return fmt.Sprintf(
			"git %s exited with code %d: %s",
			err.command(),
			err.ExitCode,
			err.Stderr,
		)
	}

	return fmt.Sprintf("git %s exited with code %d", err.command(), err.ExitCode)
}

func (err SubprocessErr) Unwrap() error {
	return err.Err
}

// command is the git subcommand, past any leading -c overrides
func (err SubprocessErr) command() string {
	args := err.Args
	for len(args) >= 2 && args[0] == "-c" {
		args = args[2:]
	}
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// Git runs git commands, authenticating https clones with a token if set
type Git struct {
	binary string
	token  string
}

// New creates a git runner. token may be empty for public repositories.
func New(token string) *Git {
	return &Git{
		binary: "git",
		token:  token,
	}
}

// Clone clones url into dir, which must be empty or missing
func (g *Git) Clone(ctx context.Context, url, dir string) error {
	_, err := g.run(ctx, "", "clone", "--quiet", g.authURL(url), dir)
	if err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}
	return nil
}

// InitCommit turns dir into a repository with a single commit of all its
// files, authored by login.
func (g *Git) InitCommit(ctx context.Context, dir, login string) error {
	steps := [][]string{
		{"init", "--quiet"},
		{"config", "user.name", login},
		{"config", "user.email", login + "@users.noreply.github.com"},
		{"config", "commit.gpgsign", "false"},
		{"add", "."},
		{"commit", "--quiet", "--no-verify", "-m", "linguist"},
	}
	for _, args := range steps {
		if _, err := g.run(ctx, dir, args...); err != nil {
			return fmt.Errorf("failed to create synthetic commit: %w", err)
		}
	}
	return nil
}

// LogPatch returns the patches of at most count commits by author, skipping
// the first skip of them. An empty result means history is exhausted.
// Paths with non-ASCII bytes are written verbatim in file headers.
func (g *Git) LogPatch(ctx context.Context, dir, author string, count, skip int) (string, error) {
	return g.run(ctx, dir,
		"-c", "core.quotepath=off",
		"log",
		"--author="+regexp.QuoteMeta(author),
		"--format=",
		"--patch",
		"--no-color",
		"--no-ext-diff",
		"--max-count="+strconv.Itoa(count),
		"--skip="+strconv.Itoa(skip),
	)
}

// authURL embeds the token into https clone URLs
func (g *Git) authURL(url string) string {
	if g.token == "" || !strings.HasPrefix(url, "https://") {
		return url
	}
	return strings.Replace(url, "https://", "https://"+g.token+"@", 1)
}

// redact hides the token from anything that might be logged
func (g *Git) redact(s string) string {
	if g.token == "" {
		return s
	}
	return strings.ReplaceAll(s, g.token, "***")
}

func (g *Git) run(ctx context.Context, dir string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, g.binary, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.WithField("args", g.redact(strings.Join(args, " "))).Debug("running git")

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if cmd.ProcessState != nil {
			exitCode = cmd.ProcessState.ExitCode()
		}
		return "", SubprocessErr{
			Args:     args,
			ExitCode: exitCode,
			Stderr:   g.redact(strings.TrimSpace(stderr.String())),
			Err:      err,
		}
	}

	return stdout.String(), nil
}
