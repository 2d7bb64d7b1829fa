package services

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/alimgiray/langscope/internal/models"
)

var unsafePathChars = regexp.MustCompile(`[^\w]`)

// Scratch hands out exclusively owned working directories under one root.
// A directory is wiped before use and removed again on release; two
// analyses asking for the same name wait for each other.
type Scratch struct {
	root  string
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewScratch creates scratch directories under root
func NewScratch(root string) *Scratch {
	return &Scratch{
		root:  root,
		locks: make(map[string]*sync.Mutex),
	}
}

// ScratchName derives a directory name from the account id and, for
// repository scans, the repository slug.
func ScratchName(accountID int64, slug string) string {
	if slug == "" {
		return fmt.Sprintf("%d", accountID)
	}
	return fmt.Sprintf("%d-%s", accountID, unsafePathChars.ReplaceAllString(slug, "_"))
}

// AccountScratchName is ScratchName for an account, falling back to its
// login when GitHub could not tell us the id.
func AccountScratchName(account models.Account, slug string) string {
	if account.ID != 0 {
		return ScratchName(account.ID, slug)
	}
	name := "login-" + unsafePathChars.ReplaceAllString(strings.ToLower(account.Login), "_")
	if slug == "" {
		return name
	}
	return name + "-" + unsafePathChars.ReplaceAllString(slug, "_")
}

// Acquire returns a fresh empty directory and a release func that removes
// it. release must be called on every path, typically with defer.
func (s *Scratch) Acquire(name string) (string, func(), error) {
	lock := s.lockFor(name)
	lock.Lock()

	dir := filepath.Join(s.root, name)
	release := func() {
		os.RemoveAll(dir)
		lock.Unlock()
	}

	if err := os.RemoveAll(dir); err != nil {
		release()
		return "", nil, fmt.Errorf("failed to clean scratch directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		release()
		return "", nil, fmt.Errorf("failed to create scratch directory %s: %w", dir, err)
	}

	return dir, release, nil
}

func (s *Scratch) lockFor(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[name] = lock
	}
	return lock
}
