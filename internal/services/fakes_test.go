package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/alimgiray/langscope/internal/classifier"
	"github.com/alimgiray/langscope/internal/languages"
	"github.com/alimgiray/langscope/internal/models"
)

// fakeVCS serves canned history pages per scratch directory name and
// simulates a synthetic commit by diffing the files written to the tree.
type fakeVCS struct {
	mu        sync.Mutex
	histories map[string][]string
	pageErrs  map[string]map[int]error
	cloneErrs map[string]error
	initErr   error
	cloned    []string
	logCalls  int
	committed map[string]string
	// scratch directory names passed to InitCommit
	initialized []string
}

func newFakeVCS() *fakeVCS {
	return &fakeVCS{
		histories: map[string][]string{},
		pageErrs:  map[string]map[int]error{},
		cloneErrs: map[string]error{},
	}
}

func (f *fakeVCS) Clone(_ context.Context, url, dir string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cloned = append(f.cloned, url)
	return f.cloneErrs[url]
}

func (f *fakeVCS) InitCommit(_ context.Context, dir, login string) error {
	if f.initErr != nil {
		return f.initErr
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	f.initialized = append(f.initialized, filepath.Base(dir))
	f.committed = map[string]string{}
	var diff strings.Builder
	for _, entry := range entries {
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		f.committed[entry.Name()] = string(content)

		fmt.Fprintf(&diff, "diff --git a/%s b/%s\n--- /dev/null\n+++ b/%s\n", entry.Name(), entry.Name(), entry.Name())
		for _, line := range strings.Split(string(content), "\n") {
			diff.WriteString("+" + line + "\n")
		}
	}
	f.histories[filepath.Base(dir)] = []string{diff.String()}
	return nil
}

func (f *fakeVCS) LogPatch(_ context.Context, dir, author string, count, skip int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logCalls++

	name := filepath.Base(dir)
	page := skip / count
	if err := f.pageErrs[name][page]; err != nil {
		return "", err
	}
	pages := f.histories[name]
	if page >= len(pages) {
		return "", nil
	}
	return pages[page], nil
}

// fakeClassifier classifies files by extension, or fails for chosen trees
type fakeClassifier struct {
	unavailable bool
	byExt       map[string]string
	files       languages.FileLanguages
	failFor     map[string]bool
	calls       int
}

func (f *fakeClassifier) Name() string { return "fake" }

func (f *fakeClassifier) Available() error {
	if f.unavailable {
		return fmt.Errorf("%w: fake", classifier.ErrClassifierUnavailable)
	}
	return nil
}

func (f *fakeClassifier) Classify(_ context.Context, root string) (languages.FileLanguages, error) {
	f.calls++
	if f.failFor[filepath.Base(root)] {
		return nil, errors.New("classifier crashed")
	}
	if f.files != nil {
		return f.files, nil
	}

	files := languages.FileLanguages{}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if language, ok := f.byExt[filepath.Ext(entry.Name())]; ok {
			files[entry.Name()] = language
		}
	}
	return files, nil
}

// fakeFeed serves canned event pages and commit files
type fakeFeed struct {
	mu         sync.Mutex
	pages      [][]models.PushEvent
	pageErrs   map[int]error
	commits    map[string][]models.PatchFile
	commitErrs map[string]error
	requested  []int
	fetched    []string
}

func (f *fakeFeed) ListPushEvents(_ context.Context, login string, page, perPage int) ([]models.PushEvent, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested = append(f.requested, page)

	if err := f.pageErrs[page]; err != nil {
		return nil, false, err
	}
	if page > len(f.pages) {
		return nil, false, nil
	}
	return f.pages[page-1], page < len(f.pages) || f.pageErrs[page+1] != nil, nil
}

func (f *fakeFeed) CommitFiles(_ context.Context, repo, sha string) ([]models.PatchFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, repo+"@"+sha)
	sort.Strings(f.fetched)

	if err := f.commitErrs[sha]; err != nil {
		return nil, err
	}
	return f.commits[sha], nil
}

// fakeDirectory resolves accounts and lists canned repositories
type fakeDirectory struct {
	account      models.Account
	accountErr   error
	repositories []models.Repository
	listErr      error
	calls        int
}

func (f *fakeDirectory) GetAccount(_ context.Context, login string) (*models.Account, error) {
	f.calls++
	if f.accountErr != nil {
		return nil, f.accountErr
	}
	account := f.account
	if account.Login == "" {
		account.Login = login
	}
	return &account, nil
}

func (f *fakeDirectory) ListRepositories(_ context.Context, account models.Account) ([]models.Repository, error) {
	return f.repositories, f.listErr
}
