package services

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/alimgiray/langscope/internal/classifier"
	"github.com/alimgiray/langscope/internal/git"
	"github.com/alimgiray/langscope/internal/languages"
	"github.com/alimgiray/langscope/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type serviceFixture struct {
	service    *LanguageService
	directory  *fakeDirectory
	classifier *fakeClassifier
	vcs        *fakeVCS
	feed       *fakeFeed
	root       string
}

func newServiceFixture(t *testing.T, skipped ...string) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		directory: &fakeDirectory{account: models.Account{ID: 1, Login: "octocat", Kind: models.AccountKindUser}},
		classifier: &fakeClassifier{
			files: languages.FileLanguages{"main.go": "Go"},
			byExt: map[string]string{".go": "Go", ".py": "Python"},
		},
		vcs:  newFakeVCS(),
		feed: &fakeFeed{},
		root: t.TempDir(),
	}

	scratch := NewScratch(f.root)
	history := NewHistoryScanner(f.vcs, f.classifier, 10, 5)
	recent := NewRecentActivityScanner(f.feed, f.vcs, history, scratch, RecentActivityOptions{
		Days:             14,
		Pages:            3,
		PerPage:          100,
		FetchConcurrency: 4,
	})
	recent.now = func() time.Time { return fixedNow }

	f.service = NewLanguageService(f.directory, f.classifier, f.vcs, history, recent, scratch, skipped)
	return f
}

// assertScratchEmpty checks that no scratch directory outlives an analysis
func (f *serviceFixture) assertScratchEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func repo(name string) models.Repository {
	return models.Repository{Owner: "octocat", Name: name, CloneURL: "https://github.com/octocat/" + name + ".git"}
}

func TestAnalyzeUnknownMode(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Analyze(context.Background(), AnalysisRequest{Login: "octocat", Mode: "weekly"})
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestAnalyzeRequiresClassifier(t *testing.T) {
	for _, mode := range []models.AnalysisMode{models.AnalysisModeIndepth, models.AnalysisModeRecent} {
		t.Run(string(mode), func(t *testing.T) {
			f := newServiceFixture(t)
			f.classifier.unavailable = true

			results, err := f.service.Analyze(context.Background(), AnalysisRequest{Login: "octocat", Mode: mode})
			assert.ErrorIs(t, err, classifier.ErrClassifierUnavailable)
			assert.Nil(t, results)

			// Nothing is attempted before the check
			assert.Equal(t, 0, f.directory.calls)
			assert.Empty(t, f.vcs.cloned)
			assert.Empty(t, f.feed.requested)
		})
	}
}

func TestAnalyzeAccountError(t *testing.T) {
	f := newServiceFixture(t)
	f.directory.accountErr = errors.New("not found")

	_, err := f.service.Analyze(context.Background(), AnalysisRequest{Login: "ghost", Mode: models.AnalysisModeIndepth})
	assert.Error(t, err)
}

func TestIndepthSkipsFailingRepositories(t *testing.T) {
	f := newServiceFixture(t, "dotfiles")
	f.classifier.failFor = map[string]bool{"1-octocat_broken": true}
	f.vcs.histories["1-octocat_hello"] = []string{"+++ b/main.go\n+hello\n"}
	f.vcs.histories["1-octocat_broken"] = []string{"+++ b/main.go\n+broken\n"}
	f.vcs.histories["1-octocat_world"] = []string{"+++ b/main.go\n+world!\n"}

	results, err := f.service.Analyze(context.Background(), AnalysisRequest{
		Login:        "octocat",
		Mode:         models.AnalysisModeIndepth,
		Repositories: []models.Repository{repo("hello"), repo("broken"), repo("world"), repo("dotfiles")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://github.com/octocat/hello.git",
		"https://github.com/octocat/broken.git",
		"https://github.com/octocat/world.git",
	}, f.vcs.cloned)
	assert.Equal(t, 2, results.Lines["Go"])
	assert.Equal(t, len("hello")+len("world!"), results.Stats["Go"])
	assert.Equal(t, results.Stats["Go"], results.Total)
	f.assertScratchEmpty(t)
}

func TestIndepthCloneFailureContinues(t *testing.T) {
	f := newServiceFixture(t)
	f.vcs.cloneErrs["https://github.com/octocat/hello.git"] = errors.New("clone failed")
	f.vcs.histories["1-octocat_world"] = []string{"+++ b/main.go\n+world\n"}

	results, err := f.service.Indepth(context.Background(), AnalysisRequest{
		Login:        "octocat",
		Repositories: []models.Repository{repo("hello"), repo("world")},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Go": len("world")}, results.Stats)
	f.assertScratchEmpty(t)
}

func TestIndepthOwnRepositoriesExcludeForks(t *testing.T) {
	f := newServiceFixture(t)
	fork := repo("forked")
	fork.Fork = true
	f.directory.repositories = []models.Repository{repo("hello"), fork, {Owner: "octocat", Name: "plain"}}

	_, err := f.service.Indepth(context.Background(), AnalysisRequest{Login: "octocat", Skipped: []string{"octocat/plain"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://github.com/octocat/hello.git"}, f.vcs.cloned)
}

func TestIndepthListError(t *testing.T) {
	f := newServiceFixture(t)
	f.directory.listErr = errors.New("rate limited")

	_, err := f.service.Indepth(context.Background(), AnalysisRequest{Login: "octocat"})
	assert.Error(t, err)
}

func TestCloneURLFallback(t *testing.T) {
	assert.Equal(t, "https://github.com/octocat/hello", cloneURL(models.Repository{Owner: "octocat", Name: "hello"}))
	assert.Equal(t, "git@example.com:x.git", cloneURL(models.Repository{Owner: "o", Name: "n", CloneURL: "git@example.com:x.git"}))
}

func pushEvent(repo, actor string, age time.Duration, shas ...string) models.PushEvent {
	event := models.PushEvent{Repo: repo, Actor: actor, CreatedAt: fixedNow.Add(-age)}
	for _, sha := range shas {
		event.Commits = append(event.Commits, models.CommitRef{SHA: sha})
	}
	return event
}

func TestRecentRebuildsPushedLines(t *testing.T) {
	f := newServiceFixture(t, "dotfiles")
	f.classifier.files = nil
	f.feed.pages = [][]models.PushEvent{
		{
			pushEvent("octocat/hello", "octocat", 24*time.Hour, "a"),
			pushEvent("octocat/dotfiles", "octocat", time.Hour, "s"),
			pushEvent("someone/else", "someone", time.Hour, "x"),
			pushEvent("octocat/old", "octocat", 30*24*time.Hour, "o"),
		},
		{
			pushEvent("octocat/world", "octocat", 48*time.Hour, "b", "c"),
		},
	}
	f.feed.commits = map[string][]models.PatchFile{
		"a": {{Name: "src/main.go", Patch: "@@ -0,0 +1,2 @@\n+package main\n+func main() {}"}},
		"b": {{Name: "script.py", Patch: "@@ -1 +1,2 @@\n context\n+print(1)"}},
	}
	f.feed.commitErrs = map[string]error{"c": errors.New("commit gone")}

	results, err := f.service.Analyze(context.Background(), AnalysisRequest{Login: "octocat", Mode: models.AnalysisModeRecent})
	require.NoError(t, err)

	// Feed ran out on page 2 of 3
	assert.Equal(t, []int{1, 2}, f.feed.requested)
	assert.Equal(t, []string{"octocat/hello@a", "octocat/world@b", "octocat/world@c"}, f.feed.fetched)
	assert.Equal(t, map[string]string{
		"0.go": "package main\nfunc main() {}",
		"1.py": "print(1)",
	}, f.vcs.committed)

	assert.Equal(t, map[string]int{"Go": 2, "Python": 1}, results.Lines)
	assert.Equal(t, map[string]int{
		"Go":     len("package main") + len("func main() {}"),
		"Python": len("print(1)"),
	}, results.Stats)
	f.assertScratchEmpty(t)
}

func TestRecentFeedErrorKeepsEarlierPages(t *testing.T) {
	f := newServiceFixture(t)
	f.classifier.files = nil
	f.feed.pages = [][]models.PushEvent{{pushEvent("octocat/hello", "octocat", time.Hour, "a")}}
	f.feed.pageErrs = map[int]error{2: errors.New("server error")}
	f.feed.commits = map[string][]models.PatchFile{"a": {{Name: "main.go", Patch: "+package main"}}}

	results, err := f.service.Recent(context.Background(), AnalysisRequest{Login: "octocat"})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, f.feed.requested)
	assert.Equal(t, map[string]int{"Go": len("package main")}, results.Stats)
}

func TestRecentOrganizationAcceptsAnyActor(t *testing.T) {
	f := newServiceFixture(t)
	f.classifier.files = nil
	f.directory.account = models.Account{ID: 9, Login: "acme", Kind: models.AccountKindOrganization}
	f.feed.pages = [][]models.PushEvent{{
		pushEvent("acme/api", "alice", time.Hour, "a"),
		pushEvent("acme/web", "bob", time.Hour, "b"),
	}}
	f.feed.commits = map[string][]models.PatchFile{
		"a": {{Name: "main.go", Patch: "+package api"}},
		"b": {{Name: "main.go", Patch: "+package web"}},
	}

	results, err := f.service.Recent(context.Background(), AnalysisRequest{Login: "acme"})
	require.NoError(t, err)

	assert.Equal(t, 2, results.Lines["Go"])
	assert.Equal(t, 2*len("package api"), results.Stats["Go"])
}

func TestRecentAccountOverride(t *testing.T) {
	f := newServiceFixture(t)
	f.classifier.files = nil
	f.feed.pages = [][]models.PushEvent{{pushEvent("octocat/api", "hubot", time.Hour, "a")}}
	f.feed.commits = map[string][]models.PatchFile{"a": {{Name: "main.go", Patch: "+package api"}}}

	results, err := f.service.Recent(context.Background(), AnalysisRequest{Login: "octocat", Account: models.AccountKindOrganization})
	require.NoError(t, err)

	assert.Equal(t, 1, results.Lines["Go"])
}

func TestRecentAccountLookupFailureKeepsResults(t *testing.T) {
	f := newServiceFixture(t)
	f.classifier.files = nil
	f.directory.accountErr = errors.New("GET https://api.github.com/users/octocat: 502")
	f.feed.pages = [][]models.PushEvent{{
		pushEvent("octocat/api", "octocat", time.Hour, "a"),
		pushEvent("octocat/web", "hubot", time.Hour, "b"),
	}}
	f.feed.commits = map[string][]models.PatchFile{
		"a": {{Name: "main.go", Patch: "+package api"}},
		"b": {{Name: "main.go", Patch: "+package web"}},
	}

	results, err := f.service.Recent(context.Background(), AnalysisRequest{Login: "octocat"})
	require.NoError(t, err)

	// Treated as a user, so only the login's own pushes count
	assert.Equal(t, map[string]int{"Go": 1}, results.Lines)
	assert.Equal(t, []string{"login-octocat"}, f.vcs.initialized)
	f.assertScratchEmpty(t)
}

func TestRecentRequiresLogin(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Recent(context.Background(), AnalysisRequest{})
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, 0, f.directory.calls)
}

func TestRecentNothingPushed(t *testing.T) {
	f := newServiceFixture(t)

	results, err := f.service.Recent(context.Background(), AnalysisRequest{Login: "octocat"})
	require.NoError(t, err)

	assert.True(t, results.IsEmpty())
	assert.Nil(t, f.vcs.committed)
	f.assertScratchEmpty(t)
}

func TestRecentCommitFailureKeepsPartialResults(t *testing.T) {
	f := newServiceFixture(t)
	f.classifier.files = nil
	f.vcs.initErr = errors.New("git init failed")
	f.feed.pages = [][]models.PushEvent{{pushEvent("octocat/hello", "octocat", time.Hour, "a")}}
	f.feed.commits = map[string][]models.PatchFile{"a": {{Name: "main.go", Patch: "+package main"}}}

	results, err := f.service.Recent(context.Background(), AnalysisRequest{Login: "octocat"})
	require.NoError(t, err)

	assert.True(t, results.IsEmpty())
	f.assertScratchEmpty(t)
}

func TestRecentWithGitAndEnry(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	feed := &fakeFeed{
		pages: [][]models.PushEvent{{pushEvent("octocat/hello", "octocat", time.Hour, "a")}},
		commits: map[string][]models.PatchFile{"a": {
			{Name: "cmd/main.go", Patch: "@@ -0,0 +1,2 @@\n+package main\n+func main() {}"},
			{Name: "tools/run.py", Patch: "@@ -0,0 +1 @@\n+print(1)"},
		}},
	}
	vcs := git.New("")
	enry := classifier.NewEnry()
	scratch := NewScratch(t.TempDir())
	history := NewHistoryScanner(vcs, enry, 10, 5)
	recent := NewRecentActivityScanner(feed, vcs, history, scratch, RecentActivityOptions{})
	recent.now = func() time.Time { return fixedNow }

	service := NewLanguageService(&fakeDirectory{account: models.Account{ID: 1, Login: "octocat"}}, enry, vcs, history, recent, scratch, nil)

	results, err := service.Recent(context.Background(), AnalysisRequest{Login: "octocat"})
	require.NoError(t, err)

	assert.Equal(t, 2, results.Lines["Go"])
	assert.Equal(t, len("package main")+len("func main() {}"), results.Stats["Go"])
	assert.Equal(t, len("print(1)"), results.Stats["Python"])
}

func TestHistoryScanWithGitAndEnryNonASCIIPath(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("print(1)\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "é.go"), []byte("package main\n"), 0644))

	vcs := git.New("")
	require.NoError(t, vcs.InitCommit(context.Background(), dir, "octocat"))

	results := languages.NewResults()
	_, err := NewHistoryScanner(vcs, classifier.NewEnry(), 10, 5).Scan(context.Background(), dir, "octocat", results)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"Python": 1, "Go": 1}, results.Lines)
	assert.Equal(t, len("print(1)")+len("package main"), results.Total)
}
