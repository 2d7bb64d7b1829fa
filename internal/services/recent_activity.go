package services

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/alimgiray/langscope/internal/languages"
	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/pkg/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// EventFeed is the paged source of push events and commit patches
type EventFeed interface {
	ListPushEvents(ctx context.Context, login string, page, perPage int) ([]models.PushEvent, bool, error)
	CommitFiles(ctx context.Context, repo, sha string) ([]models.PatchFile, error)
}

// RecentActivityOptions bounds what a recent activity scan looks at
type RecentActivityOptions struct {
	Days             int
	Pages            int
	PerPage          int
	FetchConcurrency int
}

// RecentActivityScanner rebuilds the lines a user pushed lately into a
// one-commit repository and runs the history scan over it.
type RecentActivityScanner struct {
	feed    EventFeed
	vcs     VersionControl
	history *HistoryScanner
	scratch *Scratch
	opts    RecentActivityOptions
	now     func() time.Time
}

// NewRecentActivityScanner creates a recent activity scanner
func NewRecentActivityScanner(feed EventFeed, vcs VersionControl, history *HistoryScanner, scratch *Scratch, opts RecentActivityOptions) *RecentActivityScanner {
	if opts.Days <= 0 {
		opts.Days = 14
	}
	if opts.Pages <= 0 {
		opts.Pages = 3
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 100
	}
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = 8
	}
	return &RecentActivityScanner{
		feed:    feed,
		vcs:     vcs,
		history: history,
		scratch: scratch,
		opts:    opts,
		now:     time.Now,
	}
}

// Scan attributes the recent pushes of account into results. Failures are
// logged and whatever was attributed so far is kept.
func (s *RecentActivityScanner) Scan(ctx context.Context, account models.Account, skipped languages.SkipList, results *languages.Results) {
	log := logger.ForLogin(account.Login)

	events := s.collectEvents(ctx, account, skipped)
	log.WithField("events", len(events)).Debug("push events loaded")

	patches := s.fetchPatches(ctx, events)
	if len(patches) == 0 {
		log.Debug("no patches to analyze")
		return
	}

	if err := s.analyze(ctx, account, patches, results); err != nil {
		log.WithError(err).Debug("an error occurred while processing recently used languages")
	}
}

// collectEvents reads up to opts.Pages pages of events and keeps recent
// pushes by the account that are not skipped. Running out of pages, or an
// error from the feed, ends paging without failing the scan.
func (s *RecentActivityScanner) collectEvents(ctx context.Context, account models.Account, skipped languages.SkipList) []models.PushEvent {
	log := logger.ForLogin(account.Login)
	since := s.now().Add(-time.Duration(s.opts.Days) * 24 * time.Hour)

	var kept []models.PushEvent
	for page := 1; page <= s.opts.Pages; page++ {
		log.WithField("page", page).Debug("loading events page")

		events, next, err := s.feed.ListPushEvents(ctx, account.Login, page, s.opts.PerPage)
		if err != nil {
			log.WithError(err).Debug("no more page to load")
			break
		}

		for _, event := range events {
			if !account.IsOrganization() && event.Actor != account.Login {
				continue
			}
			if skipped.MatchesSlug(event.Repo) {
				continue
			}
			if !event.CreatedAt.After(since) {
				continue
			}
			kept = append(kept, event)
		}

		if !next {
			log.Debug("no more page to load")
			break
		}
	}
	return kept
}

type commitTask struct {
	repo string
	sha  string
}

// fetchPatches loads the files of every pushed commit concurrently. A failed
// fetch is dropped without affecting the others.
func (s *RecentActivityScanner) fetchPatches(ctx context.Context, events []models.PushEvent) []models.PatchFile {
	var tasks []commitTask
	for _, event := range events {
		for _, commit := range event.Commits {
			tasks = append(tasks, commitTask{repo: event.Repo, sha: commit.SHA})
		}
	}

	outcomes := make([]languages.Outcome[[]models.PatchFile], len(tasks))

	var g errgroup.Group
	g.SetLimit(s.opts.FetchConcurrency)
	for i, task := range tasks {
		g.Go(func() error {
			files, err := s.feed.CommitFiles(ctx, task.repo, task.sha)
			if err != nil {
				outcomes[i] = languages.Failed[[]models.PatchFile](err)
				logger.WithFields(logrus.Fields{"repository": task.repo, "sha": task.sha}).WithError(err).Debug("failed to load commit")
				return nil
			}
			outcomes[i] = languages.Succeeded(files)
			return nil
		})
	}
	g.Wait()

	var patches []models.PatchFile
	for _, files := range languages.Successes(outcomes) {
		for _, file := range files {
			patches = append(patches, models.PatchFile{
				Name:  path.Base(file.Name),
				Patch: languages.AddedContent(file.Patch),
			})
		}
	}
	return patches
}

// analyze writes patches into a scratch repository with a single commit and
// runs the history scan over it.
func (s *RecentActivityScanner) analyze(ctx context.Context, account models.Account, patches []models.PatchFile, results *languages.Results) error {
	dir, release, err := s.scratch.Acquire(AccountScratchName(account, ""))
	if err != nil {
		return err
	}
	defer func() {
		logger.ForLogin(account.Login).WithField("path", dir).Debug("cleaning temp dir")
		release()
	}()

	logger.ForLogin(account.Login).WithFields(logrus.Fields{"path": dir, "files": len(patches)}).Debug("creating temp dir")

	for i, patch := range patches {
		name := strconv.Itoa(i) + filepath.Ext(patch.Name)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(patch.Patch), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := s.vcs.InitCommit(ctx, dir, account.Login); err != nil {
		return err
	}

	_, err = s.history.Scan(ctx, dir, account.Login, results)
	return err
}
