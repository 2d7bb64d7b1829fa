package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/alimgiray/langscope/internal/classifier"
	"github.com/alimgiray/langscope/internal/languages"
	"github.com/alimgiray/langscope/pkg/logger"
	"github.com/sirupsen/logrus"
)

// VersionControl is the git surface language analysis relies on
type VersionControl interface {
	Clone(ctx context.Context, url, dir string) error
	InitCommit(ctx context.Context, dir, login string) error
	LogPatch(ctx context.Context, dir, author string, count, skip int) (string, error)
}

// HistoryScanner attributes every line an author added across the history
// of a working tree.
type HistoryScanner struct {
	vcs            VersionControl
	classifier     classifier.Classifier
	pageSize       int
	maxFailedPages int
}

// NewHistoryScanner creates a scanner reading pageSize commits per git log
// call, giving up after maxFailedPages consecutive failing pages.
func NewHistoryScanner(vcs VersionControl, c classifier.Classifier, pageSize, maxFailedPages int) *HistoryScanner {
	if pageSize <= 0 {
		pageSize = 10
	}
	if maxFailedPages <= 0 {
		maxFailedPages = 5
	}
	return &HistoryScanner{
		vcs:            vcs,
		classifier:     c,
		pageSize:       pageSize,
		maxFailedPages: maxFailedPages,
	}
}

// HistorySummary tells what a scan went through
type HistorySummary struct {
	Pages   []languages.Outcome[int]
	Lines   int
	Skipped int
}

// Scan classifies dir once, then walks the author's commits page by page
// into results. Only a classifier failure is returned; failing pages are
// logged and skipped.
//
// Files are classified as they are now, so lines of files since renamed or
// deleted are not attributed.
func (s *HistoryScanner) Scan(ctx context.Context, dir, author string, results *languages.Results) (*HistorySummary, error) {
	log := logger.ForLogin(author).WithField("path", dir)

	files, err := s.classifier.Classify(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to classify %s: %w", dir, err)
	}

	attributor := languages.NewAttributor(results, files)
	summary := &HistorySummary{}
	failed := 0

	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Debug("history scan cancelled")
			break
		}

		outcome, done := s.scanPage(ctx, attributor, dir, author, page)
		if done {
			log.Debug("no more commits")
			break
		}
		summary.Pages = append(summary.Pages, outcome)

		if outcome.Skipped() {
			summary.Skipped++
			failed++
			log.WithFields(logrus.Fields{"page": page}).WithError(outcome.Err).Debug("an error occurred on page, skipping")
			if failed >= s.maxFailedPages {
				log.WithField("failed_pages", failed).Warn("too many failing history pages, stopping")
				break
			}
			continue
		}

		failed = 0
		summary.Lines += outcome.Value
		log.WithFields(logrus.Fields{
			"from": page * s.pageSize,
			"to":   (page + 1) * s.pageSize,
		}).Debug("processed commits")
	}

	return summary, nil
}

// scanPage attributes one page of history. done is true once the log is
// exhausted.
func (s *HistoryScanner) scanPage(ctx context.Context, attributor *languages.Attributor, dir, author string, page int) (outcome languages.Outcome[int], done bool) {
	out, err := s.vcs.LogPatch(ctx, dir, author, s.pageSize, page*s.pageSize)
	if err != nil {
		return languages.Failed[int](err), false
	}
	if strings.TrimSpace(out) == "" {
		return languages.Outcome[int]{}, true
	}
	return languages.Succeeded(attributor.Consume(out)), false
}
