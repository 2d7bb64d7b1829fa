package services

import (
	"path/filepath"

	"github.com/alimgiray/langscope/internal/classifier"
	"github.com/alimgiray/langscope/internal/git"
	"github.com/alimgiray/langscope/internal/github"
	"github.com/alimgiray/langscope/pkg/config"
)

// NewLanguageServiceFromConfig wires the GitHub client, git and the
// configured classifier into a LanguageService
func NewLanguageServiceFromConfig(cfg *config.Config) (*LanguageService, error) {
	c, err := classifier.New(cfg.Analysis.Classifier)
	if err != nil {
		return nil, err
	}

	client := github.NewClient(cfg.GitHub.Token)
	vcs := git.New(cfg.GitHub.Token)
	scratch := NewScratch(filepath.Join(cfg.Analysis.ScratchDir, "langscope"))

	history := NewHistoryScanner(vcs, c, cfg.Analysis.HistoryPageSize, cfg.Analysis.HistoryMaxFailedPages)
	recent := NewRecentActivityScanner(client, vcs, history, scratch, RecentActivityOptions{
		Days:             cfg.Analysis.RecentDays,
		Pages:            cfg.Analysis.RecentPages,
		PerPage:          cfg.Analysis.RecentPerPage,
		FetchConcurrency: cfg.Analysis.RecentFetchConcurrency,
	})

	return NewLanguageService(client, c, vcs, history, recent, scratch, cfg.Analysis.Skipped), nil
}
