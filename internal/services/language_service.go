package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/alimgiray/langscope/internal/classifier"
	"github.com/alimgiray/langscope/internal/languages"
	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/pkg/logger"
)

var (
	// ErrUnknownMode is returned for an analysis mode that does not exist
	ErrUnknownMode = errors.New("unknown analysis mode")
	// ErrLoginRequired is returned for a request without a login
	ErrLoginRequired = errors.New("login is required")
)

// AccountDirectory resolves accounts and their repositories
type AccountDirectory interface {
	GetAccount(ctx context.Context, login string) (*models.Account, error)
	ListRepositories(ctx context.Context, account models.Account) ([]models.Repository, error)
}

// AnalysisRequest describes one top-level language analysis
type AnalysisRequest struct {
	Login string
	Mode  models.AnalysisMode
	// Account overrides the kind GitHub reports for Login when set
	Account models.AccountKind
	// Skipped repositories, by name or owner/name
	Skipped []string
	// Repositories to scan in indepth mode; the account's own
	// repositories, forks excluded, when empty
	Repositories []models.Repository
}

// LanguageService runs indepth and recent language analyses
type LanguageService struct {
	directory  AccountDirectory
	classifier classifier.Classifier
	vcs        VersionControl
	history    *HistoryScanner
	recent     *RecentActivityScanner
	scratch    *Scratch
	skipped    []string
}

// NewLanguageService creates a language service. skipped applies to every
// request on top of the request's own list.
func NewLanguageService(
	directory AccountDirectory,
	c classifier.Classifier,
	vcs VersionControl,
	history *HistoryScanner,
	recent *RecentActivityScanner,
	scratch *Scratch,
	skipped []string,
) *LanguageService {
	return &LanguageService{
		directory:  directory,
		classifier: c,
		vcs:        vcs,
		history:    history,
		recent:     recent,
		scratch:    scratch,
		skipped:    skipped,
	}
}

// Analyze dispatches on req.Mode
func (s *LanguageService) Analyze(ctx context.Context, req AnalysisRequest) (*languages.Results, error) {
	switch req.Mode {
	case models.AnalysisModeIndepth:
		return s.Indepth(ctx, req)
	case models.AnalysisModeRecent:
		return s.Recent(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}
}

// Indepth clones every repository of the request in turn and attributes the
// lines the login added over their whole history. A repository that fails
// contributes nothing and the scan moves on.
func (s *LanguageService) Indepth(ctx context.Context, req AnalysisRequest) (*languages.Results, error) {
	if err := s.classifier.Available(); err != nil {
		return nil, err
	}

	account, err := s.resolveAccount(ctx, req)
	if err != nil {
		return nil, err
	}

	repositories := req.Repositories
	if len(repositories) == 0 {
		repositories, err = s.ownRepositories(ctx, *account)
		if err != nil {
			return nil, err
		}
	}

	log := logger.ForLogin(account.Login)
	skipped := s.skipList(req)
	results := languages.NewResults()

	for _, repository := range repositories {
		if skipped.Matches(repository.Owner, repository.Name) {
			log.WithField("repository", repository.Slug()).Debug("skipped repository")
			continue
		}

		outcome := s.analyzeRepository(ctx, *account, repository, results)
		if outcome.Skipped() {
			log.WithField("repository", repository.Slug()).WithError(outcome.Err).Debug("an error occurred while processing repository, skipping")
		}
	}

	return results, nil
}

// analyzeRepository clones one repository into its scratch directory and
// scans its history
func (s *LanguageService) analyzeRepository(ctx context.Context, account models.Account, repository models.Repository, results *languages.Results) languages.Outcome[*HistorySummary] {
	log := logger.ForLogin(account.Login).WithField("repository", repository.Slug())
	log.Debug("checking repository")

	dir, release, err := s.scratch.Acquire(AccountScratchName(account, repository.Slug()))
	if err != nil {
		return languages.Failed[*HistorySummary](err)
	}
	defer func() {
		log.WithField("path", dir).Debug("cleaning temp dir")
		release()
	}()

	log.WithField("path", dir).Debug("cloning repository")
	if err := s.vcs.Clone(ctx, cloneURL(repository), dir); err != nil {
		return languages.Failed[*HistorySummary](err)
	}

	summary, err := s.history.Scan(ctx, dir, account.Login, results)
	if err != nil {
		return languages.Failed[*HistorySummary](err)
	}
	return languages.Succeeded(summary)
}

// Recent attributes the lines of the login's recent pushes. After the
// classifier and login checks nothing fails the call; partial results are
// returned.
func (s *LanguageService) Recent(ctx context.Context, req AnalysisRequest) (*languages.Results, error) {
	if err := s.classifier.Available(); err != nil {
		return nil, err
	}

	account, err := s.resolveAccount(ctx, req)
	if errors.Is(err, ErrLoginRequired) {
		return nil, err
	}
	if err != nil {
		// Kind falls back to the requested one, a user when unset
		logger.ForLogin(req.Login).WithError(err).Warn("failed to resolve account, continuing with login only")
		account = &models.Account{Login: req.Login, Kind: req.Account}
	}

	results := languages.NewResults()
	s.recent.Scan(ctx, *account, s.skipList(req), results)
	return results, nil
}

func (s *LanguageService) resolveAccount(ctx context.Context, req AnalysisRequest) (*models.Account, error) {
	if req.Login == "" {
		return nil, ErrLoginRequired
	}

	account, err := s.directory.GetAccount(ctx, req.Login)
	if err != nil {
		return nil, err
	}
	if req.Account != "" {
		account.Kind = req.Account
	}
	if account.Login == "" {
		account.Login = req.Login
	}
	return account, nil
}

func (s *LanguageService) ownRepositories(ctx context.Context, account models.Account) ([]models.Repository, error) {
	all, err := s.directory.ListRepositories(ctx, account)
	if err != nil {
		return nil, err
	}

	repositories := make([]models.Repository, 0, len(all))
	for _, repository := range all {
		if !repository.Fork {
			repositories = append(repositories, repository)
		}
	}
	return repositories, nil
}

func (s *LanguageService) skipList(req AnalysisRequest) languages.SkipList {
	entries := make([]string, 0, len(s.skipped)+len(req.Skipped))
	entries = append(entries, s.skipped...)
	entries = append(entries, req.Skipped...)
	return languages.NewSkipList(entries)
}

func cloneURL(repository models.Repository) string {
	if repository.CloneURL != "" {
		return repository.CloneURL
	}
	return "https://github.com/" + repository.Slug()
}
