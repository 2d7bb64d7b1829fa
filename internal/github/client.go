// Package github reads accounts, repositories, push events and commit
// patches from the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/pkg/logger"
	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v57/github"
	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"
)

// Client wraps go-github with the calls language analysis needs
type Client struct {
	gh *gh.Client
}

// NewClient creates a client with the following transport stack:
//  1. oauth2 static token (skipped when token is empty)
//  2. httpcache (ETag-based conditional request caching)
//  3. go-github-ratelimit (sleeps on secondary rate limits)
func NewClient(token string) *Client {
	var base http.RoundTripper = http.DefaultTransport
	if token != "" {
		base = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   base,
		}
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = base
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	return &Client{gh: gh.NewClient(rateLimitClient)}
}

// NewClientWithHTTPClient creates a Client talking to baseURL, for tests
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) (*Client, error) {
	client := gh.NewClient(httpClient)

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{gh: client}, nil
}

// GetAccount resolves login to its numeric id and account kind
func (c *Client) GetAccount(ctx context.Context, login string) (*models.Account, error) {
	user, _, err := c.gh.Users.Get(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", login, err)
	}

	kind := models.AccountKindUser
	if strings.EqualFold(user.GetType(), "Organization") {
		kind = models.AccountKindOrganization
	}

	return &models.Account{
		ID:    user.GetID(),
		Login: user.GetLogin(),
		Kind:  kind,
	}, nil
}

// ListRepositories returns the repositories owned by an account
func (c *Client) ListRepositories(ctx context.Context, account models.Account) ([]models.Repository, error) {
	var all []*gh.Repository

	if account.IsOrganization() {
		opts := &gh.RepositoryListByOrgOptions{
			Type:        "all",
			ListOptions: gh.ListOptions{PerPage: 100},
		}
		for {
			repos, resp, err := c.gh.Repositories.ListByOrg(ctx, account.Login, opts)
			if err != nil {
				return nil, fmt.Errorf("failed to list repositories of %s: %w", account.Login, err)
			}
			all = append(all, repos...)
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
	} else {
		opts := &gh.RepositoryListOptions{
			Type:        "owner",
			Sort:        "updated",
			Direction:   "desc",
			ListOptions: gh.ListOptions{PerPage: 100},
		}
		for {
			repos, resp, err := c.gh.Repositories.List(ctx, account.Login, opts)
			if err != nil {
				return nil, fmt.Errorf("failed to list repositories of %s: %w", account.Login, err)
			}
			all = append(all, repos...)
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
	}

	repositories := make([]models.Repository, 0, len(all))
	for _, repo := range all {
		repositories = append(repositories, models.Repository{
			Owner:    repo.GetOwner().GetLogin(),
			Name:     repo.GetName(),
			CloneURL: repo.GetCloneURL(),
			Fork:     repo.GetFork(),
		})
	}
	return repositories, nil
}

// ListPushEvents returns the push events on one page of the events a user
// performed, and whether another page exists.
func (c *Client) ListPushEvents(ctx context.Context, login string, page, perPage int) ([]models.PushEvent, bool, error) {
	events, resp, err := c.gh.Activity.ListEventsPerformedByUser(ctx, login, false, &gh.ListOptions{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to list events of %s (page %d): %w", login, page, err)
	}

	var pushes []models.PushEvent
	for _, event := range events {
		if event.GetType() != "PushEvent" {
			continue
		}

		payload, err := event.ParsePayload()
		if err != nil {
			logger.ForLogin(login).WithError(err).Debug("skipping unreadable push event")
			continue
		}
		push, ok := payload.(*gh.PushEvent)
		if !ok {
			continue
		}

		pushEvent := models.PushEvent{
			Repo:      event.GetRepo().GetName(),
			Actor:     event.GetActor().GetLogin(),
			CreatedAt: event.GetCreatedAt().Time,
		}
		for _, commit := range push.Commits {
			pushEvent.Commits = append(pushEvent.Commits, models.CommitRef{
				SHA: commit.GetSHA(),
				URL: commit.GetURL(),
			})
		}
		pushes = append(pushes, pushEvent)
	}

	return pushes, resp.NextPage != 0, nil
}

// CommitFiles returns the files and patches of one commit of repo (owner/name)
func (c *Client) CommitFiles(ctx context.Context, repo, sha string) ([]models.PatchFile, error) {
	repository, err := models.ParseRepository(repo)
	if err != nil {
		return nil, err
	}

	commit, _, err := c.gh.Repositories.GetCommit(ctx, repository.Owner, repository.Name, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get commit %s@%s: %w", repo, sha, err)
	}

	files := make([]models.PatchFile, 0, len(commit.Files))
	for _, file := range commit.Files {
		files = append(files, models.PatchFile{
			Name:  file.GetFilename(),
			Patch: file.GetPatch(),
		})
	}
	return files, nil
}
