package models

import (
	"fmt"
	"strings"
	"time"
)

// Repository is a GitHub repository considered for an indepth analysis
type Repository struct {
	Owner    string `json:"owner"`
	Name     string `json:"name"`
	CloneURL string `json:"clone_url"`
	Fork     bool   `json:"fork"`
}

// Slug returns owner/name
func (r Repository) Slug() string {
	return r.Owner + "/" + r.Name
}

// ParseRepository reads an owner/name slug
func ParseRepository(slug string) (Repository, error) {
	owner, name, found := strings.Cut(strings.TrimSpace(slug), "/")
	if !found || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, fmt.Errorf("invalid repository name format: %s", slug)
	}
	return Repository{Owner: owner, Name: name}, nil
}

// PushEvent is the part of a GitHub push event used for recent languages
type PushEvent struct {
	Repo      string      `json:"repo"`
	Actor     string      `json:"actor"`
	CreatedAt time.Time   `json:"created_at"`
	Commits   []CommitRef `json:"commits"`
}

// CommitRef points at one pushed commit
type CommitRef struct {
	SHA string `json:"sha"`
	URL string `json:"url"`
}

// PatchFile is one file of a commit with its unified patch
type PatchFile struct {
	Name  string `json:"name"`
	Patch string `json:"patch"`
}
