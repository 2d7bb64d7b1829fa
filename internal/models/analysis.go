package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/alimgiray/langscope/internal/languages"
	"github.com/google/uuid"
)

// AnalysisMode selects how languages are computed
type AnalysisMode string

const (
	// AnalysisModeIndepth clones repositories and scans their full history
	AnalysisModeIndepth AnalysisMode = "indepth"
	// AnalysisModeRecent rebuilds recent pushes into a synthetic repository
	AnalysisModeRecent AnalysisMode = "recent"
)

// ParseAnalysisMode validates a mode name
func ParseAnalysisMode(value string) (AnalysisMode, error) {
	switch mode := AnalysisMode(strings.ToLower(value)); mode {
	case AnalysisModeIndepth, AnalysisModeRecent:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown analysis mode %q", value)
	}
}

// AccountKind is the type of a GitHub account
type AccountKind string

const (
	AccountKindUser         AccountKind = "user"
	AccountKindOrganization AccountKind = "organization"
)

// ParseAccountKind maps user/organization (and GitHub's User/Organization)
// to an AccountKind. Empty means unknown.
func ParseAccountKind(value string) (AccountKind, error) {
	switch strings.ToLower(value) {
	case "":
		return "", nil
	case "user":
		return AccountKindUser, nil
	case "organization", "org":
		return AccountKindOrganization, nil
	default:
		return "", fmt.Errorf("unknown account kind %q", value)
	}
}

// Account identifies the analysed GitHub account
type Account struct {
	ID    int64       `json:"id"`
	Login string      `json:"login"`
	Kind  AccountKind `json:"kind"`
}

// IsOrganization reports whether events from any actor count
func (a Account) IsOrganization() bool {
	return a.Kind == AccountKindOrganization
}

// LanguageReport is a stored analysis result
type LanguageReport struct {
	ID        string            `json:"id"`
	Login     string            `json:"login"`
	Mode      AnalysisMode      `json:"mode"`
	Results   languages.Results `json:"results"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewLanguageReport creates a report with a generated UUID
func NewLanguageReport(login string, mode AnalysisMode, results *languages.Results) *LanguageReport {
	report := &LanguageReport{
		ID:        uuid.New().String(),
		Login:     login,
		Mode:      mode,
		CreatedAt: time.Now().UTC(),
	}
	if results != nil {
		report.Results = *results
	}
	if report.Results.Lines == nil {
		report.Results.Lines = map[string]int{}
	}
	if report.Results.Stats == nil {
		report.Results.Stats = map[string]int{}
	}
	return report
}
