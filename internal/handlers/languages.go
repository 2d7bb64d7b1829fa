package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/alimgiray/langscope/internal/classifier"
	"github.com/alimgiray/langscope/internal/languages"
	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/internal/services"
	"github.com/alimgiray/langscope/pkg/logger"
	"github.com/gin-gonic/gin"
)

// LanguageAnalyzer runs one language analysis
type LanguageAnalyzer interface {
	Analyze(ctx context.Context, req services.AnalysisRequest) (*languages.Results, error)
}

// ReportStore persists and reads language reports
type ReportStore interface {
	SaveReport(login string, mode models.AnalysisMode, results *languages.Results) (*models.LanguageReport, error)
	GetReport(id string) (*models.LanguageReport, error)
	GetReportsByLogin(login string, limit int) ([]*models.LanguageReport, error)
}

type LanguagesHandler struct {
	analyzer LanguageAnalyzer
	reports  ReportStore
}

func NewLanguagesHandler(analyzer LanguageAnalyzer, reports ReportStore) *LanguagesHandler {
	return &LanguagesHandler{
		analyzer: analyzer,
		reports:  reports,
	}
}

// reportResponse is a stored report with its languages ranked by bytes
type reportResponse struct {
	*models.LanguageReport
	Languages []languages.Share `json:"languages"`
}

func newReportResponse(report *models.LanguageReport) reportResponse {
	return reportResponse{
		LanguageReport: report,
		Languages:      report.Results.Ranked(),
	}
}

// GetLanguages runs an analysis of the login while the client waits and
// returns the stored report
func (h *LanguagesHandler) GetLanguages(c *gin.Context) {
	login := strings.TrimSpace(c.Param("login"))

	mode, err := models.ParseAnalysisMode(c.DefaultQuery("mode", string(models.AnalysisModeRecent)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	account, err := models.ParseAccountKind(c.Query("account"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.analyzer.Analyze(c.Request.Context(), services.AnalysisRequest{
		Login:   login,
		Mode:    mode,
		Account: account,
		Skipped: splitList(c.Query("skip")),
	})
	if err != nil {
		logger.ForLogin(login).WithError(err).Warn("language analysis failed")
		c.JSON(analysisErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	report, err := h.reports.SaveReport(login, mode, results)
	if err != nil {
		logger.ForLogin(login).WithError(err).Error("failed to save report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save report"})
		return
	}

	c.JSON(http.StatusOK, newReportResponse(report))
}

// analysisErrorStatus maps analysis failures to HTTP statuses. Anything
// not recognized is an upstream GitHub failure.
func analysisErrorStatus(err error) int {
	switch {
	case errors.Is(err, classifier.ErrClassifierUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrUnknownMode), errors.Is(err, services.ErrLoginRequired):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// splitList splits a comma separated query value, dropping blanks
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
