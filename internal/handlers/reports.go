package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alimgiray/langscope/internal/export"
	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/internal/repositories"
	"github.com/alimgiray/langscope/pkg/logger"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportsHandler struct {
	reports ReportStore
}

func NewReportsHandler(reports ReportStore) *ReportsHandler {
	return &ReportsHandler{
		reports: reports,
	}
}

// ListReports returns the latest reports of a login, newest first
func (h *ReportsHandler) ListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	reports, err := h.reports.GetReportsByLogin(c.Param("login"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load reports"})
		return
	}

	response := make([]reportResponse, 0, len(reports))
	for _, report := range reports {
		response = append(response, newReportResponse(report))
	}
	c.JSON(http.StatusOK, response)
}

// GetReport returns one report
func (h *ReportsHandler) GetReport(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newReportResponse(report))
}

// ExportReport downloads a report as an XLSX workbook
func (h *ReportsHandler) ExportReport(c *gin.Context) {
	report, ok := h.loadReport(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReport(&buf, report); err != nil {
		logger.WithField("report", report.ID).WithError(err).Error("failed to export report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export report"})
		return
	}

	filename := fmt.Sprintf("%s-%s-%s.xlsx", report.Login, report.Mode, report.CreatedAt.Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ReportsHandler) loadReport(c *gin.Context) (*models.LanguageReport, bool) {
	report, err := h.reports.GetReport(c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
		return nil, false
	}
	return report, true
}
