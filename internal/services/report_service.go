package services

import (
	"errors"
	"strings"

	"github.com/alimgiray/langscope/internal/languages"
	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/internal/repositories"
)

// ReportService stores and reads language reports
type ReportService struct {
	reportRepo *repositories.ReportRepository
}

func NewReportService(reportRepo *repositories.ReportRepository) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
	}
}

// SaveReport stores the results of an analysis
func (s *ReportService) SaveReport(login string, mode models.AnalysisMode, results *languages.Results) (*models.LanguageReport, error) {
	if login == "" {
		return nil, ErrLoginRequired
	}

	report := models.NewLanguageReport(strings.ToLower(login), mode, results)
	if err := s.reportRepo.Create(report); err != nil {
		return nil, err
	}
	return report, nil
}

// GetReport retrieves a report by ID
func (s *ReportService) GetReport(id string) (*models.LanguageReport, error) {
	if id == "" {
		return nil, errors.New("report ID is required")
	}
	return s.reportRepo.GetByID(id)
}

// GetReportsByLogin lists the latest reports of a login
func (s *ReportService) GetReportsByLogin(login string, limit int) ([]*models.LanguageReport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reportRepo.GetByLogin(strings.ToLower(login), limit)
}
