package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/alimgiray/langscope/internal/languages"
	"github.com/alimgiray/langscope/internal/models"
)

// ErrReportNotFound is returned when no report has the requested id
var ErrReportNotFound = errors.New("report not found")

// ReportRepository stores language reports and their per-language entries
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create stores a report with all its entries in one transaction
func (r *ReportRepository) Create(report *models.LanguageReport) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO language_reports (id, login, mode, total, created_at) VALUES (?, ?, ?, ?, ?)`,
		report.ID, report.Login, report.Mode, report.Results.Total, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	for language, bytes := range report.Results.Stats {
		_, err = tx.Exec(`INSERT INTO language_report_entries (report_id, language, bytes, lines) VALUES (?, ?, ?, ?)`,
			report.ID, language, bytes, report.Results.Lines[language])
		if err != nil {
			return fmt.Errorf("failed to insert entry %s: %w", language, err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a report with its entries
func (r *ReportRepository) GetByID(id string) (*models.LanguageReport, error) {
	report := &models.LanguageReport{}
	err := r.db.QueryRow(`SELECT id, login, mode, total, created_at FROM language_reports WHERE id = ?`, id).Scan(
		&report.ID, &report.Login, &report.Mode, &report.Results.Total, &report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	if err := r.loadEntries(report); err != nil {
		return nil, err
	}
	return report, nil
}

// GetByLogin retrieves the most recent reports of a login, newest first
func (r *ReportRepository) GetByLogin(login string, limit int) ([]*models.LanguageReport, error) {
	rows, err := r.db.Query(`
		SELECT id, login, mode, total, created_at FROM language_reports
		WHERE login = ? ORDER BY created_at DESC LIMIT ?`, login, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*models.LanguageReport
	for rows.Next() {
		report := &models.LanguageReport{}
		if err := rows.Scan(&report.ID, &report.Login, &report.Mode, &report.Results.Total, &report.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, report := range reports {
		if err := r.loadEntries(report); err != nil {
			return nil, err
		}
	}
	return reports, nil
}

func (r *ReportRepository) loadEntries(report *models.LanguageReport) error {
	rows, err := r.db.Query(`SELECT language, bytes, lines FROM language_report_entries WHERE report_id = ?`, report.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	results := languages.Results{
		Total: report.Results.Total,
		Lines: map[string]int{},
		Stats: map[string]int{},
	}
	for rows.Next() {
		var language string
		var bytes, lines int
		if err := rows.Scan(&language, &bytes, &lines); err != nil {
			return err
		}
		results.Stats[language] = bytes
		results.Lines[language] = lines
	}
	report.Results = results
	return rows.Err()
}

// Delete deletes a report and its entries
func (r *ReportRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM language_reports WHERE id = ?`, id)
	return err
}
