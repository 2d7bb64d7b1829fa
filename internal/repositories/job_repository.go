package repositories

import (
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/alimgiray/langscope/internal/models"
)

// ErrJobNotFound is returned when no job has the requested id
var ErrJobNotFound = errors.New("job not found")

// JobRepository handles database operations for analysis jobs
type JobRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, login, mode, account, skipped, status, error_message, report_id, worker_id,
	started_at, completed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	job := &models.Job{}
	var skipped string
	err := row.Scan(
		&job.ID,
		&job.Login,
		&job.Mode,
		&job.Account,
		&skipped,
		&job.Status,
		&job.ErrorMessage,
		&job.ReportID,
		&job.WorkerID,
		&job.StartedAt,
		&job.CompletedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if skipped != "" {
		job.Skipped = strings.Split(skipped, ",")
	}
	return job, nil
}

// Create creates a new job
func (r *JobRepository) Create(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `INSERT INTO jobs (` + jobColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		job.ID,
		job.Login,
		job.Mode,
		job.Account,
		strings.Join(job.Skipped, ","),
		job.Status,
		job.ErrorMessage,
		job.ReportID,
		job.WorkerID,
		job.StartedAt,
		job.CompletedAt,
		job.CreatedAt,
		job.UpdatedAt,
	)
	return err
}

// GetByID retrieves a job by ID
func (r *JobRepository) GetByID(id string) (*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, err := scanJob(r.db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	return job, err
}

// GetByLogin retrieves the most recent jobs of a login
func (r *JobRepository) GetByLogin(login string, limit int) ([]*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.Query(`SELECT `+jobColumns+` FROM jobs WHERE login = ? ORDER BY created_at DESC LIMIT ?`, login, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// GetNextPendingJob claims the oldest pending job for workerID.
// It returns nil when nothing is pending.
func (r *JobRepository) GetNextPendingJob(workerID string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Use a transaction to ensure atomicity
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE status = ? ORDER BY created_at ASC LIMIT 1`

	job, err := scanJob(tx.QueryRow(query, models.JobStatusPending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	job.MarkStarted(workerID)
	_, err = tx.Exec(`UPDATE jobs SET status = ?, worker_id = ?, started_at = ?, updated_at = ? WHERE id = ?`,
		job.Status, job.WorkerID, job.StartedAt, job.UpdatedAt, job.ID)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return job, nil
}

// Update persists the status fields of a job
func (r *JobRepository) Update(job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job.UpdatedAt = time.Now()
	_, err := r.db.Exec(`
		UPDATE jobs SET status = ?, error_message = ?, report_id = ?, worker_id = ?,
			started_at = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		job.Status, job.ErrorMessage, job.ReportID, job.WorkerID,
		job.StartedAt, job.CompletedAt, job.UpdatedAt,
		job.ID,
	)
	return err
}

// ResetInProgress puts jobs interrupted by a shutdown back into the queue
func (r *JobRepository) ResetInProgress() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.Exec(`UPDATE jobs SET status = ?, worker_id = NULL, started_at = NULL, updated_at = ? WHERE status = ?`,
		models.JobStatusPending, time.Now(), models.JobStatusInProgress)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
