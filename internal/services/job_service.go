package services

import (
	"errors"

	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/internal/repositories"
)

// JobService handles analysis job creation and lookup
type JobService struct {
	jobRepo *repositories.JobRepository
}

// NewJobService creates a new job service
func NewJobService(jobRepo *repositories.JobRepository) *JobService {
	return &JobService{
		jobRepo: jobRepo,
	}
}

// CreateJob queues an analysis for a worker to pick up
func (s *JobService) CreateJob(login string, mode models.AnalysisMode, account models.AccountKind, skipped []string) (*models.Job, error) {
	if login == "" {
		return nil, ErrLoginRequired
	}
	if _, err := models.ParseAnalysisMode(string(mode)); err != nil {
		return nil, err
	}

	job := models.NewJob(login, mode, account, skipped)
	if err := s.jobRepo.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetJob retrieves a job by ID
func (s *JobService) GetJob(id string) (*models.Job, error) {
	if id == "" {
		return nil, errors.New("job ID is required")
	}
	return s.jobRepo.GetByID(id)
}

// GetJobsByLogin lists the latest jobs of a login, newest first
func (s *JobService) GetJobsByLogin(login string, limit int) ([]*models.Job, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.jobRepo.GetByLogin(login, limit)
}
