package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in-progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job is a queued language analysis for one account
type Job struct {
	ID           string       `json:"id"`
	Login        string       `json:"login"`
	Mode         AnalysisMode `json:"mode"`
	Account      AccountKind  `json:"account"`
	Skipped      []string     `json:"skipped"`
	Status       JobStatus    `json:"status"`
	ErrorMessage *string      `json:"error_message"`
	ReportID     *string      `json:"report_id"`
	WorkerID     *string      `json:"worker_id"`
	StartedAt    *time.Time   `json:"started_at"`
	CompletedAt  *time.Time   `json:"completed_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewJob creates a new pending Job with a generated UUID
func NewJob(login string, mode AnalysisMode, account AccountKind, skipped []string) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.New().String(),
		Login:     login,
		Mode:      mode,
		Account:   account,
		Skipped:   skipped,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsPending checks if the job is pending
func (j *Job) IsPending() bool {
	return j.Status == JobStatusPending
}

// IsFinished checks if the job completed or failed
func (j *Job) IsFinished() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// MarkStarted marks the job as started by a worker
func (j *Job) MarkStarted(workerID string) {
	now := time.Now()
	j.Status = JobStatusInProgress
	j.WorkerID = &workerID
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkCompleted marks the job as completed with its report
func (j *Job) MarkCompleted(reportID string) {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.ReportID = &reportID
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkFailed marks the job as failed
func (j *Job) MarkFailed(message string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.ErrorMessage = &message
	j.CompletedAt = &now
	j.UpdatedAt = now
}
