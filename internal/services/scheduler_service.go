package services

import (
	"context"
	"time"

	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/pkg/logger"
)

// JobQueuer creates analysis jobs and lists those of a login
type JobQueuer interface {
	CreateJob(login string, mode models.AnalysisMode, account models.AccountKind, skipped []string) (*models.Job, error)
	GetJobsByLogin(login string, limit int) ([]*models.Job, error)
}

// SchedulerService queues an analysis of every scheduled login at a fixed
// interval so their reports stay fresh
type SchedulerService struct {
	jobs     JobQueuer
	logins   []string
	mode     models.AnalysisMode
	interval time.Duration
}

func NewSchedulerService(jobs JobQueuer, logins []string, mode models.AnalysisMode, interval time.Duration) *SchedulerService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &SchedulerService{
		jobs:     jobs,
		logins:   logins,
		mode:     mode,
		interval: interval,
	}
}

// StartScheduler starts the scheduler loop, which runs until ctx is done.
// Nothing is started without scheduled logins.
func (s *SchedulerService) StartScheduler(ctx context.Context) {
	if len(s.logins) == 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			s.ScheduleAll()

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// ScheduleAll queues one analysis per scheduled login. A login whose
// previous job has not finished yet is left alone.
func (s *SchedulerService) ScheduleAll() int {
	queued := 0
	for _, login := range s.logins {
		log := logger.ForLogin(login)

		jobs, err := s.jobs.GetJobsByLogin(login, 1)
		if err != nil {
			log.WithError(err).Error("error getting jobs of scheduled login")
			continue
		}
		if len(jobs) > 0 && !jobs[0].IsFinished() {
			log.WithField("job", jobs[0].ID).Debug("previous analysis still running, not scheduling")
			continue
		}

		job, err := s.jobs.CreateJob(login, s.mode, "", nil)
		if err != nil {
			log.WithError(err).Error("error scheduling analysis")
			continue
		}
		log.WithField("job", job.ID).Info("scheduled analysis")
		queued++
	}
	return queued
}
