package workers

import (
	"context"
	"time"

	"github.com/alimgiray/langscope/internal/languages"
	"github.com/alimgiray/langscope/internal/models"
	"github.com/alimgiray/langscope/internal/services"
	"github.com/alimgiray/langscope/pkg/logger"
	"github.com/sirupsen/logrus"
)

// JobQueue is where workers claim analysis jobs and record their outcome
type JobQueue interface {
	GetNextPendingJob(workerID string) (*models.Job, error)
	Update(job *models.Job) error
	ResetInProgress() (int64, error)
}

// Analyzer runs one language analysis
type Analyzer interface {
	Analyze(ctx context.Context, req services.AnalysisRequest) (*languages.Results, error)
}

// ReportStore persists finished analyses
type ReportStore interface {
	SaveReport(login string, mode models.AnalysisMode, results *languages.Results) (*models.LanguageReport, error)
}

const (
	defaultIdleInterval  = 10 * time.Second
	defaultErrorInterval = 5 * time.Second
)

// LanguageWorker handles language analysis jobs
type LanguageWorker struct {
	*BaseWorker
	jobs     JobQueue
	analyzer Analyzer
	reports  ReportStore

	idleInterval  time.Duration
	errorInterval time.Duration
}

// NewLanguageWorker creates a new language worker
func NewLanguageWorker(workerID string, jobs JobQueue, analyzer Analyzer, reports ReportStore) *LanguageWorker {
	return &LanguageWorker{
		BaseWorker:    NewBaseWorker(workerID),
		jobs:          jobs,
		analyzer:      analyzer,
		reports:       reports,
		idleInterval:  defaultIdleInterval,
		errorInterval: defaultErrorInterval,
	}
}

// Start polls for pending jobs until ctx is cancelled or the worker is stopped
func (w *LanguageWorker) Start(ctx context.Context) error {
	w.setRunning(true)
	defer w.setRunning(false)

	log := logger.WithField("worker", w.WorkerID)
	log.Info("language worker started")

	for {
		select {
		case <-ctx.Done():
			log.Info("language worker stopping due to context cancellation")
			return ctx.Err()
		case <-w.StopChan:
			log.Info("language worker stopping")
			return nil
		default:
		}

		job, err := w.jobs.GetNextPendingJob(w.WorkerID)
		if err != nil {
			log.WithError(err).Error("error getting job")
			w.wait(ctx, w.errorInterval)
			continue
		}

		if job == nil {
			w.wait(ctx, w.idleInterval)
			continue
		}

		w.processJob(ctx, job)
	}
}

// processJob runs the analysis of a claimed job and stores its report
func (w *LanguageWorker) processJob(ctx context.Context, job *models.Job) {
	log := logger.WithFields(logrus.Fields{
		"worker": w.WorkerID,
		"job":    job.ID,
		"login":  job.Login,
		"mode":   job.Mode,
	})
	log.Info("processing job")

	results, err := w.analyzer.Analyze(ctx, services.AnalysisRequest{
		Login:   job.Login,
		Mode:    job.Mode,
		Account: job.Account,
		Skipped: job.Skipped,
	})
	if err != nil {
		w.fail(job, err)
		return
	}

	report, err := w.reports.SaveReport(job.Login, job.Mode, results)
	if err != nil {
		w.fail(job, err)
		return
	}

	job.MarkCompleted(report.ID)
	if err := w.jobs.Update(job); err != nil {
		log.WithError(err).Error("error completing job")
		return
	}

	log.WithFields(logrus.Fields{"report": report.ID, "total": results.Total}).Info("completed job")
}

func (w *LanguageWorker) fail(job *models.Job, cause error) {
	log := logger.WithFields(logrus.Fields{"worker": w.WorkerID, "job": job.ID}).WithError(cause)
	log.Warn("job failed")

	job.MarkFailed(cause.Error())
	if err := w.jobs.Update(job); err != nil {
		log.WithError(err).Error("error marking job failed")
	}
}
