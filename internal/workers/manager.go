package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/alimgiray/langscope/pkg/logger"
)

// WorkerManager manages the language workers
type WorkerManager struct {
	workers  []Worker
	jobs     JobQueue
	analyzer Analyzer
	reports  ReportStore
	count    int
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWorkerManager creates a new worker manager running count workers
func NewWorkerManager(jobs JobQueue, analyzer Analyzer, reports ReportStore, count int) *WorkerManager {
	if count <= 0 {
		count = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerManager{
		workers:  make([]Worker, 0, count),
		jobs:     jobs,
		analyzer: analyzer,
		reports:  reports,
		count:    count,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// StartAll requeues jobs interrupted by a previous shutdown and starts the
// workers
func (wm *WorkerManager) StartAll() error {
	reset, err := wm.jobs.ResetInProgress()
	if err != nil {
		return fmt.Errorf("failed to requeue interrupted jobs: %w", err)
	}
	if reset > 0 {
		logger.Infof("Requeued %d interrupted jobs", reset)
	}

	for i := 0; i < wm.count; i++ {
		worker := NewLanguageWorker(fmt.Sprintf("languages-%d", i+1), wm.jobs, wm.analyzer, wm.reports)
		wm.workers = append(wm.workers, worker)
		wm.startWorker(worker)
	}

	logger.Infof("Started %d language workers", len(wm.workers))
	return nil
}

// StopAll gracefully stops all workers
func (wm *WorkerManager) StopAll() error {
	logger.Info("Stopping all workers...")

	// Cancel the context to signal all workers to stop
	wm.cancel()

	for _, worker := range wm.workers {
		if err := worker.Stop(); err != nil {
			logger.Errorf("Error stopping worker %s: %v", worker.GetWorkerID(), err)
		}
	}

	wm.wg.Wait()

	logger.Info("All workers stopped")
	return nil
}

// startWorker starts a single worker in a goroutine
func (wm *WorkerManager) startWorker(worker Worker) {
	wm.wg.Add(1)
	go func() {
		defer wm.wg.Done()
		if err := worker.Start(wm.ctx); err != nil && err != context.Canceled {
			logger.Errorf("Worker %s stopped with error: %v", worker.GetWorkerID(), err)
		}
	}()
}

// GetWorkerStatus returns the status of all workers
func (wm *WorkerManager) GetWorkerStatus() map[string]bool {
	status := make(map[string]bool, len(wm.workers))
	for _, worker := range wm.workers {
		status[worker.GetWorkerID()] = worker.IsRunning()
	}
	return status
}
