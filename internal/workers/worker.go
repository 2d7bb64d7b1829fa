package workers

import (
	"context"
	"sync"
	"time"
)

// Worker interface defines the contract for all workers
type Worker interface {
	// Start begins the worker process
	Start(ctx context.Context) error

	// Stop gracefully stops the worker
	Stop() error

	// GetWorkerID returns the unique identifier for this worker
	GetWorkerID() string

	// IsRunning reports whether the worker loop is active
	IsRunning() bool
}

// BaseWorker provides common functionality for all workers
type BaseWorker struct {
	WorkerID string
	StopChan chan struct{}

	mu       sync.Mutex
	running  bool
	stopOnce sync.Once
}

// NewBaseWorker creates a new base worker
func NewBaseWorker(workerID string) *BaseWorker {
	return &BaseWorker{
		WorkerID: workerID,
		StopChan: make(chan struct{}),
	}
}

// GetWorkerID returns the worker's unique identifier
func (w *BaseWorker) GetWorkerID() string {
	return w.WorkerID
}

// Stop gracefully stops the worker
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		close(w.StopChan)
	})
	w.setRunning(false)
	return nil
}

// IsRunning checks if the worker is currently running
func (w *BaseWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *BaseWorker) setRunning(running bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.running = running
}

// wait sleeps for d unless the worker is stopped first. It returns false
// when the worker should exit.
func (w *BaseWorker) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-w.StopChan:
		return false
	case <-timer.C:
		return true
	}
}
