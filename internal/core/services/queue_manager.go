package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/montoya-e/laked/internal/core/domain"
	logger "github.com/montoya-e/laked/internal/core/services/log"
	"go.uber.org/zap"
)

var ErrAlreadyInQueue = fmt.Errorf("job is already queued or running")
var ErrJobNotFound = fmt.Errorf("job not found")

// QueueManager serializes pipeline jobs through a single worker so
// ingest and load never race each other on the stores.
type QueueManager struct {
	mu           sync.Mutex
	jobs         map[string]func(ctx context.Context) error
	items        []*domain.QueueItem
	taskChan     chan *domain.QueueItem
	shutdownChan chan struct{}
	doneChan     chan struct{}
}

func NewQueueManager() *QueueManager {
	return &QueueManager{
		jobs:         make(map[string]func(ctx context.Context) error),
		items:        make([]*domain.QueueItem, 0),
		taskChan:     make(chan *domain.QueueItem, 16),
		shutdownChan: make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

func (qm *QueueManager) RegisterJob(name string, runner func(ctx context.Context) error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()
	qm.jobs[name] = runner
}

func (qm *QueueManager) AddItem(job string) error {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if _, ok := qm.jobs[job]; !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, job)
	}

	for _, item := range qm.items {
		if item.Job == job && (item.Status == domain.JobStatusWaiting || item.Status == domain.JobStatusRunning) {
			return fmt.Errorf("%w: %s", ErrAlreadyInQueue, job)
		}
	}

	item := &domain.QueueItem{
		Job:        job,
		Status:     domain.JobStatusWaiting,
		EnqueuedAt: time.Now(),
	}
	qm.items = append(qm.items, item)

	select {
	case qm.taskChan <- item:
	default:
		return fmt.Errorf("job queue is full")
	}

	logger.Log().Debug("Job enqueued", zap.String("job", job))
	return nil
}

func (qm *QueueManager) Items() []*domain.QueueItem {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	items := make([]*domain.QueueItem, len(qm.items))
	copy(items, qm.items)
	return items
}

// Work runs queued jobs until Shutdown is called or the context ends.
func (qm *QueueManager) Work(ctx context.Context) {
	defer close(qm.doneChan)

	for {
		select {
		case <-qm.shutdownChan:
			return
		case <-ctx.Done():
			return
		case item := <-qm.taskChan:
			qm.workItem(ctx, item)
		}
	}
}

func (qm *QueueManager) workItem(ctx context.Context, item *domain.QueueItem) {
	qm.mu.Lock()
	runner := qm.jobs[item.Job]
	now := time.Now()
	item.Status = domain.JobStatusRunning
	item.StartedAt = &now
	qm.mu.Unlock()

	logger.Log().Info("Running job", zap.String("job", item.Job))
	err := runner(ctx)

	qm.mu.Lock()
	defer qm.mu.Unlock()
	finished := time.Now()
	item.FinishedAt = &finished
	if err != nil {
		item.Status = domain.JobStatusError
		item.Error = err.Error()
		logger.Log().Error("Job failed", zap.String("job", item.Job), zap.Error(err))
		return
	}
	item.Status = domain.JobStatusDone
	logger.Log().Info("Job finished", zap.String("job", item.Job), zap.Duration("took", finished.Sub(now)))
}

// Shutdown stops the worker after the job in flight completes.
func (qm *QueueManager) Shutdown() {
	close(qm.shutdownChan)
	<-qm.doneChan
}
