// Package worker реализует пул воркеров для асинхронной обработки обновлений.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Ошибки пула
var (
	ErrQueueFull   = errors.New("job queue is full")
	ErrPoolStopped = errors.New("worker pool is stopped")
)

// Job представляет задачу для обработки
type Job struct {
	UpdateID int
	Kind     string
	UserID   int64
	Handler  func(ctx context.Context) error
}

// Metrics снимок метрик пула
type Metrics struct {
	ProcessedJobs  int64
	FailedJobs     int64
	ProcessingTime time.Duration
	QueueSize      int
}

// Pool пул воркеров для обработки обновлений
type Pool struct {
	workers    int
	jobTimeout time.Duration
	jobQueue   chan Job
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	logger     *zap.Logger

	processed      atomic.Int64
	failed         atomic.Int64
	processingTime atomic.Duration

	mu      sync.RWMutex
	stopped bool
}

// NewPool создает новый пул воркеров. jobTimeout ограничивает время
// обработки одной задачи, 0 отключает ограничение.
func NewPool(workers, queueSize int, jobTimeout time.Duration, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		workers:    workers,
		jobTimeout: jobTimeout,
		jobQueue:   make(chan Job, queueSize),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}
}

// Start запускает пул воркеров
func (wp *Pool) Start() {
	wp.logger.Info("Starting worker pool",
		zap.Int("workers", wp.workers),
		zap.Int("queue_size", cap(wp.jobQueue)))

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop закрывает очередь, дожидается обработки принятых задач
// и останавливает воркеры. Повторный вызов безопасен.
func (wp *Pool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.logger.Info("Stopping worker pool")
	wp.wg.Wait()
	wp.cancel()
	wp.logger.Info("Worker pool stopped",
		zap.Int64("processed", wp.processed.Load()),
		zap.Int64("failed", wp.failed.Load()))
}

// Submit добавляет задачу в очередь без блокировки
func (wp *Pool) Submit(job Job) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.stopped {
		return ErrPoolStopped
	}

	select {
	case wp.jobQueue <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// worker основной цикл воркера
func (wp *Pool) worker(id int) {
	defer wp.wg.Done()

	wp.logger.Debug("Worker started", zap.Int("worker_id", id))

	for job := range wp.jobQueue {
		wp.processJob(job, id)
	}

	wp.logger.Debug("Worker stopping", zap.Int("worker_id", id))
}

// processJob обрабатывает задачу
func (wp *Pool) processJob(job Job, workerID int) {
	startTime := time.Now()

	ctx := wp.ctx
	if wp.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wp.jobTimeout)
		defer cancel()
	}

	err := wp.run(ctx, job)
	duration := time.Since(startTime)
	wp.processingTime.Add(duration)

	if err != nil {
		wp.failed.Inc()
		wp.logger.Error("Job processing failed",
			zap.Int("worker_id", workerID),
			zap.Int("update_id", job.UpdateID),
			zap.String("kind", job.Kind),
			zap.Int64("user_id", job.UserID),
			zap.Error(err))
		return
	}

	wp.processed.Inc()
	wp.logger.Debug("Job processed successfully",
		zap.Int("worker_id", workerID),
		zap.Int("update_id", job.UpdateID),
		zap.Duration("duration", duration))
}

// run выполняет обработчик и не дает панике остановить воркер
func (wp *Pool) run(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error("Job panicked",
				zap.Int("update_id", job.UpdateID),
				zap.Any("panic", r),
				zap.Stack("stack"))
			err = errors.New("job panicked")
		}
	}()

	if job.Handler == nil {
		return nil
	}
	return job.Handler(ctx)
}

// GetMetrics возвращает текущие метрики
func (wp *Pool) GetMetrics() Metrics {
	return Metrics{
		ProcessedJobs:  wp.processed.Load(),
		FailedJobs:     wp.failed.Load(),
		ProcessingTime: wp.processingTime.Load(),
		QueueSize:      len(wp.jobQueue),
	}
}

// GetQueueSize возвращает текущий размер очереди
func (wp *Pool) GetQueueSize() int {
	return len(wp.jobQueue)
}
