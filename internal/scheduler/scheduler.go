// Package scheduler содержит планировщик фоновых задач бота.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// jobTimeout ограничивает время одного запуска задачи
const jobTimeout = time.Minute

// Scheduler выполняет задачи по cron-расписанию
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	mu      sync.Mutex
	running bool
	jobs    []string
	ctx     context.Context
	cancel  context.CancelFunc
}

// New создает планировщик, расписания задаются в UTC
func New(logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob регистрирует задачу. spec в формате cron или "@every 5m".
func (s *Scheduler) AddJob(name, spec string, job func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.cron.AddFunc(spec, func() {
		s.execute(name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", name, err)
	}

	s.jobs = append(s.jobs, name)
	s.logger.Info("Added job to scheduler",
		zap.String("job", name),
		zap.String("schedule", spec))
	return nil
}

// Jobs возвращает имена задач в порядке регистрации
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]string, len(s.jobs))
	copy(jobs, s.jobs)
	return jobs
}

// Start запускает планировщик
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("Scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop останавливает планировщик и дожидается выполняющихся задач
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.cron.Stop().Done()
	s.running = false

	s.logger.Info("Scheduler stopped")
}

// execute выполняет задачу с таймаутом
func (s *Scheduler) execute(name string, job func(ctx context.Context)) {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Scheduled job panicked",
				zap.String("job", name),
				zap.Any("panic", r))
		}
	}()

	start := time.Now()
	job(ctx)
	s.logger.Debug("Scheduled job finished",
		zap.String("job", name),
		zap.Duration("duration", time.Since(start)))
}
