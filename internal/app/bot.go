package app

import (
	"botrouter/internal/config"
	"botrouter/internal/domain/types"
	"botrouter/internal/handlers"
	"botrouter/internal/health"
	"botrouter/internal/metrics"
	"botrouter/internal/middleware"
	"botrouter/internal/model"
	"botrouter/internal/scheduler"
	"botrouter/internal/worker"
	"botrouter/pkg/composer"
	"botrouter/pkg/router"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// shutdownTimeout ограничивает graceful shutdown
const shutdownTimeout = 30 * time.Second

// BotAPI клиент Telegram, нужный боту. *tgbotapi.BotAPI реализует его.
type BotAPI interface {
	composer.Sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot связывает long polling, пул воркеров и цепочку обработки
type Bot struct {
	config     *config.Config
	logger     *zap.Logger
	api        BotAPI
	pipeline   *Pipeline
	handlers   *handlers.Handlers
	middleware *middleware.Middleware
	metrics    *metrics.Metrics
	pool       *worker.Pool
	scheduler  *scheduler.Scheduler
	health     *health.Server
	closers    []func() error

	started   atomic.Bool
	ready     atomic.Bool
	startedAt time.Time
	wg        sync.WaitGroup
}

// NewBot создает бота поверх готового клиента Telegram и хранилища заметок
func NewBot(cfg *config.Config, logger *zap.Logger, api BotAPI, notes model.NoteRepository) (*Bot, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if api == nil {
		return nil, fmt.Errorf("telegram client cannot be nil")
	}
	if notes == nil {
		return nil, fmt.Errorf("note repository cannot be nil")
	}

	mw := middleware.New(cfg)
	m := metrics.New()
	h := handlers.New(notes, cfg.AdminUsername)

	b := &Bot{
		config:     cfg,
		logger:     logger,
		api:        api,
		pipeline:   NewPipeline(h, mw, m, cfg.AdminUsername),
		handlers:   h,
		middleware: mw,
		metrics:    m,
		pool:       worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize, cfg.UpdateTimeout, logger),
		scheduler:  scheduler.New(logger),
	}
	h.SetStatsSource(b.stats)

	schedule := cfg.CleanupSchedule
	if schedule == "" {
		schedule = config.DefaultCleanupSchedule
	}
	if err := b.scheduler.AddJob("middleware_cleanup", schedule, func(ctx context.Context) {
		mw.Cleanup()
	}); err != nil {
		return nil, err
	}

	if cfg.HealthCheckEnabled {
		b.health = health.NewServer(cfg.HealthAddr(), logger, m.Registry())
		b.health.SetReadiness(b.ready.Load)
		b.health.AddChecker("worker_pool", health.CheckerFunc(b.checkQueue))
	}

	logger.Info("Bot created",
		zap.Strings("commands", b.pipeline.Commands()),
		zap.Strings("callbacks", b.pipeline.Callbacks()))
	return b, nil
}

// AddChecker регистрирует проверку зависимости в health check
func (b *Bot) AddChecker(name string, checker health.Checker) {
	if b.health != nil {
		b.health.AddChecker(name, checker)
	}
}

// OnStop регистрирует функцию, вызываемую при остановке бота
func (b *Bot) OnStop(closer func() error) {
	b.closers = append(b.closers, closer)
}

// Pipeline возвращает цепочку обработки обновлений
func (b *Bot) Pipeline() *Pipeline {
	return b.pipeline
}

// Start запускает бота и блокируется до отмены ctx
func (b *Bot) Start(ctx context.Context) error {
	if !b.started.CompareAndSwap(false, true) {
		return types.ErrBotAlreadyStarted
	}
	b.startedAt = time.Now()
	b.logger.Info("Starting bot")

	if b.health != nil {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			if err := b.health.Start(); err != nil {
				b.logger.Error("Health check server failed", zap.Error(err))
			}
		}()
	}

	if err := b.scheduler.Start(); err != nil {
		b.logger.Error("Failed to start scheduler", zap.Error(err))
	}
	b.pool.Start()

	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(handlers.BotCommands()...)); err != nil {
		b.logger.Warn("Failed to set bot commands", zap.Error(err))
	}

	err := b.poll(ctx)
	b.stop()
	return err
}

// poll получает обновления через long polling и отправляет их в пул
func (b *Bot) poll(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.config.PollTimeout
	u.AllowedUpdates = []string{string(router.KindMessage), string(router.KindCallbackQuery)}

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.ready.Store(true)
	b.logger.Info("Bot started, waiting for updates", zap.Int("poll_timeout", u.Timeout))

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Update loop cancelled by context")
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("update channel closed")
			}
			b.dispatch(update)
		}
	}
}

// dispatch ставит обновление в очередь пула
func (b *Bot) dispatch(update tgbotapi.Update) {
	c := composer.NewContext(context.Background(), update, b.api, b.logger)

	job := worker.Job{
		UpdateID: update.UpdateID,
		Kind:     string(router.UpdateKind(c)),
		UserID:   c.UserID(),
		Handler: func(ctx context.Context) error {
			return b.HandleUpdate(ctx, update)
		},
	}

	if err := b.pool.Submit(job); err != nil {
		b.logger.Warn("Update dropped",
			zap.Int("update_id", update.UpdateID),
			zap.Int("queue_size", b.pool.GetQueueSize()),
			zap.Error(err))
	}
}

// HandleUpdate синхронно прогоняет обновление через цепочку
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	return b.pipeline.Handle(composer.NewContext(ctx, update, b.api, b.logger))
}

// stop дожидается обработки принятых обновлений и освобождает ресурсы
func (b *Bot) stop() {
	b.logger.Info("Stopping bot gracefully")
	b.ready.Store(false)

	b.scheduler.Stop()
	b.pool.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if b.health != nil {
		if err := b.health.Stop(shutdownCtx); err != nil {
			b.logger.Error("Failed to stop health check server", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.wg.Wait()
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		b.logger.Warn("Graceful shutdown timeout exceeded, forcing stop")
	}

	for _, closer := range b.closers {
		if err := closer(); err != nil {
			b.logger.Error("Failed to release resource", zap.Error(err))
		}
	}

	b.logger.Info("Bot stopped successfully")
}

func (b *Bot) stats() handlers.RuntimeStats {
	pool := b.pool.GetMetrics()

	var uptime time.Duration
	if b.started.Load() {
		uptime = time.Since(b.startedAt)
	}

	return handlers.RuntimeStats{
		Uptime:        uptime,
		Commands:      b.pipeline.Commands(),
		Callbacks:     b.pipeline.Callbacks(),
		ProcessedJobs: pool.ProcessedJobs,
		FailedJobs:    pool.FailedJobs,
		QueueSize:     pool.QueueSize,
		RateLimited:   b.middleware.RateLimited(),
	}
}

// checkQueue сообщает о переполненной очереди обновлений
func (b *Bot) checkQueue(ctx context.Context) error {
	if size := b.pool.GetQueueSize(); size >= b.config.WorkerQueueSize {
		return fmt.Errorf("update queue is full (%d)", size)
	}
	return nil
}
