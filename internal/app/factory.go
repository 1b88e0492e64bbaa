package app

import (
	"botrouter/internal/config"
	"botrouter/internal/model"
	"botrouter/internal/storage"
	"botrouter/internal/storage/repository"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// NewBotFromConfig создает клиент Telegram и хранилище по конфигурации
// и собирает из них бота
func NewBotFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Bot, error) {
	if err := tgbotapi.SetLogger(zap.NewStdLog(logger.Named("telegram"))); err != nil {
		logger.Warn("Failed to set telegram logger", zap.Error(err))
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = cfg.Debug
	logger.Info("Telegram bot created", zap.String("username", api.Self.UserName))

	notes, db, err := newNoteRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	bot, err := NewBot(cfg, logger, api, notes)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, err
	}

	if db != nil {
		bot.AddChecker("database", db)
		bot.OnStop(db.Close)
	}
	return bot, nil
}

// newNoteRepository выбирает PostgreSQL, если задан DB_DSN, иначе память
func newNoteRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (model.NoteRepository, *storage.Postgres, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DB_DSN is not set, notes are kept in memory")
		return repository.NewMemoryNoteRepository(), nil, nil
	}

	db, err := storage.NewPostgres(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return db.GetNoteRepository(), db, nil
}
