// Package storage содержит работу с базой данных.
package storage

import (
	"botrouter/internal/model"
	"botrouter/internal/storage/repository"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"
)

// Параметры подключения
const (
	maxRetries  = 10
	retryDelay  = 5 * time.Second
	pingTimeout = 10 * time.Second
)

// Postgres представляет подключение к PostgreSQL
type Postgres struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewPostgres создает новое подключение к PostgreSQL с retry логикой.
// Ожидание между попытками прерывается отменой ctx.
func NewPostgres(ctx context.Context, databaseURL string, logger *zap.Logger) (*Postgres, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		logger.Info("Attempting to connect to database",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", maxRetries))

		db := open(databaseURL, logger)

		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			logger.Info("Connected to PostgreSQL database with Bun ORM", zap.Int("attempt", attempt))
			return &Postgres{db: db, logger: logger}, nil
		}

		logger.Warn("Failed to connect to database",
			zap.Int("attempt", attempt),
			zap.Error(lastErr))

		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database connection", zap.Error(err))
		}

		if attempt == maxRetries {
			break
		}

		logger.Info("Retrying connection", zap.Duration("delay", retryDelay))
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("database connection cancelled: %w", ctx.Err())
		case <-time.After(retryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, lastErr)
}

func open(databaseURL string, logger *zap.Logger) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(databaseURL)))

	// Настраиваем пул соединений
	sqldb.SetMaxOpenConns(25)
	sqldb.SetMaxIdleConns(10)
	sqldb.SetConnMaxLifetime(5 * time.Minute)
	sqldb.SetConnMaxIdleTime(1 * time.Minute)

	db := bun.NewDB(sqldb, pgdialect.New())

	// Добавляем отладку в режиме разработки
	if logger.Core().Enabled(zap.DebugLevel) {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	return db
}

// Migrate создает таблицы и индексы, если их нет
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.NewCreateTable().
		Model((*model.Note)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create notes table: %w", err)
	}

	if _, err := p.db.NewCreateIndex().
		Model((*model.Note)(nil)).
		Index("notes_chat_id_idx").
		Column("chat_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create notes index: %w", err)
	}

	p.logger.Info("Database schema is up to date")
	return nil
}

// Check проверяет доступность базы данных для health check
func (p *Postgres) Check(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close закрывает соединение с базой данных
func (p *Postgres) Close() error {
	return p.db.Close()
}

// GetDB возвращает подключение к базе данных
func (p *Postgres) GetDB() *bun.DB {
	return p.db
}

// GetNoteRepository возвращает репозиторий заметок
func (p *Postgres) GetNoteRepository() model.NoteRepository {
	return repository.NewNoteRepository(p.db, p.logger)
}
