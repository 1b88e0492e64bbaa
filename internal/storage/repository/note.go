// Package repository содержит реализации репозиториев заметок.
package repository

import (
	"botrouter/internal/model"
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// NoteRepository реализует интерфейс model.NoteRepository поверх bun
type NoteRepository struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewNoteRepository создает новый репозиторий заметок
func NewNoteRepository(db *bun.DB, logger *zap.Logger) model.NoteRepository {
	return &NoteRepository{
		db:     db,
		logger: logger,
	}
}

// Create сохраняет заметку и заполняет ее ID
func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	if err := note.Validate(); err != nil {
		return err
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NewInsert().Model(note).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	r.logger.Debug("Note created",
		zap.Int64("note_id", note.ID),
		zap.Int64("chat_id", note.ChatID))
	return nil
}

// ListByChat возвращает последние заметки чата, новые первыми
func (r *NoteRepository) ListByChat(ctx context.Context, chatID int64, limit int) ([]model.Note, error) {
	var notes []model.Note
	q := r.db.NewSelect().
		Model(&notes).
		Where("chat_id = ?", chatID).
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// CountByChat возвращает число заметок чата
func (r *NoteRepository) CountByChat(ctx context.Context, chatID int64) (int, error) {
	count, err := r.db.NewSelect().
		Model((*model.Note)(nil)).
		Where("chat_id = ?", chatID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return count, nil
}

// DeleteByChat удаляет все заметки чата и возвращает их число
func (r *NoteRepository) DeleteByChat(ctx context.Context, chatID int64) (int, error) {
	res, err := r.db.NewDelete().
		Model((*model.Note)(nil)).
		Where("chat_id = ?", chatID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notes: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(affected), nil
}

// Count возвращает общее число заметок
func (r *NoteRepository) Count(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().Model((*model.Note)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return count, nil
}
