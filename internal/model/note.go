// Package model содержит модели данных бота.
package model

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Ограничения заметки
const (
	NoteMinLength = 1
	NoteMaxLength = 1000
)

// Note представляет заметку пользователя в чате
type Note struct {
	bun.BaseModel `bun:"table:notes,alias:n"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	ChatID    int64     `bun:"chat_id,notnull" json:"chat_id"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id"`
	Text      string    `bun:"text,notnull" json:"text"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

var _ Validator = (*Note)(nil)

// Validate проверяет заметку перед сохранением
func (n *Note) Validate() error {
	var errs ValidationErrors

	if err := ValidatePositiveInt64("chat_id", n.ChatID); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if err := ValidateRequired("text", n.Text); err != nil {
		errs = append(errs, err.(ValidationError))
	} else if err := ValidateLength("text", n.Text, NoteMinLength, NoteMaxLength); err != nil {
		errs = append(errs, err.(ValidationError))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// NoteRepository определяет хранилище заметок
type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	ListByChat(ctx context.Context, chatID int64, limit int) ([]Note, error)
	CountByChat(ctx context.Context, chatID int64) (int, error)
	DeleteByChat(ctx context.Context, chatID int64) (int, error)
	Count(ctx context.Context) (int, error)
}
