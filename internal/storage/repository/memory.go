package repository

import (
	"botrouter/internal/model"
	"context"
	"sync"
	"time"
)

// MemoryNoteRepository хранит заметки в памяти процесса.
// Используется, когда DB_DSN не задан, и в тестах.
type MemoryNoteRepository struct {
	mu     sync.RWMutex
	nextID int64
	notes  []model.Note
}

// NewMemoryNoteRepository создает пустое хранилище заметок
func NewMemoryNoteRepository() *MemoryNoteRepository {
	return &MemoryNoteRepository{}
}

// Create сохраняет заметку и заполняет ее ID
func (r *MemoryNoteRepository) Create(ctx context.Context, note *model.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := note.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	note.ID = r.nextID
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	r.notes = append(r.notes, *note)
	return nil
}

// ListByChat возвращает последние заметки чата, новые первыми
func (r *MemoryNoteRepository) ListByChat(ctx context.Context, chatID int64, limit int) ([]model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var notes []model.Note
	for i := len(r.notes) - 1; i >= 0; i-- {
		if r.notes[i].ChatID != chatID {
			continue
		}
		notes = append(notes, r.notes[i])
		if limit > 0 && len(notes) == limit {
			break
		}
	}
	return notes, nil
}

// CountByChat возвращает число заметок чата
func (r *MemoryNoteRepository) CountByChat(ctx context.Context, chatID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.notes {
		if n.ChatID == chatID {
			count++
		}
	}
	return count, nil
}

// DeleteByChat удаляет все заметки чата и возвращает их число
func (r *MemoryNoteRepository) DeleteByChat(ctx context.Context, chatID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.notes[:0]
	deleted := 0
	for _, n := range r.notes {
		if n.ChatID == chatID {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.notes = kept
	return deleted, nil
}

// Count возвращает общее число заметок
func (r *MemoryNoteRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes), nil
}
