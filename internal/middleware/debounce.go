// Package middleware содержит middleware для debounce.
package middleware

import (
	"botrouter/pkg/composer"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DebouncerInterface определяет интерфейс для debouncer
type DebouncerInterface interface {
	// CanProcessRequest проверяет, можно ли обработать запрос
	CanProcessRequest(key string) bool
	// Cleanup очищает устаревшие записи
	Cleanup()
}

// Debouncer предотвращает двойные клики
type Debouncer struct {
	requests map[string]time.Time
	mu       sync.Mutex
	timeout  time.Duration
	now      func() time.Time
}

var _ DebouncerInterface = (*Debouncer)(nil)

// NewDebouncer создает новый debouncer
func NewDebouncer(timeout time.Duration) *Debouncer {
	return &Debouncer{
		requests: make(map[string]time.Time),
		timeout:  timeout,
		now:      time.Now,
	}
}

// CanProcessRequest проверяет, можно ли обработать запрос
func (d *Debouncer) CanProcessRequest(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	lastRequest, exists := d.requests[key]

	if !exists || now.Sub(lastRequest) > d.timeout {
		d.requests[key] = now
		return true
	}

	return false
}

// Cleanup очищает устаревшие записи
func (d *Debouncer) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for key, lastRequest := range d.requests {
		if now.Sub(lastRequest) > d.timeout {
			delete(d.requests, key)
		}
	}
}

// DebounceCallbacks отбрасывает повторные нажатия одной и той же кнопки.
// Отброшенный callback подтверждается, чтобы у клиента не висел индикатор загрузки.
func DebounceCallbacks(debouncer DebouncerInterface) composer.MiddlewareFunc {
	return func(c *composer.Context, next composer.NextFunc) error {
		query := c.CallbackQuery()
		if query == nil {
			return next()
		}

		key := fmt.Sprintf("%d:%s", c.UserID(), query.Data)
		if debouncer.CanProcessRequest(key) {
			return next()
		}

		c.Logger.Debug("Callback debounced", zap.String("data", query.Data))
		return c.AnswerCallback("")
	}
}
