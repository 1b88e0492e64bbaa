// Package middleware содержит middleware компоненты.
package middleware

import (
	"botrouter/internal/config"
	"botrouter/pkg/composer"
	"time"
)

// callbackDebounce интервал между одинаковыми нажатиями кнопок
const callbackDebounce = time.Second

// Middleware хранит состояние middleware с памятью между обновлениями
type Middleware struct {
	rateLimiter RateLimiterInterface
	debouncer   DebouncerInterface
	rateLimit   bool
}

// New создает middleware по конфигурации
func New(cfg *config.Config) *Middleware {
	return &Middleware{
		rateLimiter: NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
		debouncer:   NewDebouncer(callbackDebounce),
		rateLimit:   cfg.RateLimitEnabled,
	}
}

// Common возвращает общую цепочку, через которую проходит каждое обновление
func (m *Middleware) Common() *composer.Composer {
	// ErrorLogger стоит снаружи Recovery, чтобы логировать и ошибки из паник
	chain := composer.New(
		ErrorLogger(),
		Recovery(),
		Logging(),
	)
	if m.rateLimit {
		chain.Use(RateLimit(m.rateLimiter))
	}
	return chain
}

// Callbacks возвращает middleware для цепочки обработки callback query
func (m *Middleware) Callbacks() composer.MiddlewareFunc {
	return DebounceCallbacks(m.debouncer)
}

// RateLimited возвращает число обновлений, отклоненных rate limit
func (m *Middleware) RateLimited() int64 {
	return m.rateLimiter.Rejected()
}

// Cleanup очищает устаревшие записи в middleware
func (m *Middleware) Cleanup() {
	m.rateLimiter.Cleanup()
	m.debouncer.Cleanup()
}
