// Package middleware содержит middleware для rate limiting.
package middleware

import (
	"botrouter/pkg/composer"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// RateLimiterInterface определяет интерфейс для ограничителя запросов
type RateLimiterInterface interface {
	// Allow проверяет, разрешен ли запрос
	Allow(userID int64) bool
	// Cleanup очищает устаревшие записи
	Cleanup()
	// Rejected возвращает число отклоненных запросов
	Rejected() int64
}

// RateLimiter ограничивает количество запросов в скользящем окне
type RateLimiter struct {
	requests map[int64][]time.Time
	mu       sync.Mutex
	limit    int
	window   time.Duration
	rejected atomic.Int64
	now      func() time.Time
}

var _ RateLimiterInterface = (*RateLimiter)(nil)

// NewRateLimiter создает новый rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[int64][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow проверяет, разрешен ли запрос
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	validRequests := rl.validSince(rl.requests[userID], now.Add(-rl.window))

	if len(validRequests) >= rl.limit {
		rl.requests[userID] = validRequests
		rl.rejected.Inc()
		return false
	}

	rl.requests[userID] = append(validRequests, now)
	return true
}

// Rejected возвращает количество отклоненных запросов
func (rl *RateLimiter) Rejected() int64 {
	return rl.rejected.Load()
}

// Cleanup очищает старые записи
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := rl.now().Add(-rl.window)
	for userID, requests := range rl.requests {
		validRequests := rl.validSince(requests, windowStart)
		if len(validRequests) == 0 {
			delete(rl.requests, userID)
		} else {
			rl.requests[userID] = validRequests
		}
	}
}

func (rl *RateLimiter) validSince(requests []time.Time, windowStart time.Time) []time.Time {
	var validRequests []time.Time
	for _, reqTime := range requests {
		if reqTime.After(windowStart) {
			validRequests = append(validRequests, reqTime)
		}
	}
	return validRequests
}

// RateLimit пропускает обновление дальше только если пользователь не превысил лимит.
// Обновления без пользователя не ограничиваются.
func RateLimit(limiter RateLimiterInterface) composer.MiddlewareFunc {
	return func(c *composer.Context, next composer.NextFunc) error {
		userID := c.UserID()
		if userID == 0 || limiter.Allow(userID) {
			return next()
		}

		c.Logger.Warn("Rate limit exceeded", zap.Int64("user_id", userID))
		return nil
	}
}
