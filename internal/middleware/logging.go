// Package middleware содержит middleware для логирования запросов.
package middleware

import (
	"botrouter/pkg/composer"
	"botrouter/pkg/router"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logging добавляет request_id в логгер контекста и логирует обработку обновления
func Logging() composer.MiddlewareFunc {
	return func(c *composer.Context, next composer.NextFunc) error {
		startTime := time.Now()
		requestID := uuid.NewString()

		c.WithLogger(
			zap.String("request_id", requestID),
			zap.Int("update_id", c.Update.UpdateID),
		)

		c.Logger.Info("Processing update",
			zap.String("kind", string(router.UpdateKind(c))),
			zap.String("command", c.Command()),
			zap.Int64("user_id", c.UserID()),
			zap.Int64("chat_id", c.ChatID()),
			zap.String("user", userIdentifier(c.From())))

		// Выполняем следующий middleware/handler
		err := next()

		duration := time.Since(startTime)
		if err != nil {
			c.Logger.Error("Update completed with error",
				zap.Duration("duration", duration),
				zap.Error(err))
		} else {
			c.Logger.Info("Update completed successfully",
				zap.Duration("duration", duration))
		}

		return err
	}
}

// userIdentifier возвращает идентификатор пользователя
func userIdentifier(user *tgbotapi.User) string {
	if user == nil {
		return "unknown"
	}

	if user.UserName != "" {
		return "@" + user.UserName
	}

	if user.FirstName != "" {
		if user.LastName != "" {
			return user.FirstName + " " + user.LastName
		}
		return user.FirstName
	}

	return fmt.Sprintf("user_%d", user.ID)
}
