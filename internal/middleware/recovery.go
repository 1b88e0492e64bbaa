// Package middleware содержит middleware для recovery и обработки ошибок.
package middleware

import (
	"botrouter/internal/domain/types"
	"botrouter/pkg/composer"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// Recovery превращает панику в обработчике в BotError
func Recovery() composer.MiddlewareFunc {
	return func(c *composer.Context, next composer.NextFunc) (err error) {
		defer func() {
			if panicErr := recover(); panicErr != nil {
				c.Logger.Error("Panic recovered in recovery middleware",
					zap.Int("update_id", c.Update.UpdateID),
					zap.Int64("chat_id", c.ChatID()),
					zap.String("user", userIdentifier(c.From())),
					zap.Any("panic", panicErr),
					zap.String("stack", string(debug.Stack())))

				err = types.NewBotError(types.ErrCodePanic, "handler panicked",
					fmt.Errorf("panic: %v", panicErr))
			}
		}()

		return next()
	}
}

// ErrorLogger логирует ошибки от обработчиков и пробрасывает их дальше
func ErrorLogger() composer.MiddlewareFunc {
	return func(c *composer.Context, next composer.NextFunc) error {
		err := next()
		if err == nil {
			return nil
		}

		fields := []zap.Field{
			zap.Int("update_id", c.Update.UpdateID),
			zap.Int64("chat_id", c.ChatID()),
			zap.String("user", userIdentifier(c.From())),
			zap.Error(err),
		}

		// Определяем тип ошибки для лучшего логирования
		switch {
		case types.IsCommandError(err):
			c.Logger.Warn("Command error", fields...)
		case types.IsBotError(err):
			c.Logger.Error("Bot error", append(fields, zap.String("code", types.ErrorCode(err)))...)
		case c.Err() != nil:
			c.Logger.Warn("Update processing cancelled", fields...)
		default:
			c.Logger.Error("Unknown error", fields...)
		}

		return err
	}
}
