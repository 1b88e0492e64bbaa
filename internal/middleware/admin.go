// Package middleware содержит middleware для проверки прав администратора.
package middleware

import (
	"botrouter/pkg/composer"
	"strings"

	"go.uber.org/zap"
)

// AccessDeniedText отправляется пользователю без прав администратора
const AccessDeniedText = "🔒 Эта команда доступна только администратору"

// AdminOnly пропускает дальше только обновления от администратора.
// Пустой adminUsername запрещает доступ всем.
func AdminOnly(adminUsername string) composer.MiddlewareFunc {
	adminUsername = strings.TrimPrefix(adminUsername, "@")

	return func(c *composer.Context, next composer.NextFunc) error {
		user := c.From()
		if user == nil {
			c.Logger.Warn("No user information in update")
			return nil
		}

		if adminUsername == "" || !strings.EqualFold(user.UserName, adminUsername) {
			c.Logger.Warn("Unauthorized access attempt",
				zap.String("command", c.Command()),
				zap.String("user", userIdentifier(user)),
				zap.String("expected_admin", adminUsername))

			if err := c.Reply(AccessDeniedText); err != nil {
				c.Logger.Error("Failed to send access denied message", zap.Error(err))
			}
			return nil
		}

		return next()
	}
}
