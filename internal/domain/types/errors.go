// Package types содержит общие типы ошибок бота.
package types

import (
	"errors"
	"fmt"
)

// Стандартные ошибки бота
var (
	ErrInvalidArguments  = errors.New("invalid arguments")
	ErrUnauthorized      = errors.New("unauthorized access")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrBotNotStarted     = errors.New("bot not started")
	ErrBotAlreadyStarted = errors.New("bot already started")
)

// Error codes для BotError
const (
	ErrCodePanic             = "PANIC"
	ErrCodeInvalidArguments  = "INVALID_ARGUMENTS"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeStorage           = "STORAGE"
	ErrCodeTelegram          = "TELEGRAM"
)

// BotError представляет ошибку бота с контекстом
type BotError struct {
	Code    string
	Message string
	Err     error
}

func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// NewBotError создает новую ошибку бота
func NewBotError(code, message string, err error) *BotError {
	return &BotError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CommandError представляет ошибку выполнения маршрута
type CommandError struct {
	Command string
	UserID  int64
	ChatID  int64
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed for user %d in chat %d: %v",
		e.Command, e.UserID, e.ChatID, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError создает новую ошибку команды
func NewCommandError(command string, userID, chatID int64, err error) *CommandError {
	return &CommandError{
		Command: command,
		UserID:  userID,
		ChatID:  chatID,
		Err:     err,
	}
}

// IsCommandError проверяет, содержит ли цепочка ошибок CommandError
func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr)
}

// IsBotError проверяет, содержит ли цепочка ошибок BotError
func IsBotError(err error) bool {
	var botErr *BotError
	return errors.As(err, &botErr)
}

// ErrorCode возвращает код BotError из цепочки или пустую строку
func ErrorCode(err error) string {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.Code
	}
	return ""
}
