// Package handlers содержит обработчики команд и callback query бота заметок.
package handlers

import (
	"botrouter/internal/model"
	"botrouter/pkg/composer"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// notesPageSize число заметок в ответе /notes
const notesPageSize = 10

// Command описывает команду бота для меню и справки
type Command struct {
	Name        string
	Description string
	AdminOnly   bool
}

// Commands список команд в порядке показа в справке
var Commands = []Command{
	{Name: "start", Description: "Начать работу с ботом"},
	{Name: "help", Description: "Показать справку"},
	{Name: "note", Description: "Сохранить заметку: /note текст"},
	{Name: "notes", Description: "Показать последние заметки"},
	{Name: "clear", Description: "Удалить все заметки чата"},
	{Name: "stats", Description: "Статистика бота", AdminOnly: true},
}

// BotCommands возвращает пользовательские команды для меню Telegram
func BotCommands() []tgbotapi.BotCommand {
	var commands []tgbotapi.BotCommand
	for _, cmd := range Commands {
		if cmd.AdminOnly {
			continue
		}
		commands = append(commands, tgbotapi.BotCommand{Command: cmd.Name, Description: cmd.Description})
	}
	return commands
}

// RuntimeStats состояние бота для команды /stats
type RuntimeStats struct {
	Uptime        time.Duration
	Commands      []string
	Callbacks     []string
	ProcessedJobs int64
	FailedJobs    int64
	QueueSize     int
	RateLimited   int64
}

// Handlers обработчики команд с общими зависимостями
type Handlers struct {
	notes         model.NoteRepository
	adminUsername string

	mu    sync.RWMutex
	stats func() RuntimeStats
}

// New создает обработчики поверх хранилища заметок
func New(notes model.NoteRepository, adminUsername string) *Handlers {
	return &Handlers{
		notes:         notes,
		adminUsername: adminUsername,
		stats:         func() RuntimeStats { return RuntimeStats{} },
	}
}

// SetStatsSource задает источник данных для /stats
func (h *Handlers) SetStatsSource(stats func() RuntimeStats) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stats = stats
}

func (h *Handlers) runtimeStats() RuntimeStats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats()
}

// replyHTML отправляет HTML сообщение в текущий чат
func replyHTML(c *composer.Context, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(c.ChatID(), text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if markup != nil {
		msg.ReplyMarkup = markup
	}

	if err := c.Send(msg); err != nil {
		c.Logger.Error("Failed to send message",
			zap.Int64("chat_id", c.ChatID()),
			zap.Error(err))
		return err
	}
	return nil
}
