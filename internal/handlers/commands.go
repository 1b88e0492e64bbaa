package handlers

import (
	"botrouter/internal/domain/types"
	"botrouter/internal/model"
	"botrouter/pkg/composer"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Start обрабатывает /start
func (h *Handlers) Start(c *composer.Context) error {
	name := "друг"
	if user := c.From(); user != nil && user.FirstName != "" {
		name = user.FirstName
	}

	text := fmt.Sprintf("Привет, %s! 👋\n\nЯ храню заметки этого чата. "+
		"Отправьте /note текст, чтобы сохранить заметку, или /help для списка команд.",
		html.EscapeString(name))
	return replyHTML(c, text, notesKeyboard())
}

// Help обрабатывает /help
func (h *Handlers) Help(c *composer.Context) error {
	var b strings.Builder
	b.WriteString("<b>Доступные команды:</b>\n\n")
	for _, cmd := range Commands {
		if cmd.AdminOnly {
			continue
		}
		fmt.Fprintf(&b, "/%s - %s\n", cmd.Name, html.EscapeString(cmd.Description))
	}
	if h.adminUsername != "" {
		fmt.Fprintf(&b, "\nПо вопросам обращайтесь к @%s", html.EscapeString(strings.TrimPrefix(h.adminUsername, "@")))
	}
	return replyHTML(c, b.String(), nil)
}

// AddNote обрабатывает /note текст
func (h *Handlers) AddNote(c *composer.Context) error {
	text := strings.TrimSpace(c.CommandArguments())
	if text == "" {
		return replyHTML(c, "Использование: /note текст заметки", nil)
	}

	note := &model.Note{
		ChatID: c.ChatID(),
		UserID: c.UserID(),
		Text:   text,
	}
	if err := h.notes.Create(c.Context(), note); err != nil {
		var verrs model.ValidationErrors
		if errors.As(err, &verrs) {
			return replyHTML(c, fmt.Sprintf("❌ Заметка не сохранена: длина от %d до %d символов",
				model.NoteMinLength, model.NoteMaxLength), nil)
		}
		return types.NewBotError(types.ErrCodeStorage, "failed to save note", err)
	}

	c.Logger.Info("Note saved", zap.Int64("note_id", note.ID))
	return replyHTML(c, fmt.Sprintf("✅ Заметка #%d сохранена", note.ID), notesKeyboard())
}

// ListNotes обрабатывает /notes
func (h *Handlers) ListNotes(c *composer.Context) error {
	text, err := h.renderNotes(c)
	if err != nil {
		return err
	}
	return replyHTML(c, text, notesKeyboard())
}

// Clear обрабатывает /clear
func (h *Handlers) Clear(c *composer.Context) error {
	deleted, err := h.notes.DeleteByChat(c.Context(), c.ChatID())
	if err != nil {
		return types.NewBotError(types.ErrCodeStorage, "failed to clear notes", err)
	}

	c.Logger.Info("Notes cleared", zap.Int("deleted", deleted))
	return replyHTML(c, clearedText(deleted), nil)
}

// Stats обрабатывает /stats, доступна только администратору
func (h *Handlers) Stats(c *composer.Context) error {
	total, err := h.notes.Count(c.Context())
	if err != nil {
		return types.NewBotError(types.ErrCodeStorage, "failed to count notes", err)
	}
	stats := h.runtimeStats()

	var b strings.Builder
	b.WriteString("<b>📊 Статистика</b>\n\n")
	fmt.Fprintf(&b, "Аптайм: %s\n", stats.Uptime.Truncate(time.Second))
	fmt.Fprintf(&b, "Заметок: %d\n", total)
	fmt.Fprintf(&b, "Обработано обновлений: %d\n", stats.ProcessedJobs)
	fmt.Fprintf(&b, "Ошибок: %d\n", stats.FailedJobs)
	fmt.Fprintf(&b, "В очереди: %d\n", stats.QueueSize)
	fmt.Fprintf(&b, "Отклонено лимитом: %d\n", stats.RateLimited)
	fmt.Fprintf(&b, "\nКоманды: %s\n", joinOrDash(stats.Commands))
	fmt.Fprintf(&b, "Callback: %s", joinOrDash(stats.Callbacks))

	return replyHTML(c, b.String(), nil)
}

// Unknown отвечает на команды без маршрута
func (h *Handlers) Unknown(c *composer.Context) error {
	c.Logger.Info("Unknown command", zap.String("command", c.Command()))
	return replyHTML(c, fmt.Sprintf("Неизвестная команда /%s. Список команд: /help",
		html.EscapeString(c.Command())), nil)
}

func (h *Handlers) renderNotes(c *composer.Context) (string, error) {
	notes, err := h.notes.ListByChat(c.Context(), c.ChatID(), notesPageSize)
	if err != nil {
		return "", types.NewBotError(types.ErrCodeStorage, "failed to list notes", err)
	}
	if len(notes) == 0 {
		return "📭 Заметок пока нет. Добавьте первую: /note текст", nil
	}

	total, err := h.notes.CountByChat(c.Context(), c.ChatID())
	if err != nil {
		return "", types.NewBotError(types.ErrCodeStorage, "failed to count notes", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>📝 Заметки (%d из %d):</b>\n\n", len(notes), total)
	for _, n := range notes {
		fmt.Fprintf(&b, "#%d %s <i>%s</i>\n", n.ID, html.EscapeString(n.Text), n.CreatedAt.Format("02.01 15:04"))
	}
	return b.String(), nil
}

func clearedText(deleted int) string {
	if deleted == 0 {
		return "📭 Удалять нечего"
	}
	return fmt.Sprintf("🗑 Удалено заметок: %d", deleted)
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
