package handlers

import (
	"botrouter/internal/domain/types"
	"botrouter/pkg/composer"
	"botrouter/pkg/router"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// callbackAction возвращает часть данных кнопки после ":"
func callbackAction(c *composer.Context) (string, bool) {
	_, action, found := strings.Cut(c.CallbackData(), ":")
	return action, found
}

// NotesCallbacks возвращает маршрутизатор кнопок под списком заметок.
// Неизвестное действие только подтверждает нажатие.
func (h *Handlers) NotesCallbacks() *router.Router[string] {
	r := router.New(router.Match(callbackAction))
	r.Route(ActionRefresh, composer.HandlerFunc(h.RefreshNotes))
	r.Route(ActionClear, composer.HandlerFunc(h.ClearNotes))
	r.Otherwise(composer.HandlerFunc(h.UnknownCallback))
	return r
}

// RefreshNotes перерисовывает список заметок в сообщении с кнопкой
func (h *Handlers) RefreshNotes(c *composer.Context) error {
	text, err := h.renderNotes(c)
	if err != nil {
		return err
	}

	if err := h.editCallbackMessage(c, text, true); err != nil {
		return err
	}
	return answer(c, "Обновлено")
}

// ClearNotes удаляет заметки чата по кнопке
func (h *Handlers) ClearNotes(c *composer.Context) error {
	deleted, err := h.notes.DeleteByChat(c.Context(), c.ChatID())
	if err != nil {
		return types.NewBotError(types.ErrCodeStorage, "failed to clear notes", err)
	}

	c.Logger.Info("Notes cleared from keyboard", zap.Int("deleted", deleted))
	if err := h.editCallbackMessage(c, clearedText(deleted), false); err != nil {
		return err
	}
	return answer(c, "Готово")
}

// UnknownCallback подтверждает нажатие устаревшей или чужой кнопки
func (h *Handlers) UnknownCallback(c *composer.Context) error {
	c.Logger.Warn("Unknown callback data", zap.String("data", c.CallbackData()))
	return answer(c, "Кнопка устарела")
}

func (h *Handlers) editCallbackMessage(c *composer.Context, text string, withKeyboard bool) error {
	msg := c.Message()
	if msg == nil || msg.Chat == nil {
		return nil
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	if withKeyboard {
		markup := notesKeyboard()
		edit.ReplyMarkup = &markup
	}

	if err := c.Send(edit); err != nil {
		// Telegram отвечает ошибкой, если текст не изменился
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return types.NewBotError(types.ErrCodeTelegram, "failed to edit message", err)
	}
	return nil
}

func answer(c *composer.Context, text string) error {
	if err := c.AnswerCallback(text); err != nil {
		return types.NewBotError(types.ErrCodeTelegram, "failed to answer callback", err)
	}
	return nil
}
