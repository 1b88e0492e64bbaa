package handlers

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Данные inline-кнопок. Часть до ":" выбирает маршрут callback query.
const (
	CallbackNotes   = "notes"
	ActionRefresh   = "refresh"
	ActionClear     = "clear"
	callbackRefresh = CallbackNotes + ":" + ActionRefresh
	callbackClear   = CallbackNotes + ":" + ActionClear
)

// notesKeyboard клавиатура под списком заметок
func notesKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Обновить", callbackRefresh),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Очистить", callbackClear),
		),
	)
}
