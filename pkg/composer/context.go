// Package composer provides the middleware pipeline that Telegram updates flow through.
package composer

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// ErrNoSender is returned by reply helpers when the context has no bot client.
var ErrNoSender = errors.New("composer: context has no sender")

// Sender sends Telegram API requests. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Context holds a single update while it travels through the pipeline.
type Context struct {
	ctx    context.Context
	Update tgbotapi.Update
	Bot    Sender
	Logger *zap.Logger
}

// NewContext creates a pipeline context for update.
func NewContext(ctx context.Context, update tgbotapi.Update, bot Sender, logger *zap.Logger) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		ctx:    ctx,
		Update: update,
		Bot:    bot,
		Logger: logger,
	}
}

// Context returns the context.Context that governs cancellation of this update.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Err reports whether processing of this update was cancelled or timed out.
func (c *Context) Err() error {
	return c.ctx.Err()
}

// WithLogger replaces the logger with one carrying the given fields.
func (c *Context) WithLogger(fields ...zap.Field) {
	c.Logger = c.Logger.With(fields...)
}

// Message returns the message of the update, looking at edited messages and
// channel posts as well.
func (c *Context) Message() *tgbotapi.Message {
	switch {
	case c.Update.Message != nil:
		return c.Update.Message
	case c.Update.EditedMessage != nil:
		return c.Update.EditedMessage
	case c.Update.ChannelPost != nil:
		return c.Update.ChannelPost
	case c.Update.EditedChannelPost != nil:
		return c.Update.EditedChannelPost
	case c.Update.CallbackQuery != nil:
		return c.Update.CallbackQuery.Message
	}
	return nil
}

// Text returns the message text or caption.
func (c *Context) Text() string {
	msg := c.Message()
	if msg == nil {
		return ""
	}
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

// Command returns the bot command without the leading slash and bot mention.
// Callback query messages are never treated as commands.
func (c *Context) Command() string {
	if c.Update.CallbackQuery != nil {
		return ""
	}
	msg := c.Message()
	if msg == nil {
		return ""
	}
	return msg.Command()
}

// CommandArguments returns everything after the command.
func (c *Context) CommandArguments() string {
	if c.Command() == "" {
		return ""
	}
	return c.Message().CommandArguments()
}

// CallbackQuery returns the callback query of the update, if any.
func (c *Context) CallbackQuery() *tgbotapi.CallbackQuery {
	return c.Update.CallbackQuery
}

// CallbackData returns the data attached to the pressed inline button.
func (c *Context) CallbackData() string {
	if c.Update.CallbackQuery == nil {
		return ""
	}
	return c.Update.CallbackQuery.Data
}

// Chat returns the effective chat of the update.
func (c *Context) Chat() *tgbotapi.Chat {
	if msg := c.Message(); msg != nil {
		return msg.Chat
	}
	switch {
	case c.Update.MyChatMember != nil:
		return &c.Update.MyChatMember.Chat
	case c.Update.ChatMember != nil:
		return &c.Update.ChatMember.Chat
	case c.Update.ChatJoinRequest != nil:
		return &c.Update.ChatJoinRequest.Chat
	}
	return nil
}

// ChatID returns the effective chat id or 0.
func (c *Context) ChatID() int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return 0
}

// From returns the user that caused the update.
func (c *Context) From() *tgbotapi.User {
	switch {
	case c.Update.CallbackQuery != nil:
		return c.Update.CallbackQuery.From
	case c.Update.InlineQuery != nil:
		return c.Update.InlineQuery.From
	case c.Update.ChosenInlineResult != nil:
		return c.Update.ChosenInlineResult.From
	case c.Update.MyChatMember != nil:
		return &c.Update.MyChatMember.From
	case c.Update.ChatMember != nil:
		return &c.Update.ChatMember.From
	case c.Update.ChatJoinRequest != nil:
		return &c.Update.ChatJoinRequest.From
	}
	if msg := c.Message(); msg != nil {
		return msg.From
	}
	return nil
}

// UserID returns the id of the user that caused the update or 0.
func (c *Context) UserID() int64 {
	if user := c.From(); user != nil {
		return user.ID
	}
	return 0
}

// Reply sends a text message to the effective chat.
func (c *Context) Reply(text string) error {
	msg := tgbotapi.NewMessage(c.ChatID(), text)
	return c.Send(msg)
}

// Send sends an arbitrary request through the bot client.
func (c *Context) Send(chattable tgbotapi.Chattable) error {
	if c.Bot == nil {
		return ErrNoSender
	}
	_, err := c.Bot.Send(chattable)
	return err
}

// AnswerCallback acknowledges the callback query of the update.
func (c *Context) AnswerCallback(text string) error {
	if c.Update.CallbackQuery == nil {
		return nil
	}
	if c.Bot == nil {
		return ErrNoSender
	}
	// answerCallbackQuery returns true instead of a message, so Send can't be used
	_, err := c.Bot.Request(tgbotapi.NewCallback(c.Update.CallbackQuery.ID, text))
	return err
}
