package composer

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func commandUpdate(text string, cmdLen int) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 10,
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: 42, UserName: "alice"},
			Chat:      &tgbotapi.Chat{ID: 100, Type: "private"},
			Text:      text,
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: cmdLen},
			},
		},
	}
}

func TestContext_CommandHelpers(t *testing.T) {
	c := NewContext(context.Background(), commandUpdate("/note buy milk", 5), nil, nil)

	assert.Equal(t, "note", c.Command())
	assert.Equal(t, "buy milk", c.CommandArguments())
	assert.Equal(t, "/note buy milk", c.Text())
	assert.Equal(t, int64(100), c.ChatID())
	assert.Equal(t, int64(42), c.UserID())
	assert.Equal(t, "private", c.Chat().Type)
	assert.NotNil(t, c.Logger)
}

func TestContext_PlainText(t *testing.T) {
	update := tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 1},
		Text: "hello",
	}}
	c := NewContext(context.Background(), update, nil, nil)

	assert.Equal(t, "", c.Command())
	assert.Equal(t, "", c.CommandArguments())
	assert.Equal(t, "hello", c.Text())
	assert.Equal(t, int64(0), c.UserID())
}

func TestContext_Callback(t *testing.T) {
	sender := &fakeSender{}
	update := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb1",
		From: &tgbotapi.User{ID: 7},
		Data: "notes:clear",
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: 55},
			Text: "/notes",
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: 6},
			},
		},
	}}
	c := NewContext(context.Background(), update, sender, nil)

	assert.Equal(t, "notes:clear", c.CallbackData())
	assert.Equal(t, "", c.Command(), "callback messages are not commands")
	assert.Equal(t, int64(55), c.ChatID())
	assert.Equal(t, int64(7), c.UserID())

	require.NoError(t, c.AnswerCallback("done"))
	require.Len(t, sender.requests, 1)
	assert.Empty(t, sender.sent)
}

func TestContext_Reply(t *testing.T) {
	sender := &fakeSender{}
	c := NewContext(context.Background(), commandUpdate("/start", 6), sender, nil)

	require.NoError(t, c.Reply("hi"))
	require.Len(t, sender.sent, 1)

	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(100), msg.ChatID)
	assert.Equal(t, "hi", msg.Text)
}

func TestContext_NoSender(t *testing.T) {
	c := NewContext(context.Background(), commandUpdate("/start", 6), nil, nil)
	assert.ErrorIs(t, c.Reply("hi"), ErrNoSender)
}

func TestContext_Cancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	c := NewContext(ctx, tgbotapi.Update{}, nil, nil)
	<-c.Context().Done()

	assert.ErrorIs(t, c.Err(), context.DeadlineExceeded)
	assert.Nil(t, c.Message())
	assert.Nil(t, c.Chat())
	assert.Nil(t, c.From())
}
