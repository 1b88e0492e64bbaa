package router

import (
	"botrouter/pkg/composer"
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callbackContext(data string) *composer.Context {
	return composer.NewContext(context.Background(), tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			From:    &tgbotapi.User{ID: 1},
			Data:    data,
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1, Type: "group"}},
		},
	}, nil, nil)
}

func TestCommand(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantKey string
		wantOK  bool
	}{
		{name: "plain command", text: "/start", wantKey: "start", wantOK: true},
		{name: "mixed case", text: "/StArT", wantKey: "start", wantOK: true},
		{name: "with bot mention", text: "/help@my_bot", wantKey: "help", wantOK: true},
		{name: "with arguments", text: "/note buy milk", wantKey: "note", wantOK: true},
		{name: "not a command", text: "hello", wantOK: false},
		{name: "empty", text: "", wantOK: false},
	}

	selector := Command()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok, err := selector(textContext(tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestCommand_IgnoresCallbacks(t *testing.T) {
	_, ok, err := Command()(callbackContext("start"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCallbackPrefix(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantKey string
	}{
		{name: "prefix", data: "notes:clear", wantKey: "notes"},
		{name: "several separators", data: "notes:page:2", wantKey: "notes"},
		{name: "no separator", data: "refresh", wantKey: "refresh"},
		{name: "empty", data: "", wantKey: ""},
	}

	selector := CallbackPrefix(":")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok, err := selector(callbackContext(tt.data))
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}

	_, ok, err := selector(textContext("/start"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCallbackPrefix_EmptySeparator(t *testing.T) {
	key, ok, err := CallbackPrefix("")(callbackContext("notes:clear"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "notes:clear", key)
}

func TestChatType(t *testing.T) {
	key, ok, err := ChatType()(textContext("hi"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "private", key)

	key, ok, _ = ChatType()(callbackContext("x"))
	assert.True(t, ok)
	assert.Equal(t, "group", key)

	empty := composer.NewContext(context.Background(), tgbotapi.Update{}, nil, nil)
	_, ok, _ = ChatType()(empty)
	assert.False(t, ok)
}

func TestUpdateKind(t *testing.T) {
	tests := []struct {
		name   string
		update tgbotapi.Update
		want   Kind
	}{
		{name: "message", update: tgbotapi.Update{Message: &tgbotapi.Message{}}, want: KindMessage},
		{name: "edited", update: tgbotapi.Update{EditedMessage: &tgbotapi.Message{}}, want: KindEditedMessage},
		{name: "channel post", update: tgbotapi.Update{ChannelPost: &tgbotapi.Message{}}, want: KindChannelPost},
		{name: "callback", update: tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{}}, want: KindCallbackQuery},
		{name: "inline", update: tgbotapi.Update{InlineQuery: &tgbotapi.InlineQuery{}}, want: KindInlineQuery},
		{name: "my chat member", update: tgbotapi.Update{MyChatMember: &tgbotapi.ChatMemberUpdated{}}, want: KindMyChatMember},
		{name: "empty", update: tgbotapi.Update{}, want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := composer.NewContext(context.Background(), tt.update, nil, nil)
			assert.Equal(t, tt.want, UpdateKind(c))

			key, ok, err := Kinds()(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want != KindUnknown, ok)
			assert.Equal(t, tt.want, key)
		})
	}
}
