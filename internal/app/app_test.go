package app

import (
	"botrouter/internal/config"
	"botrouter/internal/domain/types"
	"botrouter/internal/metrics"
	"botrouter/internal/middleware"
	"botrouter/internal/storage/repository"
	"botrouter/pkg/router"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
	updates  chan tgbotapi.Update
	stopped  bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{updates: make(chan tgbotapi.Update, 10)}
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var texts []string
	for _, c := range f.sent {
		switch msg := c.(type) {
		case tgbotapi.MessageConfig:
			texts = append(texts, msg.Text)
		case tgbotapi.EditMessageTextConfig:
			texts = append(texts, msg.Text)
		}
	}
	return texts
}

func (f *fakeAPI) answers() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var answers []string
	for _, c := range f.requests {
		if cb, ok := c.(tgbotapi.CallbackConfig); ok {
			answers = append(answers, cb.Text)
		}
	}
	return answers
}

func testConfig() *config.Config {
	return &config.Config{
		BotToken:        "test-token",
		AdminUsername:   "@boss",
		WorkerCount:     2,
		WorkerQueueSize: 10,
		UpdateTimeout:   time.Second,
	}
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	bot, err := NewBot(testConfig(), zap.NewNop(), api, repository.NewMemoryNoteRepository())
	require.NoError(t, err)
	return bot, api
}

var updateID int

func message(username, text string) tgbotapi.Update {
	updateID++
	msg := &tgbotapi.Message{
		MessageID: updateID,
		Text:      text,
		Chat:      &tgbotapi.Chat{ID: 100, Type: "private"},
		From:      &tgbotapi.User{ID: 7, FirstName: "Ann", UserName: username},
	}
	if strings.HasPrefix(text, "/") {
		cmdLen := len(text)
		if i := strings.IndexByte(text, ' '); i >= 0 {
			cmdLen = i
		}
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}}
	}
	return tgbotapi.Update{UpdateID: updateID, Message: msg}
}

func callback(data string) tgbotapi.Update {
	updateID++
	return tgbotapi.Update{
		UpdateID: updateID,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb",
			Data: data,
			From: &tgbotapi.User{ID: 7},
			Message: &tgbotapi.Message{
				MessageID: 55,
				Chat:      &tgbotapi.Chat{ID: 100},
			},
		},
	}
}

func TestNewBot_Validation(t *testing.T) {
	notes := repository.NewMemoryNoteRepository()

	_, err := NewBot(nil, zap.NewNop(), newFakeAPI(), notes)
	assert.Error(t, err)
	_, err = NewBot(testConfig(), nil, newFakeAPI(), notes)
	assert.Error(t, err)
	_, err = NewBot(testConfig(), zap.NewNop(), nil, notes)
	assert.Error(t, err)
	_, err = NewBot(testConfig(), zap.NewNop(), newFakeAPI(), nil)
	assert.Error(t, err)
}

func TestPipeline_Routes(t *testing.T) {
	bot, _ := newTestBot(t)
	p := bot.Pipeline()

	assert.Equal(t, []string{"start", "help", "note", "notes", "clear", "stats"}, p.Commands())
	assert.Equal(t, []string{"notes"}, p.Callbacks())
	assert.Equal(t, []router.Kind{router.KindMessage, router.KindCallbackQuery}, p.Kinds())
}

func TestPipeline_Commands(t *testing.T) {
	bot, api := newTestBot(t)
	ctx := context.Background()

	require.NoError(t, bot.HandleUpdate(ctx, message("ann", "/note молоко")))
	require.NoError(t, bot.HandleUpdate(ctx, message("ann", "/NOTES")))
	require.NoError(t, bot.HandleUpdate(ctx, message("ann", "просто текст")))
	require.NoError(t, bot.HandleUpdate(ctx, message("ann", "/dance")))

	texts := api.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, "✅ Заметка #1 сохранена", texts[0])
	assert.Contains(t, texts[1], "молоко")
	assert.Contains(t, texts[2], "Неизвестная команда /dance")

	assert.Equal(t, 1.0, bot.metrics.Dispatched("note", metrics.StatusOK))
	assert.Equal(t, 1.0, bot.metrics.Dispatched("notes", metrics.StatusOK))
	assert.Equal(t, 1.0, bot.metrics.Dispatched("unknown", metrics.StatusOK))
}

func TestPipeline_AdminOnlyStats(t *testing.T) {
	bot, api := newTestBot(t)
	ctx := context.Background()

	require.NoError(t, bot.HandleUpdate(ctx, message("ann", "/stats")))
	require.NoError(t, bot.HandleUpdate(ctx, message("Boss", "/stats")))

	texts := api.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, middleware.AccessDeniedText, texts[0])
	assert.Contains(t, texts[1], "Команды: start, help, note, notes, clear, stats")
	assert.Contains(t, texts[1], "Callback: notes")
}

func TestPipeline_Callbacks(t *testing.T) {
	bot, api := newTestBot(t)
	ctx := context.Background()

	require.NoError(t, bot.HandleUpdate(ctx, message("ann", "/note a")))
	require.NoError(t, bot.HandleUpdate(ctx, callback("notes:refresh")))
	require.NoError(t, bot.HandleUpdate(ctx, callback("notes:clear")))
	require.NoError(t, bot.HandleUpdate(ctx, callback("playlist:next")))

	texts := api.texts()
	require.Len(t, texts, 3)
	assert.Contains(t, texts[1], "(1 из 1)")
	assert.Equal(t, "🗑 Удалено заметок: 1", texts[2])
	assert.Equal(t, []string{"Обновлено", "Готово", "Кнопка устарела"}, api.answers())

	assert.Equal(t, 2.0, bot.metrics.Dispatched("callback:notes", metrics.StatusOK))
	assert.Equal(t, 1.0, bot.metrics.Dispatched("callback:unknown", metrics.StatusOK))
}

func TestPipeline_UnroutedKindsPassThrough(t *testing.T) {
	bot, api := newTestBot(t)

	edited := message("ann", "/start")
	edited.EditedMessage, edited.Message = edited.Message, nil

	require.NoError(t, bot.HandleUpdate(context.Background(), edited))
	require.NoError(t, bot.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 999}))
	assert.Empty(t, api.texts())
}

func TestPipeline_SendErrorBecomesCommandError(t *testing.T) {
	bot, api := newTestBot(t)
	api.sendErr = errors.New("telegram down")

	err := bot.HandleUpdate(context.Background(), message("ann", "/help"))
	require.Error(t, err)
	assert.True(t, types.IsCommandError(err))
	assert.ErrorIs(t, err, api.sendErr)
	assert.Equal(t, 1.0, bot.metrics.Dispatched("help", metrics.StatusError))
}

func TestBot_Start(t *testing.T) {
	bot, api := newTestBot(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- bot.Start(ctx) }()

	api.updates <- message("ann", "/start")
	assert.Eventually(t, func() bool {
		return len(api.texts()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.True(t, bot.ready.Load())

	assert.ErrorIs(t, bot.Start(ctx), types.ErrBotAlreadyStarted)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bot did not stop")
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.True(t, api.stopped)
	require.NotEmpty(t, api.requests)
	_, ok := api.requests[0].(tgbotapi.SetMyCommandsConfig)
	assert.True(t, ok)
	assert.False(t, bot.ready.Load())
	assert.Equal(t, int64(1), bot.pool.GetMetrics().ProcessedJobs)
}

func TestBot_StartFailsWhenUpdatesClose(t *testing.T) {
	bot, api := newTestBot(t)
	close(api.updates)

	err := bot.Start(context.Background())
	assert.EqualError(t, err, "update channel closed")
}

func TestNewBot_InvalidCleanupSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.CleanupSchedule = "sometimes"

	_, err := NewBot(cfg, zap.NewNop(), newFakeAPI(), repository.NewMemoryNoteRepository())
	assert.Error(t, err)
}
