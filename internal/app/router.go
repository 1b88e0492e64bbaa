// Package app собирает бота: цепочку обработки обновлений, пул воркеров,
// long polling и health check сервер.
package app

import (
	"botrouter/internal/domain/types"
	"botrouter/internal/handlers"
	"botrouter/internal/metrics"
	"botrouter/internal/middleware"
	"botrouter/pkg/composer"
	"botrouter/pkg/router"
)

// callbackRoutePrefix префикс метрик маршрутов callback query
const callbackRoutePrefix = "callback:"

// Pipeline цепочка, через которую проходит каждое обновление:
// общие middleware, счетчик обновлений и маршрутизация по типу обновления.
type Pipeline struct {
	root      *composer.Composer
	kinds     *router.CustomRouter[router.Kind]
	commands  *router.Router[string]
	callbacks *router.Router[string]
}

// NewPipeline регистрирует все маршруты бота
func NewPipeline(h *handlers.Handlers, mw *middleware.Middleware, m *metrics.Metrics, adminUsername string) *Pipeline {
	p := &Pipeline{
		kinds:     router.NewCustom(router.UpdateKind),
		commands:  router.New(router.Command()),
		callbacks: router.New(router.CallbackPrefix(":")),
	}

	p.command(m, "start", composer.HandlerFunc(h.Start))
	p.command(m, "help", composer.HandlerFunc(h.Help))
	p.command(m, "note", composer.HandlerFunc(h.AddNote))
	p.command(m, "notes", composer.HandlerFunc(h.ListNotes))
	p.command(m, "clear", composer.HandlerFunc(h.Clear))
	p.command(m, "stats", middleware.AdminOnly(adminUsername), composer.HandlerFunc(h.Stats))
	p.commands.Otherwise(m.Track("unknown"), composer.HandlerFunc(h.Unknown))

	p.callbacks.Route(handlers.CallbackNotes, m.Track(callbackRoutePrefix+handlers.CallbackNotes), h.NotesCallbacks())
	p.callbacks.Otherwise(m.Track(callbackRoutePrefix+"unknown"), composer.HandlerFunc(h.UnknownCallback))

	// Обрабатываем только команды, обычный текст не попадает в Otherwise
	p.kinds.Route(router.KindMessage, commandsOnly(), p.commands)
	p.kinds.Route(router.KindCallbackQuery, mw.Callbacks(), p.callbacks)

	p.root = composer.New(mw.Common(), m.CountUpdates(), p.kinds)
	return p
}

func (p *Pipeline) command(m *metrics.Metrics, name string, chain ...composer.Middleware) {
	route := p.commands.Route(name, m.Track(name), commandErrors(name))
	route.Use(chain...)
}

// Middleware возвращает всю цепочку как один шаг
func (p *Pipeline) Middleware() composer.MiddlewareFunc {
	return p.root.Middleware()
}

// Handle прогоняет обновление через цепочку
func (p *Pipeline) Handle(c *composer.Context) error {
	return composer.Run(c, p.root)
}

// Commands возвращает зарегистрированные команды
func (p *Pipeline) Commands() []string {
	return p.commands.Routes()
}

// Callbacks возвращает зарегистрированные префиксы callback query
func (p *Pipeline) Callbacks() []string {
	return p.callbacks.Routes()
}

// Kinds возвращает типы обновлений, у которых есть маршрут
func (p *Pipeline) Kinds() []router.Kind {
	return p.kinds.Routes()
}

// commandsOnly останавливает сообщения без команды
func commandsOnly() composer.MiddlewareFunc {
	return func(c *composer.Context, next composer.NextFunc) error {
		if c.Command() == "" {
			return nil
		}
		return next()
	}
}

// commandErrors добавляет к ошибке обработчика контекст команды.
// BotError пробрасывается как есть, чтобы сохранить код ошибки.
func commandErrors(command string) composer.MiddlewareFunc {
	return func(c *composer.Context, next composer.NextFunc) error {
		err := next()
		if err == nil || types.IsBotError(err) {
			return err
		}
		return types.NewCommandError(command, c.UserID(), c.ChatID(), err)
	}
}
