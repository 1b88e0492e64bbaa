package composer

import (
	"errors"
	"sync"
)

// ErrNextCalledTwice is returned when a middleware invokes next more than once.
var ErrNextCalledTwice = errors.New("composer: next already called")

// NextFunc continues with the downstream part of the pipeline.
type NextFunc func() error

// MiddlewareFunc is a single pipeline step. It decides whether to call next.
type MiddlewareFunc func(c *Context, next NextFunc) error

// Middleware is anything that can be turned into a MiddlewareFunc.
type Middleware interface {
	Middleware() MiddlewareFunc
}

// Middleware implements Middleware.
func (f MiddlewareFunc) Middleware() MiddlewareFunc {
	return f
}

// HandlerFunc is a terminal step that never continues downstream.
type HandlerFunc func(c *Context) error

// Middleware implements Middleware.
func (h HandlerFunc) Middleware() MiddlewareFunc {
	return func(c *Context, _ NextFunc) error {
		return h(c)
	}
}

// Composer is an ordered chain of middleware. It is live: units added with Use
// after the composer was installed somewhere take part in the next execution.
type Composer struct {
	mu       sync.RWMutex
	handlers []Middleware
}

var _ Middleware = (*Composer)(nil)

// New creates a composer running the given middleware in order.
func New(middleware ...Middleware) *Composer {
	c := &Composer{}
	c.Use(middleware...)
	return c
}

// Use appends middleware to the chain. Nil units are ignored.
func (c *Composer) Use(middleware ...Middleware) *Composer {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, mw := range middleware {
		if mw == nil {
			continue
		}
		c.handlers = append(c.handlers, mw)
	}
	return c
}

// Len returns the number of units in the chain.
func (c *Composer) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers)
}

// Middleware returns the whole chain as one step. When the last unit calls
// next, control moves past the composer.
func (c *Composer) Middleware() MiddlewareFunc {
	return func(ctx *Context, next NextFunc) error {
		c.mu.RLock()
		handlers := make([]Middleware, len(c.handlers))
		copy(handlers, c.handlers)
		c.mu.RUnlock()

		return chain(ctx, handlers, next)
	}
}

// chain runs handlers[0] and gives it a next that runs the rest.
func chain(ctx *Context, handlers []Middleware, next NextFunc) error {
	if len(handlers) == 0 {
		if next == nil {
			return nil
		}
		return next()
	}

	called := false
	return handlers[0].Middleware()(ctx, func() error {
		if called {
			return ErrNextCalledTwice
		}
		called = true
		return chain(ctx, handlers[1:], next)
	})
}

// Run executes mw for ctx with nothing downstream.
func Run(ctx *Context, mw Middleware) error {
	if mw == nil {
		return nil
	}
	return mw.Middleware()(ctx, func() error { return nil })
}
