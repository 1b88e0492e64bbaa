// Package router dispatches updates to one of several middleware chains,
// chosen by a key that a routing function computes from the update.
//
//	r := router.New(router.Command())
//	r.Route("start", composer.HandlerFunc(start))
//	r.Route("help", composer.HandlerFunc(help))
//	r.Otherwise(composer.HandlerFunc(unknown)) // no route matched
//
//	pipeline.Use(r)
//
// Without Otherwise an unmatched update is passed to the downstream
// middleware untouched.
package router

import (
	"botrouter/pkg/composer"
	"sync"
)

// Entry is a key with its middleware, used to pre-seed a router in a fixed order.
type Entry[K comparable] struct {
	Key     K
	Handler composer.Middleware
}

// Option configures a Router at construction time.
type Option[K comparable] func(r *Router[K])

// WithHandlers pre-seeds the router from a key-indexed map. Map iteration
// order is random, so Routes reports these keys in no particular order.
func WithHandlers[K comparable](handlers map[K]composer.Middleware) Option[K] {
	return func(r *Router[K]) {
		for key, handler := range handlers {
			r.set(key, handler)
		}
	}
}

// WithEntries pre-seeds the router from an ordered list. A later entry with a
// duplicate key overwrites an earlier one.
func WithEntries[K comparable](entries ...Entry[K]) Option[K] {
	return func(r *Router[K]) {
		for _, e := range entries {
			r.set(e.Key, e.Handler)
		}
	}
}

// Router selects one registered chain per update.
type Router[K comparable] struct {
	selector composer.Selector[K]

	mu        sync.RWMutex
	routes    map[K]composer.Middleware
	order     []K
	otherwise *composer.Composer
}

var (
	_ composer.Middleware         = (*Router[string])(nil)
	_ composer.RouteTable[string] = (*Router[string])(nil)
)

// New creates a router. selector decides which route an update takes.
func New[K comparable](selector composer.Selector[K], opts ...Option[K]) *Router[K] {
	if selector == nil {
		panic("router: nil selector")
	}

	r := &Router[K]{
		selector: selector,
		routes:   make(map[K]composer.Middleware),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route registers middleware for key and returns the chain, so more
// middleware can be attached to it later. An existing route for key is replaced.
func (r *Router[K]) Route(key K, middleware ...composer.Middleware) *composer.Composer {
	chain := composer.New(middleware...)
	r.set(key, chain)
	return chain
}

// Otherwise registers the chain that runs when the routing function yields no
// key or a key without a route. Each call replaces the previous chain.
func (r *Router[K]) Otherwise(middleware ...composer.Middleware) *composer.Composer {
	chain := composer.New(middleware...)

	r.mu.Lock()
	r.otherwise = chain
	r.mu.Unlock()

	return chain
}

// Middleware returns the router as a single pipeline step.
func (r *Router[K]) Middleware() composer.MiddlewareFunc {
	return composer.Route(r.selector, r)
}

// Lookup returns the middleware registered for key.
func (r *Router[K]) Lookup(key K) (composer.Middleware, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mw, ok := r.routes[key]
	return mw, ok
}

// Fallback returns the otherwise chain, if one was registered.
func (r *Router[K]) Fallback() (composer.Middleware, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.otherwise == nil {
		return nil, false
	}
	return r.otherwise, true
}

// Routes returns registered keys in the order they were first registered.
func (r *Router[K]) Routes() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, len(r.order))
	copy(keys, r.order)
	return keys
}

// Len returns the number of registered routes.
func (r *Router[K]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

func (r *Router[K]) set(key K, handler composer.Middleware) {
	if handler == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.routes[key]; !exists {
		r.order = append(r.order, key)
	}
	r.routes[key] = handler
}
