package router

import (
	"botrouter/pkg/composer"
	"sync"
)

// CustomRouter is a stricter Router: the routing function always returns a
// key of type K, typically a named type with a fixed set of constants.
// There is no otherwise chain and no pre-seeding. Updates whose key has no
// route are passed downstream.
type CustomRouter[K comparable] struct {
	match func(c *composer.Context) K

	mu     sync.RWMutex
	routes map[K]composer.Middleware
	order  []K
}

var _ composer.RouteTable[Kind] = (*CustomRouter[Kind])(nil)

// NewCustom creates a CustomRouter.
func NewCustom[K comparable](match func(c *composer.Context) K) *CustomRouter[K] {
	if match == nil {
		panic("router: nil selector")
	}
	return &CustomRouter[K]{
		match:  match,
		routes: make(map[K]composer.Middleware),
	}
}

// Route registers middleware for key and returns the live chain.
func (r *CustomRouter[K]) Route(key K, middleware ...composer.Middleware) *composer.Composer {
	chain := composer.New(middleware...)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.routes[key]; !exists {
		r.order = append(r.order, key)
	}
	r.routes[key] = chain
	return chain
}

// Middleware returns the router as a single pipeline step.
func (r *CustomRouter[K]) Middleware() composer.MiddlewareFunc {
	return composer.Route(func(c *composer.Context) (K, bool, error) {
		return r.match(c), true, nil
	}, r)
}

// Lookup returns the chain registered for key.
func (r *CustomRouter[K]) Lookup(key K) (composer.Middleware, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mw, ok := r.routes[key]
	return mw, ok
}

// Fallback always reports false: a CustomRouter has no otherwise chain.
func (r *CustomRouter[K]) Fallback() (composer.Middleware, bool) {
	return nil, false
}

// Routes returns registered keys in registration order.
func (r *CustomRouter[K]) Routes() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, len(r.order))
	copy(keys, r.order)
	return keys
}
