package composer

// Selector computes a route key for an update. ok is false when no route
// applies. A non-nil error aborts the pipeline.
type Selector[K comparable] func(c *Context) (key K, ok bool, err error)

// RouteTable resolves route keys to middleware.
type RouteTable[K comparable] interface {
	// Lookup returns the middleware registered for key.
	Lookup(key K) (Middleware, bool)
	// Fallback returns the middleware used when no route matches.
	Fallback() (Middleware, bool)
}

// Route builds a step that runs exactly one candidate from table, chosen by
// the key that selector computes. Without a match and without a fallback the
// update is passed downstream untouched.
func Route[K comparable](selector Selector[K], table RouteTable[K]) MiddlewareFunc {
	return func(c *Context, next NextFunc) error {
		key, ok, err := selector(c)
		if err != nil {
			return err
		}

		var target Middleware
		if ok {
			target, ok = table.Lookup(key)
		}
		if !ok {
			target, ok = table.Fallback()
		}
		if !ok || target == nil {
			if next == nil {
				return nil
			}
			return next()
		}

		return target.Middleware()(c, next)
	}
}
