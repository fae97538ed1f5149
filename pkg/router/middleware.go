package router

// ComposeMiddleware builds a handler chain from middleware and a final handler.
// Middleware is executed in order (first to last), with the handler at the end.
func ComposeMiddleware(ctx *Ctx, mw []Middleware, handler func() error) error {
	chain := handler
	for i := len(mw) - 1; i >= 0; i-- {
		m := mw[i]
		next := chain
		chain = func() error {
			return m.Handle(ctx, next)
		}
	}
	return chain()
}

// Chain creates a middleware that combines multiple middleware in order.
func Chain(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		return ComposeMiddleware(ctx, middleware, next)
	})
}

// Skip bypasses mw when condition holds.
func Skip(condition func(ctx *Ctx) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		if condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}

// Only runs mw only when condition holds.
func Only(condition func(ctx *Ctx) bool, mw Middleware) Middleware {
	return MiddlewareFunc(func(ctx *Ctx, next func() error) error {
		if !condition(ctx) {
			return next()
		}
		return mw.Handle(ctx, next)
	})
}

// OnTrigger reports whether a render was caused by one of triggers. It is
// meant as a condition for Skip and Only.
func OnTrigger(triggers ...Trigger) func(ctx *Ctx) bool {
	return func(ctx *Ctx) bool {
		for _, t := range triggers {
			if ctx.Trigger() == t {
				return true
			}
		}
		return false
	}
}
