/*
Package actions implements the per-node interceptor chain used by the form engine.

Every node owns a Registry. Handlers are registered under an ActionKind and
dispatched newest-first: each handler receives a Next continuation that invokes
the handler registered before it, so a later registration can run first, alter
the arguments it forwards, or stop the chain by not calling next at all.

	reg.Register(actions.New(domain.ValueChanged, func(ctx context.Context, n Node, next actions.Next, args ...any) error {
		log.Println("about to notify", args)
		return next(ctx, args...)
	}))

Triggering a kind without handlers succeeds and does nothing. Handler errors are
returned to the caller of Trigger untouched.
*/
package actions
