package actions

import "context"

// chain interprets an ordered handler slice as an explicit stack:
// position i forwards to position i-1, and -1 is the terminal no-op.
type chain[N any] struct {
	node     N
	handlers []Handler[N]
}

func newChain[N any](node N, handlers []Handler[N]) *chain[N] {
	return &chain[N]{node: node, handlers: handlers}
}

func (c *chain[N]) call(i int) Next {
	return func(ctx context.Context, args ...any) error {
		if i < 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		return c.handlers[i](ctx, c.node, c.call(i-1), args...)
	}
}
