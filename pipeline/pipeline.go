package pipeline

import "context"

// Iterator is a pull source. Next reports ok=false with a nil error once the
// source is exhausted.
type Iterator[T any] interface {
	Next(ctx context.Context) (T, bool, error)
	Close() error
}

// Pipeline is a chain of stages that opens its iterators only when a
// terminal runs it.
type Pipeline[T any] struct {
	open func(ctx context.Context) Iterator[T]
}

// Runnable wraps a terminal so that callers decide when the chain executes.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run pulls the chain to the end. It stops early on the first stage or sink
// error and when ctx is done.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// From starts a chain at iter. iter is closed by the terminal that runs the
// chain, so it must not be reused afterwards.
func From[T any](iter Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{open: func(context.Context) Iterator[T] { return iter }}
}

// Drain hands every value the chain yields to sink, in order.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{run: func(ctx context.Context) error {
		iter := p.open(ctx)
		defer iter.Close()
		return each(ctx, iter, sink)
	}}
}

func each[T any](ctx context.Context, iter Iterator[T], fn func(context.Context, T) error) error {
	for ctx.Err() == nil {
		v, ok, err := iter.Next(ctx)
		switch {
		case err != nil:
			return err
		case !ok:
			return nil
		}
		if err := fn(ctx, v); err != nil {
			return err
		}
	}
	return ctx.Err()
}
