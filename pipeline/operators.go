package pipeline

import "context"

// then builds a stage that reads from p through the iterator wrap returns.
func then[I, O any](p *Pipeline[I], wrap func(Iterator[I]) Iterator[O]) *Pipeline[O] {
	return &Pipeline[O]{open: func(ctx context.Context) Iterator[O] { return wrap(p.open(ctx)) }}
}

// Map replaces each value with fn's result. An fn error ends the stream.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return then(p, func(src Iterator[I]) Iterator[O] {
		return &stepIter[I, O]{Iterator: src, step: fn}
	})
}

// Tap lets fn observe each value on its way through. An fn error ends the
// stream and the value it saw is not passed on.
func Tap[T any](p *Pipeline[T], fn func(context.Context, T) error) *Pipeline[T] {
	return then(p, func(src Iterator[T]) Iterator[T] {
		return &stepIter[T, T]{Iterator: src, step: func(ctx context.Context, v T) (T, error) {
			return v, fn(ctx, v)
		}}
	})
}

// Chunk batches up to size consecutive values; only the last batch may be
// short. On an upstream error the partial batch is dropped. A size below 1
// means 1.
func Chunk[T any](p *Pipeline[T], size int) *Pipeline[[]T] {
	size = max(size, 1)
	return then(p, func(src Iterator[T]) Iterator[[]T] {
		return &chunkIter[T]{Iterator: src, size: size}
	})
}

// stepIter applies step to every value pulled from the embedded source,
// whose Close it inherits.
type stepIter[I, O any] struct {
	Iterator[I]
	step func(context.Context, I) (O, error)
}

func (it *stepIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	var zero O
	in, ok, err := it.Iterator.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	out, err := it.step(ctx, in)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

type chunkIter[T any] struct {
	Iterator[T]
	size int
	done bool
}

func (it *chunkIter[T]) Next(ctx context.Context) ([]T, bool, error) {
	var batch []T
	for !it.done && len(batch) < it.size {
		v, ok, err := it.Iterator.Next(ctx)
		if err != nil {
			it.done = true
			return nil, false, err
		}
		if !ok {
			it.done = true
			break
		}
		if batch == nil {
			batch = make([]T, 0, it.size)
		}
		batch = append(batch, v)
	}
	return batch, len(batch) > 0, nil
}
