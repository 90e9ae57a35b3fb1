package batch

import "context"

// ItemReader produces items one at a time. Read returns (zero, false, nil)
// once the source is exhausted.
type ItemReader[T any] interface {
	Open(ctx context.Context) error
	Read(ctx context.Context) (T, bool, error)
	Close() error
}

// ItemProcessor transforms one item.
type ItemProcessor[I, O any] interface {
	Process(ctx context.Context, item I) (O, error)
}

// ItemWriter receives chunks of processed items.
type ItemWriter[T any] interface {
	Open(ctx context.Context) error
	Write(ctx context.Context, items []T) error
	Close(ctx context.Context) error
}

// Flusher is implemented by writers that publish their output only once the
// step has read and written every item. Flush is not called when the step fails.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Named is implemented by readers and writers that carry a display name.
type Named interface {
	Name() string
}

// ProcessorFunc adapts a function to ItemProcessor.
type ProcessorFunc[I, O any] func(ctx context.Context, item I) (O, error)

// Process calls f.
func (f ProcessorFunc[I, O]) Process(ctx context.Context, item I) (O, error) {
	return f(ctx, item)
}

// Chain composes processors of the same type, applied in order.
func Chain[T any](processors ...ItemProcessor[T, T]) ItemProcessor[T, T] {
	return ProcessorFunc[T, T](func(ctx context.Context, item T) (T, error) {
		var err error
		for _, p := range processors {
			item, err = p.Process(ctx, item)
			if err != nil {
				return item, err
			}
		}
		return item, nil
	})
}

// nameOf returns v's display name or fallback.
func nameOf(v any, fallback string) string {
	if n, ok := v.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return fallback
}

// readerIter adapts an opened ItemReader to pipeline.Iterator. Closing is
// left to the step.
type readerIter[T any] struct {
	reader ItemReader[T]
}

func (it *readerIter[T]) Next(ctx context.Context) (T, bool, error) {
	return it.reader.Read(ctx)
}

func (it *readerIter[T]) Close() error { return nil }
