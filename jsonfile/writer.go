package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kbukum/personjob/errors"
	"github.com/kbukum/personjob/logger"
	"github.com/kbukum/personjob/storage"
)

const (
	arrayStart     = "["
	arrayEnd       = "]"
	lineSeparator  = "\n"
	itemSeparator  = "," + lineSeparator
	emptyArrayBody = arrayStart + arrayEnd + lineSeparator
)

// Option configures a Writer.
type Option[T any] func(*Writer[T])

// WithName sets the writer name used in logs and errors. Defaults to the path.
func WithName[T any](name string) Option[T] {
	return func(w *Writer[T]) { w.name = name }
}

// WithMarshaller replaces the default JSONMarshaller.
func WithMarshaller[T any](m ObjectMarshaller[T]) Option[T] {
	return func(w *Writer[T]) { w.marshaller = m }
}

// WithFailIfExists makes Open fail when the destination already exists
// instead of replacing it on flush.
func WithFailIfExists[T any]() Option[T] {
	return func(w *Writer[T]) { w.failIfExists = true }
}

// WithLogger sets the writer's logger.
func WithLogger[T any](l *logger.Logger) Option[T] {
	return func(w *Writer[T]) { w.log = l }
}

// Writer buffers items and publishes them as one JSON array on Flush.
type Writer[T any] struct {
	store        storage.Storage
	path         string
	name         string
	marshaller   ObjectMarshaller[T]
	failIfExists bool
	log          *logger.Logger

	items  []T
	opened bool
}

// NewWriter creates a writer for path on store.
func NewWriter[T any](store storage.Storage, path string, opts ...Option[T]) *Writer[T] {
	w := &Writer[T]{
		store:      store,
		path:       path,
		name:       path,
		marshaller: JSONMarshaller[T]{},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.GetGlobalLogger()
	}
	w.log = w.log.WithComponent("jsonfile").WithFields(logger.Fields(logger.FieldResource, w.name))
	return w
}

// Name returns the writer name.
func (w *Writer[T]) Name() string { return w.name }

// Path returns the destination path on the storage backend.
func (w *Writer[T]) Path() string { return w.path }

// Buffered returns the number of items waiting for Flush.
func (w *Writer[T]) Buffered() int { return len(w.items) }

// Open prepares an empty buffer.
func (w *Writer[T]) Open(ctx context.Context) error {
	if w.failIfExists {
		exists, err := w.store.Exists(ctx, w.path)
		if err != nil {
			return errors.WriteFailed(w.name, err)
		}
		if exists {
			return errors.WriteFailed(w.name, fmt.Errorf("destination %s already exists", w.path))
		}
	}
	w.items = w.items[:0]
	w.opened = true
	return nil
}

// Write appends items to the buffer. Nothing is published until Flush.
func (w *Writer[T]) Write(_ context.Context, items []T) error {
	if !w.opened {
		return errors.New(errors.ErrCodeWriteFailed, "writer "+w.name+" is not open")
	}
	w.items = append(w.items, items...)
	return nil
}

// Flush encodes the buffered items and uploads the document in one call.
func (w *Writer[T]) Flush(ctx context.Context) error {
	if !w.opened {
		return errors.New(errors.ErrCodeWriteFailed, "writer "+w.name+" is not open")
	}
	body, err := w.encode()
	if err != nil {
		return errors.WriteFailed(w.name, err)
	}
	if err := w.store.Upload(ctx, w.path, bytes.NewReader(body)); err != nil {
		return errors.WriteFailed(w.name, err)
	}
	w.log.Info("document published", logger.Fields("items", len(w.items), "bytes", len(body)))
	return nil
}

func (w *Writer[T]) encode() ([]byte, error) {
	if len(w.items) == 0 {
		return []byte(emptyArrayBody), nil
	}

	var buf bytes.Buffer
	buf.WriteString(arrayStart + lineSeparator)
	for i, item := range w.items {
		b, err := w.marshaller.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("marshal item %d: %w", i, err)
		}
		if !json.Valid(b) {
			return nil, fmt.Errorf("marshal item %d: not a JSON value", i)
		}
		if i > 0 {
			buf.WriteString(itemSeparator)
		}
		buf.Write(b)
	}
	buf.WriteString(lineSeparator + arrayEnd + lineSeparator)
	return buf.Bytes(), nil
}

// Close drops the buffer. It never publishes.
func (w *Writer[T]) Close(_ context.Context) error {
	w.items = nil
	w.opened = false
	return nil
}
