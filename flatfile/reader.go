package flatfile

import (
	"bufio"
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/kbukum/personjob/errors"
	"github.com/kbukum/personjob/logger"
	"github.com/kbukum/personjob/storage"
)

const byteOrderMark = "\ufeff"

// Reader streams items from a line-oriented resource. It is forward-only;
// Close and Open again to start over.
type Reader[T any] struct {
	store  storage.Storage
	path   string
	mapper LineMapper[T]
	opts   options
	log    *logger.Logger

	rc         io.ReadCloser
	scanner    *bufio.Scanner
	lineNumber int
}

// NewReader creates a reader for path on store.
func NewReader[T any](store storage.Storage, path string, mapper LineMapper[T], opts ...Option) *Reader[T] {
	o := options{name: path, maxLineSize: DefaultMaxLineSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}
	return &Reader[T]{
		store:  store,
		path:   path,
		mapper: mapper,
		opts:   o,
		log:    o.log.WithComponent("flatfile").WithFields(logger.Fields(logger.FieldResource, o.name)),
	}
}

// Name returns the reader name.
func (r *Reader[T]) Name() string { return r.opts.name }

// Path returns the resource path on the storage backend.
func (r *Reader[T]) Path() string { return r.path }

// LineNumber returns the number of physical lines consumed so far.
func (r *Reader[T]) LineNumber() int { return r.lineNumber }

// Open opens the resource. A missing resource yields RESOURCE_NOT_FOUND.
func (r *Reader[T]) Open(ctx context.Context) error {
	if r.rc != nil {
		return errors.New(errors.ErrCodeReadFailed, "reader "+r.opts.name+" is already open")
	}
	rc, err := r.store.Download(ctx, r.path)
	if err != nil {
		if storage.IsNotFound(err) {
			return errors.ResourceNotFound(r.path).WithCause(err)
		}
		return errors.ReadFailed(r.opts.name, 0, err)
	}

	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, min(bufio.MaxScanTokenSize, r.opts.maxLineSize)), r.opts.maxLineSize)

	r.rc, r.scanner, r.lineNumber = rc, sc, 0
	r.log.Debug("resource opened", logger.Fields("path", r.path))
	return nil
}

// Read returns the next mapped item, or ok=false at end of input.
func (r *Reader[T]) Read(_ context.Context) (item T, ok bool, err error) {
	if r.scanner == nil {
		return item, false, errors.New(errors.ErrCodeReadFailed, "reader "+r.opts.name+" is not open")
	}

	for r.scanner.Scan() {
		r.lineNumber++
		line := r.scanner.Text()
		if r.lineNumber == 1 {
			line = strings.TrimPrefix(line, byteOrderMark)
		}
		line = toValidUTF8(line)

		if r.lineNumber <= r.opts.linesToSkip {
			if r.opts.onSkipped != nil {
				r.opts.onSkipped(line)
			}
			continue
		}
		if r.isComment(line) {
			continue
		}

		item, err = r.mapper(line, r.lineNumber)
		if err != nil {
			return item, false, errors.ReadFailed(r.opts.name, r.lineNumber, err)
		}
		return item, true, nil
	}

	if err := r.scanner.Err(); err != nil {
		return item, false, errors.ReadFailed(r.opts.name, r.lineNumber+1, err)
	}
	return item, false, nil
}

// toValidUTF8 replaces every byte that is not part of a valid UTF-8 sequence
// with U+FFFD, the same substitution encoding/json makes on output.
func toValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(r)
	}
	return b.String()
}

func (r *Reader[T]) isComment(line string) bool {
	for _, prefix := range r.opts.comments {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// Close releases the resource. Closing a closed reader is a no-op.
func (r *Reader[T]) Close() error {
	if r.rc == nil {
		return nil
	}
	err := r.rc.Close()
	r.rc, r.scanner = nil, nil
	r.log.Debug("resource closed", logger.Fields("lines", r.lineNumber))
	return err
}
