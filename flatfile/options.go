package flatfile

import "github.com/kbukum/personjob/logger"

// DefaultMaxLineSize bounds a single line in bytes.
const DefaultMaxLineSize = 1 << 20

// Option configures a Reader.
type Option func(*options)

type options struct {
	name        string
	linesToSkip int
	comments    []string
	maxLineSize int
	onSkipped   func(line string)
	log         *logger.Logger
}

// WithName sets the reader name used in logs and errors. Defaults to the path.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLinesToSkip skips the first n lines, e.g. a header row.
func WithLinesToSkip(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.linesToSkip = n
		}
	}
}

// WithComments skips lines starting with any of the given prefixes.
func WithComments(prefixes ...string) Option {
	return func(o *options) { o.comments = append(o.comments, prefixes...) }
}

// WithSkippedLinesCallback receives each line dropped by WithLinesToSkip.
func WithSkippedLinesCallback(fn func(line string)) Option {
	return func(o *options) { o.onSkipped = fn }
}

// WithMaxLineSize overrides DefaultMaxLineSize.
func WithMaxLineSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLineSize = n
		}
	}
}

// WithLogger sets the reader's logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}
