package bootstrap

import (
	"os"
	"time"

	"github.com/kbukum/personjob/logger"
)

// DefaultGracefulTimeout bounds OnStop hooks plus component shutdown.
const DefaultGracefulTimeout = 15 * time.Second

// Option configures NewApp. Options are not generic, so one set works for
// every config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	signals         []os.Signal
}

// WithLogger skips logger initialization from the config.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds the whole shutdown sequence.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = d }
}

// WithSignals replaces SIGINT and SIGTERM as the signals that cancel a
// running task. With no arguments, signals are not watched.
func WithSignals(sigs ...os.Signal) Option {
	return func(o *appOptions) { o.signals = append([]os.Signal{}, sigs...) }
}
