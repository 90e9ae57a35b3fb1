package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/personjob/component"
	"github.com/kbukum/personjob/logger"
)

// App runs one finite task between component startup and shutdown. C is
// the caller's config type.
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	signals         []os.Signal

	onStart     []Hook
	onConfigure []func(ctx context.Context, app *App[C]) error
	onStop      []Hook
}

// Hook is an OnStart or OnStop callback.
type Hook func(ctx context.Context) error

// NewApp defaults and validates cfg before anything else happens. Without
// WithLogger the global logger is initialized from cfg's logging section.
// The app logger is registered under the service name.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := appOptions{
		gracefulTimeout: DefaultGracefulTimeout,
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(&o)
	}

	svc := cfg.GetServiceConfig()
	if o.logger == nil {
		logger.Init(&svc.Logging)
		o.logger = logger.GetGlobalLogger()
	}
	logger.Register(svc.Name, o.logger)

	return &App[C]{
		Name:            svc.Name,
		Version:         svc.Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(o.logger),
		Logger:          o.logger,
		gracefulTimeout: o.gracefulTimeout,
		signals:         o.signals,
	}, nil
}

func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnStart hooks run once every component has started.
func (a *App[C]) OnStart(hooks ...Hook) { a.onStart = append(a.onStart, hooks...) }

// OnConfigure callbacks run after the OnStart hooks and may build whatever
// the task needs from started components.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// OnStop hooks run before components are stopped, even when startup or the
// task failed. Each one runs regardless of the others' errors.
func (a *App[C]) OnStop(hooks ...Hook) { a.onStop = append(a.onStop, hooks...) }

// ReadyCheck fails when any registered component reports unhealthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var bad []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.OK() {
			continue
		}
		entry := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			entry += "(" + h.Message + ")"
		}
		bad = append(bad, entry)
	}
	if len(bad) > 0 {
		return fmt.Errorf("unhealthy components: %s", strings.Join(bad, ", "))
	}
	return nil
}

// RunTask starts the components, runs the OnStart hooks and the configure
// callbacks, then runs task under a context that the configured signals
// cancel. Shutdown always follows. When both the task and shutdown fail, the
// task error is returned.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) (err error) {
	start := time.Now()
	a.Logger.Info("Starting application", logger.Fields("name", a.Name, "version", a.Version))

	defer func() {
		if stopErr := a.shutdown(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()
	if err := a.startup(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if len(a.signals) > 0 {
		stop := a.cancelOnSignal(ctx, cancel)
		defer stop()
	}

	if err := task(ctx); err != nil {
		a.Logger.Error("Task failed", logger.MergeWithDuration(logger.Fields(logger.FieldError, err.Error()), time.Since(start)))
		return err
	}
	a.Logger.Info("Task completed", logger.DurationFields("task", time.Since(start)))
	return nil
}

func (a *App[C]) cancelOnSignal(ctx context.Context, cancel context.CancelFunc) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, a.signals...)
	go func() {
		select {
		case sig := <-ch:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()
	return func() { signal.Stop(ch) }
}

func (a *App[C]) startup(ctx context.Context) error {
	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	for i, h := range a.onStart {
		if err := h(ctx); err != nil {
			return fmt.Errorf("onStart hook %d failed: %w", i, err)
		}
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}
	// a failing check is reported, not fatal
	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", logger.Fields(logger.FieldError, err.Error()))
	}
	return nil
}

// shutdown gets a fresh context so a canceled task still stops cleanly.
func (a *App[C]) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var first error
	for i, h := range a.onStop {
		if err := h(ctx); err != nil {
			a.Logger.Error("OnStop hook error", logger.Fields("hook", i, logger.FieldError, err.Error()))
			if first == nil {
				first = fmt.Errorf("onStop hook %d failed: %w", i, err)
			}
		}
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.Fields(logger.FieldError, err.Error()))
		if first == nil {
			first = err
		}
	}
	a.Logger.Debug("Application shutdown complete")
	return first
}
