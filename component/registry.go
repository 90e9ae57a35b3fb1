package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/personjob/logger"
)

// DefaultStopTimeout bounds each component's Stop call.
const DefaultStopTimeout = 10 * time.Second

type slot struct {
	Component
	running bool
}

// Registry owns the job's components. StartAll walks them in registration
// order and StopAll walks back, touching only those that started.
type Registry struct {
	mu    sync.Mutex
	slots []*slot
	log   *logger.Logger
}

// NewRegistry logs through log, or the global logger when log is nil.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Registry{log: log.WithComponent("component")}
}

// Register appends c. Dependencies must be registered before their users.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.Name() == c.Name() {
			return fmt.Errorf("component %s already registered", c.Name())
		}
	}
	r.slots = append(r.slots, &slot{Component: c})
	r.log.Debug("Component registered", logger.Fields(logger.FieldResource, c.Name()))
	return nil
}

// StartAll stops at the first failure. Components started before it stay
// running until StopAll.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Info("Starting all components", logger.Fields("count", len(r.slots)))
	for _, s := range r.slots {
		if err := s.Start(ctx); err != nil {
			r.log.Error("Component start failed", logger.Fields(logger.FieldResource, s.Name(), logger.FieldError, err.Error()))
			return fmt.Errorf("failed to start %s: %w", s.Name(), err)
		}
		s.running = true

		fields := logger.Fields(logger.FieldResource, s.Name())
		if d, ok := s.Component.(Describable); ok {
			desc := d.Describe()
			fields["type"], fields["details"] = desc.Type, desc.Details
		}
		r.log.Info("Component started", fields)
	}
	return nil
}

// StopAll gives each running component DefaultStopTimeout and keeps going
// past failures. Calling it twice is harmless.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.slots) - 1; i >= 0; i-- {
		s := r.slots[i]
		if !s.running {
			continue
		}
		s.running = false
		if err := r.stop(ctx, s); err != nil {
			r.log.Error("Component stop failed", logger.Fields(logger.FieldResource, s.Name(), logger.FieldError, err.Error()))
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", s.Name(), err))
			continue
		}
		r.log.Debug("Component stopped", logger.Fields(logger.FieldResource, s.Name()))
	}
	return errors.Join(errs...)
}

func (r *Registry) stop(ctx context.Context, s *slot) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
	defer cancel()
	return s.Stop(ctx)
}

// HealthAll checks every registered component, started or not.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Health, 0, len(r.slots))
	for _, s := range r.slots {
		out = append(out, s.Health(ctx))
	}
	return out
}
