package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/personjob/component"
)

// Component installs the tracer and meter providers on Start and flushes
// them on Stop. When telemetry is disabled it does nothing and the global
// no-op providers stay in place.
type Component struct {
	cfg  Config
	info ServiceInfo

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a telemetry component.
func NewComponent(cfg Config, info ServiceInfo) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, info: info}
}

// Name returns the component name.
func (c *Component) Name() string { return "telemetry" }

// Start initializes the exporters when telemetry is enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	tp, err := InitTracer(ctx, c.cfg, c.info)
	if err != nil {
		return fmt.Errorf("telemetry start: %w", err)
	}
	mp, err := InitMeter(ctx, c.cfg, c.info)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("telemetry start: %w", err)
	}
	c.tp, c.mp = tp, mp
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		c.tp = nil
	}
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		c.mp = nil
	}
	return errors.Join(errs...)
}

// Health reports the component healthy; export failures surface on Stop.
func (c *Component) Health(_ context.Context) component.Health {
	if !c.cfg.Enabled {
		return component.Healthy(c.Name(), "disabled")
	}
	return component.Healthy(c.Name(), "")
}

// Describe summarizes the exporter configuration.
func (c *Component) Describe() component.Description {
	if !c.cfg.Enabled {
		return component.Description{Name: "Telemetry", Type: "telemetry", Details: "disabled"}
	}
	return component.Description{
		Name:    "Telemetry",
		Type:    "telemetry",
		Details: fmt.Sprintf("otlp=%s sample=%.2f interval=%s", c.cfg.Endpoint, c.cfg.SampleRate, c.cfg.Interval),
	}
}
