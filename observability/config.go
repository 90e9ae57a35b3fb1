package observability

import (
	"time"

	"github.com/kbukum/personjob/validation"
)

// Default telemetry settings.
const (
	DefaultEndpoint   = "localhost:4318"
	DefaultSampleRate = 1.0
	DefaultInterval   = 15 * time.Second
)

// Config holds the telemetry section of an application config.
type Config struct {
	// Enabled turns on OTLP export of traces and metrics.
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `mapstructure:"endpoint" json:"endpoint" validate:"required_if=Enabled true"`
	// Insecure disables TLS towards the collector.
	Insecure bool `mapstructure:"insecure" json:"insecure"`
	// SampleRate is the trace sampling ratio.
	SampleRate float64 `mapstructure:"sample_rate" json:"sample_rate" validate:"gte=0,lte=1"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval" json:"interval" validate:"gte=0"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
}

// Validate checks the telemetry configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// ServiceInfo identifies the process in exported telemetry.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}
