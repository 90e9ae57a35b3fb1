package logger

import "fmt"

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level" json:"level"`
	Format    string `yaml:"format" mapstructure:"format" json:"format"`
	Output    string `yaml:"output" mapstructure:"output" json:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color" json:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp" json:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller" json:"caller"`
	// ServiceName tags console output. Filled from the service config when empty.
	ServiceName string `yaml:"service_name" mapstructure:"service_name" json:"service_name"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	if !contains(validLevels, c.Level) {
		return fmt.Errorf("logging.level must be one of %v (got: %s)", validLevels, c.Level)
	}
	validFormats := []string{"json", "console", FormatPretty}
	if !contains(validFormats, c.Format) {
		return fmt.Errorf("logging.format must be one of %v (got: %s)", validFormats, c.Format)
	}
	validOutputs := []string{"stdout", "stderr"}
	if !contains(validOutputs, c.Output) {
		return fmt.Errorf("logging.output must be one of %v (got: %s)", validOutputs, c.Output)
	}
	return nil
}

func contains(slice []string, val string) bool {
	for _, s := range slice {
		if s == val {
			return true
		}
	}
	return false
}
