package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/personjob/logger"
)

// Environments accepted in ServiceConfig.Environment.
var Environments = []string{"development", "staging", "production"}

// ServiceConfig is the part of every personjob config that identifies the
// process and sets up its logging. Job configs embed it squashed:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Storage storage.Config `yaml:"storage" mapstructure:"storage"`
//	}
type ServiceConfig struct {
	Name        string `yaml:"name" mapstructure:"name" json:"name"`
	Environment string `yaml:"environment" mapstructure:"environment" json:"environment"`
	Version     string `yaml:"version" mapstructure:"version" json:"version"`
	// Debug lowers the default log level to debug. It is on in development.
	Debug   bool          `yaml:"debug" mapstructure:"debug" json:"debug"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging" json:"logging"`
}

// GetServiceConfig is promoted through embedding, which is how job configs
// satisfy bootstrap.Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig { return c }

// ApplyDefaults must be called first by embedding types that override it.
// An explicit logging.level always wins over Debug.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Debug = c.Debug || c.Environment == "development"
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate must be called first by embedding types that override it.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !slices.Contains(Environments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", Environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
