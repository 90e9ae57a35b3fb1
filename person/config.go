package person

import (
	"fmt"

	"github.com/kbukum/personjob/config"
	"github.com/kbukum/personjob/observability"
	"github.com/kbukum/personjob/storage"
	"github.com/kbukum/personjob/validation"
)

// Defaults for the job configuration.
const (
	DefaultServiceName = "personjob"
	DefaultInputPath   = "sample-data.csv"
	DefaultOutputPath  = "people.json"
)

// InputConfig locates and shapes the input file.
type InputConfig struct {
	Path        string   `yaml:"path" mapstructure:"path" json:"path"`
	LinesToSkip int      `yaml:"lines_to_skip" mapstructure:"lines_to_skip" json:"lines_to_skip"`
	Comments    []string `yaml:"comments" mapstructure:"comments" json:"comments"`
}

// OutputConfig locates the output document.
type OutputConfig struct {
	Path         string `yaml:"path" mapstructure:"path" json:"path"`
	FailIfExists bool   `yaml:"fail_if_exists" mapstructure:"fail_if_exists" json:"fail_if_exists"`
}

// StepConfig tunes the processing step.
type StepConfig struct {
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size" json:"chunk_size"`
}

// Config is the configuration of the personjob binary.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Storage   storage.Config       `yaml:"storage" mapstructure:"storage" json:"storage"`
	Input     InputConfig          `yaml:"input" mapstructure:"input" json:"input"`
	Output    OutputConfig         `yaml:"output" mapstructure:"output" json:"output"`
	Step      StepConfig           `yaml:"step" mapstructure:"step" json:"step"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry" json:"telemetry"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Telemetry.ApplyDefaults()

	if c.Input.Path == "" {
		c.Input.Path = DefaultInputPath
	}
	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}
	if c.Step.ChunkSize == 0 {
		c.Step.ChunkSize = 1
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("config.storage: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}

	v := validation.New().
		Required("input.path", c.Input.Path).
		Min("input.lines_to_skip", c.Input.LinesToSkip, 0).
		Required("output.path", c.Output.Path).
		Min("step.chunk_size", c.Step.ChunkSize, 1).
		Custom(c.Storage.Provider != storage.ProviderLocal || c.Input.Path != c.Output.Path,
			"output.path", "must differ from input.path")
	for i, prefix := range c.Input.Comments {
		v.Required(fmt.Sprintf("input.comments[%d]", i), prefix)
	}
	return v.Validate()
}

// ServiceInfo identifies the process in telemetry.
func (c *Config) ServiceInfo() observability.ServiceInfo {
	return observability.ServiceInfo{Name: c.Name, Version: c.Version, Environment: c.Environment}
}

// Resources resolves the configured input and output on store.
func (c *Config) Resources(store storage.Storage) Resources {
	return Resources{
		Input:      store,
		InputPath:  c.Input.Path,
		Output:     store,
		OutputPath: c.Output.Path,
	}
}

// Options turns the input, output and step sections into job options.
func (c *Config) Options() []Option {
	opts := []Option{
		WithChunkSize(c.Step.ChunkSize),
		WithLinesToSkip(c.Input.LinesToSkip),
	}
	if len(c.Input.Comments) > 0 {
		opts = append(opts, WithComments(c.Input.Comments...))
	}
	if c.Output.FailIfExists {
		opts = append(opts, WithFailIfExists())
	}
	return opts
}
