package storage

import (
	"github.com/kbukum/personjob/validation"
)

// Provider constants for supported storage backends.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// Default configuration values.
const (
	DefaultProvider = ProviderLocal
	DefaultBasePath = "."
	DefaultRegion   = "us-east-1"
)

// Config holds storage configuration.
type Config struct {
	// Provider selects the storage backend: "local" or "s3".
	Provider string `mapstructure:"provider" json:"provider" validate:"oneof=local s3"`

	// BasePath is the root directory for local storage.
	BasePath string `mapstructure:"base_path" json:"base_path" validate:"required_if=Provider local"`

	// Bucket is the S3 bucket name.
	Bucket string `mapstructure:"bucket" json:"bucket" validate:"required_if=Provider s3"`

	// Region is the AWS region for S3.
	Region string `mapstructure:"region" json:"region"`

	// Endpoint is a custom S3-compatible endpoint (e.g. MinIO).
	Endpoint string `mapstructure:"endpoint" json:"endpoint" validate:"omitempty,url"`

	// AccessKey and SecretKey set static S3 credentials. Either both or
	// neither; without them the default AWS credential chain applies.
	AccessKey string `mapstructure:"access_key" json:"access_key" validate:"required_with=SecretKey"`
	SecretKey string `mapstructure:"secret_key" json:"secret_key" validate:"required_with=AccessKey"`

	// ForcePathStyle forces path-style S3 URLs.
	ForcePathStyle bool `mapstructure:"force_path_style" json:"force_path_style"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Provider == ProviderLocal && c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
