package bootstrap

import (
	"github.com/kbukum/personjob/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig (value embedding) and defines
// its own ApplyDefaults and Validate satisfies this interface.
//
// Example:
//
//	type JobConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Storage storage.Config `yaml:"storage" mapstructure:"storage"`
//	}
//
//	app, err := bootstrap.NewApp[*JobConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
