package storage

import (
	"context"

	"github.com/kbukum/personjob/errors"
	"github.com/kbukum/personjob/logger"
)

// Factory creates a Storage implementation from config. Each backend package
// registers one in init.
type Factory func(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error)

var factories = make(map[string]Factory)

// RegisterFactory registers a storage backend factory for the given provider name.
func RegisterFactory(name string, f Factory) {
	factories[name] = f
}

// New creates a Storage implementation based on the given Config.
// Ensure the desired provider package has been imported (e.g.
// _ "github.com/kbukum/personjob/storage/local") so its factory is registered.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f, ok := factories[cfg.Provider]
	if !ok {
		return nil, errors.InvalidConfig("storage provider " + cfg.Provider + " is not registered")
	}

	l := log.WithComponent("storage")
	l.Info("initializing storage", map[string]interface{}{"provider": cfg.Provider})

	s, err := f(ctx, cfg, l)
	if err != nil {
		return nil, errors.StorageUnavailable(cfg.Provider, err)
	}
	return s, nil
}
