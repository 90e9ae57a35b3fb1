package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/personjob/component"
	"github.com/kbukum/personjob/logger"
)

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component builds the configured backend on Start and hands it out through
// Storage until Stop.
type Component struct {
	cfg     Config
	log     *logger.Logger
	storage Storage
}

func NewComponent(cfg Config, log *logger.Logger) *Component {
	return &Component{cfg: cfg, log: log.WithComponent("storage")}
}

// Storage is nil before Start and after Stop.
func (c *Component) Storage() Storage { return c.storage }

func (c *Component) Name() string { return "storage" }

func (c *Component) Start(ctx context.Context) error {
	s, err := New(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.storage = s
	return nil
}

func (c *Component) Stop(context.Context) error {
	c.storage = nil
	return nil
}

// Health resolves a URL, which checks the backend configuration without
// touching the disk or the network.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.storage == nil {
		return component.Unhealthy(c.Name(), "storage not initialized")
	}
	if _, err := c.storage.URL(ctx, ".health"); err != nil {
		return component.Unhealthy(c.Name(), fmt.Sprintf("url check failed: %v", err))
	}
	return component.Healthy(c.Name(), "")
}

func (c *Component) Describe() component.Description {
	details := c.cfg.Provider + " base=" + c.cfg.BasePath
	if c.cfg.Provider == ProviderS3 {
		details = "s3 bucket=" + c.cfg.Bucket + " region=" + c.cfg.Region
		if c.cfg.Endpoint != "" {
			details += " endpoint=" + c.cfg.Endpoint
		}
	}
	return component.Description{Name: "Storage", Type: "storage", Details: details}
}
