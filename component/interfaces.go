package component

import "context"

// HealthStatus is the coarse state reported by a component health check.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is one component's answer to a readiness check.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Healthy reports a passing check for name with an optional note.
func Healthy(name, message string) Health {
	return Health{Name: name, Status: StatusHealthy, Message: message}
}

// Unhealthy reports a failing check for name and the reason it failed.
func Unhealthy(name, reason string) Health {
	return Health{Name: name, Status: StatusUnhealthy, Message: reason}
}

// OK is true only for StatusHealthy.
func (h Health) OK() bool { return h.Status == StatusHealthy }

// Component is a piece of infrastructure the job needs up before the first
// step runs and torn down after the last one. Name must be unique within a
// Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description is what the Registry logs next to a component once it has
// started. An empty Name falls back to Component.Name.
type Description struct {
	Name    string
	Type    string // "storage", "telemetry"
	Details string // e.g. "local base=/data" or "s3 bucket=people"
}

// Describable components get their Description logged at startup.
type Describable interface {
	Describe() Description
}
