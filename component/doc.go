// Package component defines the lifecycle interface shared by the job's
// infrastructure pieces (storage backends, telemetry exporters) and a
// registry that starts them in order and stops them in reverse.
//
// # Interfaces
//
//   - Component: Start/Stop/Health lifecycle
//   - Describable: optional self-description logged at startup
package component
