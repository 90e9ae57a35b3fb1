// Package logger provides structured logging for personjob using zerolog.
//
// It supports console and JSON output, level configuration and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// bootstrap registers the application logger under the service name, so
// any package can fetch it with Get:
//
//	log := logger.Get("personjob").WithComponent("flatfile")
//	log.Info("resource opened", logger.Fields(logger.FieldResource, path))
package logger
