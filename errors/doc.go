// Package errors provides the structured error type used across personjob.
// Every failure that reaches the job boundary is an *AppError carrying a
// machine-readable code, so callers can tell a missing input apart from a
// failed upload without matching on message text.
package errors
