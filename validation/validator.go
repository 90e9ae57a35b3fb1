package validation

import (
	"fmt"
	"strings"

	"github.com/kbukum/personjob/errors"
)

// FieldError names a config field and what is wrong with it.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates failed checks for rules struct tags cannot express,
// such as relations between sections. Checks chain:
//
//	err := validation.New().
//	    Required("output.path", cfg.Output.Path).
//	    Min("step.chunk_size", cfg.Step.ChunkSize, 1).
//	    Validate()
type Validator struct {
	failed []FieldError
}

// New returns an empty Validator.
func New() *Validator { return &Validator{} }

func (v *Validator) check(ok bool, field, message string) *Validator {
	if !ok {
		v.failed = append(v.failed, FieldError{Field: field, Message: message})
	}
	return v
}

// Required fails when value is empty or blank.
func (v *Validator) Required(field, value string) *Validator {
	return v.check(strings.TrimSpace(value) != "", field, "is required")
}

// Min fails when value is below minVal.
func (v *Validator) Min(field string, value, minVal int) *Validator {
	return v.check(value >= minVal, field, fmt.Sprintf("must be at least %d", minVal))
}

// Custom fails with message when ok is false.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	return v.check(ok, field, message)
}

// Validate returns an INVALID_CONFIG error listing every failed check, or nil.
func (v *Validator) Validate() error {
	if len(v.failed) == 0 {
		return nil
	}
	return newConfigError(v.failed)
}

func newConfigError(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, e := range fields {
		messages[i] = e.Field + ": " + e.Message
	}
	return errors.InvalidConfig(strings.Join(messages, "; ")).WithDetail("fields", fields)
}
