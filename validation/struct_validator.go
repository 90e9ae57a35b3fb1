package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/personjob/errors"
)

var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match the config file keys
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return snakeCase(f.Name)
		}
		return name
	})
	return v
})

// Validate checks s against its `validate` struct tags. Failures come back
// as one INVALID_CONFIG error whose field names are dotted json paths such
// as "storage.provider".
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var failures validator.ValidationErrors
	if !stderrors.As(err, &failures) {
		return errors.InvalidConfig("validation failed").WithCause(err)
	}

	fields := make([]FieldError, len(failures))
	for i, f := range failures {
		// the namespace starts with the root type name
		_, path, _ := strings.Cut(f.Namespace(), ".")
		fields[i] = FieldError{Field: path, Message: describe(f)}
	}
	return newConfigError(fields)
}

var tagMessages = map[string]string{
	"required":      "is required",
	"min":           "must be at least ",
	"gte":           "must be at least ",
	"max":           "must be at most ",
	"lte":           "must be at most ",
	"oneof":         "must be one of: ",
	"required_if":   "is required when ",
	"required_with": "is required together with ",
	"url":           "must be a valid URL",
}

func describe(f validator.FieldError) string {
	msg, ok := tagMessages[f.Tag()]
	if !ok {
		return "is invalid"
	}
	if strings.HasSuffix(msg, " ") {
		return msg + f.Param()
	}
	return msg
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
