// Package validation checks job configuration before a run starts.
//
// Struct tag validation uses go-playground/validator; programmatic checks
// collect field errors for rules tags cannot express. Both report an
// INVALID_CONFIG *errors.AppError listing every failing field.
//
// # Struct Tag Validation
//
//	type InputConfig struct {
//	    Path string `json:"path" validate:"required"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("storage.bucket", cfg.Bucket)
//	err := v.Validate()
package validation
