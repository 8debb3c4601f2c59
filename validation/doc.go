// Package validation checks structs against `validate` tags using the
// go-playground validator.
//
// Config structs and HTTP request structs share the same mechanism:
//
//	type query struct {
//	    Limit int `form:"limit" validate:"gte=1,lte=100"`
//	}
//	if err := validation.Validate(&q); err != nil { ... }
//
// Failures come back as INVALID_INPUT AppErrors with per-field details, so
// HTTP handlers can return them directly.
package validation
