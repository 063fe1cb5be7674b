package schema

import (
	"fmt"
	"strings"
)

// ValidationError is a client-side rule violation caught before any network
// call is attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks values against the kind's field schema: required free-text
// fields must be non-empty after trimming, select values must come from the
// option set, and kind-specific rules (at least one date for an expo,
// non-empty category for a product) are applied on top.
//
// The first violation found, in schema order, is returned.
func Validate(kind EntityKind, values map[string]any) error {
	for _, f := range Fields(kind) {
		switch f.Kind {
		case FieldText, FieldTextarea, FieldAutocomplete:
			s, _ := values[f.Key].(string)
			if f.Required && strings.TrimSpace(s) == "" {
				return &ValidationError{Field: f.Key, Message: requiredMessage(kind, f)}
			}

		case FieldSelect:
			s, _ := values[f.Key].(string)
			if s == "" {
				// Select fields default to the first option when unset.
				continue
			}
			if !contains(f.Options, s) {
				return &ValidationError{
					Field:   f.Key,
					Message: fmt.Sprintf("%s must be one of: %s", f.Label, strings.Join(f.Options, ", ")),
				}
			}

		case FieldMultiDate:
			dates := stringSlice(values[f.Key])
			if f.Required && len(dates) == 0 {
				return &ValidationError{Field: f.Key, Message: "Please select at least one date"}
			}
		}
	}
	return nil
}

// ApplyDefaults fills unset select fields with their first option and returns
// the map for chaining. A nil map is allocated first, so callers may pass
// their field values through unconditionally.
func ApplyDefaults(kind EntityKind, values map[string]any) map[string]any {
	if values == nil {
		values = map[string]any{}
	}
	for _, f := range Fields(kind) {
		if f.Kind != FieldSelect || len(f.Options) == 0 {
			continue
		}
		if s, _ := values[f.Key].(string); s == "" {
			values[f.Key] = f.Options[0]
		}
	}
	return values
}

func requiredMessage(kind EntityKind, f Field) string {
	if kind == KindProduct && f.Key == "category" {
		return "Product category is required"
	}
	return fmt.Sprintf("%s is required", f.Label)
}

func contains(opts []string, v string) bool {
	for _, o := range opts {
		if o == v {
			return true
		}
	}
	return false
}

func stringSlice(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
