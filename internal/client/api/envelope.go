package api

import (
	"encoding/json"
	"sort"
)

// Envelope is the fixed JSON wrapper every backend endpoint returns.
// Status carries the HTTP status code and is filled in by the client,
// not decoded from the body.
type Envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Status  int               `json:"-"`
}

// FirstFieldError returns the first field-level error in stable (key-sorted)
// order, falling back to Message when no field errors are present.
func (e *Envelope) FirstFieldError() string {
	if len(e.Errors) > 0 {
		keys := make([]string, 0, len(e.Errors))
		for k := range e.Errors {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return e.Errors[keys[0]]
	}
	return e.Message
}
