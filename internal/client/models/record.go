package models

import (
	"encoding/json"
	"strconv"
)

// Record is one entity row as the backend returns it: named fields mapped to
// scalar or array values. The server assigns the "id" field; the client never
// does.
type Record map[string]any

// ID returns the server-assigned identifier, or 0 when absent. JSON numbers
// decode as float64, but string and json.Number ids are tolerated too.
func (r Record) ID() int64 {
	switch v := r["id"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

// String returns the named field as a string, or "" when absent or not a
// string-like value.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// Strings returns the named field as a string slice (for array-valued fields
// such as expo dates). Non-array values yield nil.
func (r Record) Strings(key string) []string {
	arr, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Records returns the named field as nested records (for object-array fields
// such as a customer's attachments). Non-object entries are skipped.
func (r Record) Records(key string) []Record {
	arr, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// Clone returns a shallow copy so callers can hand records out without
// exposing internal state to mutation.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
