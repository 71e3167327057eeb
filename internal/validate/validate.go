// Package validate implements declarative field validation over decoded JSON
// input. A validator is a pure function from (value, field name) to an error
// message; a schema is an ordered list of validators per field. Validation is
// total: any input shape produces a Result, never a panic or error.
package validate

import (
	"fmt"
	"math"
	"net/mail"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Func checks a single value. It returns an empty string when the value is
// acceptable, or a human-readable message naming the field otherwise.
type Func func(value any, field string) string

// Schema maps field names to an ordered validator chain.
type Schema map[string][]Func

type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Apply runs every field's chain against the input map. Per field, the first
// failing validator wins (short-circuit); at most one message is recorded per
// field. Fields are processed in sorted order so output is deterministic.
func Apply(schema Schema, input map[string]any) Result {
	errs := map[string]string{}

	fields := make([]string, 0, len(schema))
	for field := range schema {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		value := input[field]
		for _, fn := range schema[field] {
			if msg := fn(value, field); msg != "" {
				errs[field] = msg
				break
			}
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// absent reports whether a value should be treated as "not provided".
// Every validator except Required passes absent values, so optional fields
// are implicitly valid when empty.
func absent(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

func Required(value any, field string) string {
	if absent(value) {
		return fmt.Sprintf("%s is required", field)
	}
	return ""
}

func Email(value any, field string) string {
	if absent(value) {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%s must be a string", field)
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return fmt.Sprintf("%s must be a valid email address", field)
	}
	return ""
}

func MinLen(n int) Func {
	return func(value any, field string) string {
		if absent(value) {
			return ""
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("%s must be a string", field)
		}
		if utf8.RuneCountInString(s) < n {
			return fmt.Sprintf("%s must be at least %d characters", field, n)
		}
		return ""
	}
}

func MaxLen(n int) Func {
	return func(value any, field string) string {
		if absent(value) {
			return ""
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Sprintf("%s must be a string", field)
		}
		if utf8.RuneCountInString(s) > n {
			return fmt.Sprintf("%s must be at most %d characters", field, n)
		}
		return ""
	}
}

func OneOf(allowed ...string) Func {
	return func(value any, field string) string {
		if absent(value) {
			return ""
		}
		s, ok := value.(string)
		if ok {
			for _, a := range allowed {
				if s == a {
					return ""
				}
			}
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", "))
	}
}

// asNumber accepts the numeric shapes JSON decoding can produce.
func asNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func Range(lo, hi float64) Func {
	return func(value any, field string) string {
		if absent(value) {
			return ""
		}
		n, ok := asNumber(value)
		if !ok {
			return fmt.Sprintf("%s must be a number", field)
		}
		if n < lo || n > hi {
			return fmt.Sprintf("%s must be between %g and %g", field, lo, hi)
		}
		return ""
	}
}

func Integer(value any, field string) string {
	if absent(value) {
		return ""
	}
	n, ok := asNumber(value)
	if !ok || n != math.Trunc(n) {
		return fmt.Sprintf("%s must be an integer", field)
	}
	return ""
}

func NonNegative(value any, field string) string {
	if absent(value) {
		return ""
	}
	n, ok := asNumber(value)
	if !ok {
		return fmt.Sprintf("%s must be a number", field)
	}
	if n < 0 {
		return fmt.Sprintf("%s must not be negative", field)
	}
	return ""
}

func Array(value any, field string) string {
	if absent(value) {
		return ""
	}
	if _, ok := value.([]any); !ok {
		return fmt.Sprintf("%s must be an array", field)
	}
	return ""
}

func NonEmptyArray(value any, field string) string {
	if absent(value) {
		return ""
	}
	arr, ok := value.([]any)
	if !ok || len(arr) == 0 {
		return fmt.Sprintf("%s must be a non-empty array", field)
	}
	return ""
}

// Date accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func Date(value any, field string) string {
	if absent(value) {
		return ""
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Sprintf("%s must be a string", field)
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return ""
	}
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return ""
	}
	return fmt.Sprintf("%s must be a valid date", field)
}

func Boolean(value any, field string) string {
	if absent(value) {
		return ""
	}
	if _, ok := value.(bool); !ok {
		return fmt.Sprintf("%s must be a boolean", field)
	}
	return ""
}
