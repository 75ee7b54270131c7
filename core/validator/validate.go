package validator

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// ValidationError carries every failed field and its messages.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// StatusCode implements the router's status code contract.
func (e *ValidationError) StatusCode() int {
	return http.StatusUnprocessableEntity
}

// First returns the first message for field, or "".
func (e *ValidationError) First(field string) string {
	if msgs := e.Fields[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// NewError builds a ValidationError for a single field.
func NewError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

// Validate collects the errors of every validator in fields. On failure it
// returns a *ValidationError holding all of them. Otherwise it returns the
// final value of every field that was present in input.
func Validate(fields map[string]*StringValidator, input map[string]*string) (map[string]string, error) {
	failed := make(map[string][]string)
	for name, v := range fields {
		if v == nil {
			continue
		}
		if errs := v.Errors(); len(errs) > 0 {
			failed[name] = errs
		}
	}
	if len(failed) > 0 {
		return nil, &ValidationError{Fields: failed}
	}

	out := make(map[string]string, len(fields))
	for name, v := range fields {
		if v == nil {
			continue
		}
		if in, ok := input[name]; ok && in != nil {
			out[name] = v.Value()
		}
	}
	return out, nil
}

// Input converts form values to the pointer map Validate and String expect.
// A key missing from form stays missing from the result.
func Input(form map[string][]string, keys ...string) map[string]*string {
	out := make(map[string]*string, len(keys))
	for _, k := range keys {
		vals, ok := form[k]
		if !ok || len(vals) == 0 {
			continue
		}
		s := vals[0]
		out[k] = &s
	}
	return out
}
