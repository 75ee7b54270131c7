package validator

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// Default messages.
const (
	MsgRequired  = "Input is required."
	MsgMinLength = "Input length must be at least %d characters."
	MsgMaxLength = "Input length must not exceed %d characters."
	MsgPattern   = "Input format is invalid."
	MsgEquals    = "Input must match the provided value."
	MsgOneOf     = "The value must be one of: %s"
	MsgEmail     = "Invalid email format."
)

var emailValidator = playground.New()

// StringValidator validates one optional string input with a fluent chain of
// rules. Rules run in the order they were added and each failing rule records
// its message. Trim and Transform change the value seen by later rules.
type StringValidator struct {
	value    string
	present  bool
	required bool
	reqMsg   string
	errors   []string
}

// Option configures a StringValidator.
type Option func(*StringValidator)

// Optional makes an absent input valid. Rules are skipped while it is absent.
// An absent required input records the required message and still runs every
// rule against the empty value.
func Optional() Option {
	return func(v *StringValidator) { v.required = false }
}

// WithRequiredMessage overrides the message recorded for an absent required input.
func WithRequiredMessage(msg string) Option {
	return func(v *StringValidator) { v.reqMsg = msg }
}

// String starts a validator for input. A nil input means the field was not submitted.
func String(input *string, opts ...Option) *StringValidator {
	v := &StringValidator{
		required: true,
		reqMsg:   MsgRequired,
	}
	if input != nil {
		v.value = *input
		v.present = true
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.required && !v.present {
		v.errors = append(v.errors, v.reqMsg)
	}
	return v
}

func (v *StringValidator) apply(r rule) *StringValidator {
	if !v.present && !v.required {
		return v
	}
	if !r.check(v.value) {
		v.errors = append(v.errors, r.message)
	}
	return v
}

// Trim removes leading and trailing white space from the value.
func (v *StringValidator) Trim() *StringValidator {
	return v.Transform(strings.TrimSpace)
}

// Transform replaces the value with fn(value).
func (v *StringValidator) Transform(fn func(string) string) *StringValidator {
	if v.present {
		v.value = fn(v.value)
	}
	return v
}

// MinLength requires at least n bytes.
func (v *StringValidator) MinLength(n int, msg ...string) *StringValidator {
	return v.apply(rule{
		check:   func(s string) bool { return len(s) >= n },
		message: message(msg, fmt.Sprintf(MsgMinLength, n)),
	})
}

// MaxLength allows at most n bytes.
func (v *StringValidator) MaxLength(n int, msg ...string) *StringValidator {
	return v.apply(rule{
		check:   func(s string) bool { return len(s) <= n },
		message: message(msg, fmt.Sprintf(MsgMaxLength, n)),
	})
}

// Pattern requires re to match the value.
func (v *StringValidator) Pattern(re *regexp.Regexp, msg ...string) *StringValidator {
	return v.apply(rule{
		check:   re.MatchString,
		message: message(msg, MsgPattern),
	})
}

// Equals requires the value to equal other. A nil other never matches.
func (v *StringValidator) Equals(other *string, msg ...string) *StringValidator {
	return v.apply(rule{
		check:   func(s string) bool { return other != nil && s == *other },
		message: message(msg, MsgEquals),
	})
}

// OneOf requires an exact match with one of options.
func (v *StringValidator) OneOf(options []string, msg ...string) *StringValidator {
	return v.apply(rule{
		check:   func(s string) bool { return slices.Contains(options, s) },
		message: message(msg, fmt.Sprintf(MsgOneOf, strings.Join(options, ", "))),
	})
}

// OneOfFold is OneOf with case-insensitive comparison.
func (v *StringValidator) OneOfFold(options []string, msg ...string) *StringValidator {
	return v.apply(rule{
		check: func(s string) bool {
			return slices.ContainsFunc(options, func(o string) bool { return strings.EqualFold(o, s) })
		},
		message: message(msg, fmt.Sprintf(MsgOneOf, strings.Join(options, ", "))),
	})
}

// Email requires a syntactically valid email address.
func (v *StringValidator) Email(msg ...string) *StringValidator {
	return v.apply(rule{
		check:   func(s string) bool { return emailValidator.Var(s, "required,email") == nil },
		message: message(msg, MsgEmail),
	})
}

// Custom records msg when valid returns false.
func (v *StringValidator) Custom(valid func(value string) bool, msg string) *StringValidator {
	return v.apply(rule{check: valid, message: msg})
}

// Value returns the current, possibly transformed, value.
func (v *StringValidator) Value() string {
	return v.value
}

// Present reports whether the input was submitted.
func (v *StringValidator) Present() bool {
	return v.present
}

// Valid reports whether no rule failed.
func (v *StringValidator) Valid() bool {
	return len(v.errors) == 0
}

// Errors returns every recorded message, or nil.
func (v *StringValidator) Errors() []string {
	if len(v.errors) == 0 {
		return nil
	}
	return slices.Clone(v.errors)
}

// Error returns the first recorded message, or "".
func (v *StringValidator) Error() string {
	if len(v.errors) == 0 {
		return ""
	}
	return v.errors[0]
}
