// Package validate evaluates per-field validation rules. The same
// predicate set backs the builder's live preview and the public filler:
// pure functions, no side effects, deterministic.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"formdesk/internal/domain"
)

// Code classifies a validation failure.
type Code string

const (
	CodeRequired   Code = "required"
	CodeTooShort   Code = "too_short"
	CodeTooLong    Code = "too_long"
	CodeFormat     Code = "format"
	CodeBadPattern Code = "bad_pattern" // the configured regex itself is invalid
)

// Error describes why a value was rejected for a field. A nil *Error
// means the value passed.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Field checks a single submitted value against the field's rules and
// returns nil when it passes. A malformed regex pattern is reported as a
// configuration error on this field; it never aborts evaluation of other
// fields.
func Field(f domain.Field, value string) *Error {
	if f.Required && isEmpty(f, value) {
		return &Error{Code: CodeRequired, Message: fmt.Sprintf("%s is required", f.Label)}
	}
	if value == "" {
		return nil
	}

	switch f.Kind {
	case domain.FieldKindText, domain.FieldKindTextarea:
		length := utf8.RuneCountInString(value)
		if f.Validation.MinLength != nil && length < *f.Validation.MinLength {
			return &Error{
				Code:    CodeTooShort,
				Message: fmt.Sprintf("%s must be at least %d characters", f.Label, *f.Validation.MinLength),
			}
		}
		if f.Validation.MaxLength != nil && length > *f.Validation.MaxLength {
			return &Error{
				Code:    CodeTooLong,
				Message: fmt.Sprintf("%s must be at most %d characters", f.Label, *f.Validation.MaxLength),
			}
		}
	}

	if f.Kind == domain.FieldKindText && f.Validation.Pattern != "" {
		re, err := regexp.Compile(f.Validation.Pattern)
		if err != nil {
			return &Error{
				Code:    CodeBadPattern,
				Message: fmt.Sprintf("%s has an invalid validation pattern", f.Label),
			}
		}
		if !re.MatchString(value) {
			return &Error{Code: CodeFormat, Message: fmt.Sprintf("%s has an invalid format", f.Label)}
		}
	}

	return nil
}

// Submission checks every field of a snapshot against the submitted
// values and returns a map of field id to error for the ones that failed.
// An empty map means the submission is valid.
func Submission(fields []domain.Field, values map[string]string) map[string]Error {
	errs := make(map[string]Error)
	for _, f := range fields {
		if e := Field(f, values[f.ID]); e != nil {
			errs[f.ID] = *e
		}
	}
	return errs
}

// isEmpty decides whether a value counts as missing for the field kind.
// Checkboxes must be the literal "true"; file uploads count the selected
// file name.
func isEmpty(f domain.Field, value string) bool {
	switch f.Kind {
	case domain.FieldKindCheckbox:
		return value != "true"
	default:
		return strings.TrimSpace(value) == ""
	}
}
