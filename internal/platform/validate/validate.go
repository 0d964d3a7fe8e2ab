// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Handlers validate decoded request payloads with this package before invoking
// the service layer, so business logic only operates on semantically valid data.
// Storage never validates.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/datapipeline/pro-api/internal/platform/apperr"
)

// Password policy bounds.
const (
	PasswordMinLength = 8
	PasswordMaxLength = 100
	UsernameMinLength = 3
	UsernameMaxLength = 50
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 email address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// Username enforces the account naming policy: alphanumeric only,
// between [UsernameMinLength] and [UsernameMaxLength] characters.
func (v *Validator) Username(field, value string) *Validator {
	length := utf8.RuneCountInString(value)
	if length < UsernameMinLength || length > UsernameMaxLength {
		v.add(field, fmt.Sprintf("Must be between %d and %d characters", UsernameMinLength, UsernameMaxLength))
		return v
	}

	for _, r := range value {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			v.add(field, "Must be alphanumeric (no spaces or special characters)")
			return v
		}
	}
	return v
}

// Password enforces the password strength policy: length between
// [PasswordMinLength] and [PasswordMaxLength], with at least one digit,
// one uppercase letter, and one lowercase letter.
func (v *Validator) Password(field, value string) *Validator {
	length := utf8.RuneCountInString(value)
	if length < PasswordMinLength {
		v.add(field, fmt.Sprintf("Minimum %d characters", PasswordMinLength))
		return v
	}
	if length > PasswordMaxLength {
		v.add(field, fmt.Sprintf("Maximum %d characters", PasswordMaxLength))
		return v
	}

	var hasDigit, hasUpper, hasLower bool
	for _, r := range value {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}

	if !hasDigit {
		v.add(field, "Must contain at least one digit")
	}
	if !hasUpper {
		v.add(field, "Must contain at least one uppercase letter")
	}
	if !hasLower {
		v.add(field, "Must contain at least one lowercase letter")
	}
	return v
}

// OneOf fails if the value is not in the allowed set of strings.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.add(field, fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("new_password", newPassword == currentPassword, "Must differ from the current password")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
