// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInvalidKeyFormat indicates a price-table key that cannot be parsed
	TypeInvalidKeyFormat Type = "INVALID_KEY_FORMAT"

	// TypeMissingAnchorKey indicates the MTPL anchor is absent from the table
	TypeMissingAnchorKey Type = "MISSING_ANCHOR_KEY"

	// TypeDuplicateAnchorKey indicates more than one key parsed to MTPL
	TypeDuplicateAnchorKey Type = "DUPLICATE_ANCHOR_KEY"

	// TypeInvalidPrice indicates a non-finite or non-positive price
	TypeInvalidPrice Type = "INVALID_PRICE"

	// TypeInput indicates an input validation error
	TypeInput Type = "INPUT_ERROR"

	// TypeParsing indicates a price-table file parsing error
	TypeParsing Type = "PARSING_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"

	// TypeNotSupported indicates an unsupported operation or format
	TypeNotSupported Type = "NOT_SUPPORTED"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType checks if an error, or any error it wraps, is of a specific type
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// InvalidKeyFormat creates a key parsing error naming the offending token
func InvalidKeyFormat(key, token string) *Error {
	return Newf(TypeInvalidKeyFormat, "invalid key format %q (token %q)", key, token).
		WithContext("key", key).
		WithContext("token", token)
}

// MissingAnchorKey creates an error for a table without its MTPL entry
func MissingAnchorKey(key string) *Error {
	return Newf(TypeMissingAnchorKey, "input must contain key %q", key).
		WithContext("key", key)
}

// DuplicateAnchorKey creates an error for a table with two MTPL entries
func DuplicateAnchorKey(first, second string) *Error {
	return Newf(TypeDuplicateAnchorKey, "keys %q and %q both parse to the anchor product", first, second).
		WithContext("first", first).
		WithContext("second", second)
}

// InvalidPrice creates an error for a price the fixer math is undefined for
func InvalidPrice(key string, value float64) *Error {
	return Newf(TypeInvalidPrice, "price of %q must be finite and positive, got %v", key, value).
		WithContext("key", key).
		WithContext("value", value)
}

// IsInvalidKeyFormat reports whether err is a key parsing error
func IsInvalidKeyFormat(err error) bool {
	return IsType(err, TypeInvalidKeyFormat)
}

// IsMissingAnchorKey reports whether err is a missing-anchor error
func IsMissingAnchorKey(err error) bool {
	return IsType(err, TypeMissingAnchorKey)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// NotSupported creates a not supported error
func NotSupported(operation string) *Error {
	return Newf(TypeNotSupported, "operation not supported: %s", operation)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
