// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines the application error type and its classification.
// Every AppError is terminal for a run; the Kind tells which phase produced it.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error by the phase that produced it.
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindArgument     Kind = "argument"      // Wrong CLI argument count or empty argument
	KindConfigRead   Kind = "config_read"   // Job document could not be opened or read
	KindConfigParse  Kind = "config_parse"  // Job document is not valid JSON
	KindConfigSchema Kind = "config_schema" // Job document has the wrong shape
	KindAuth         Kind = "auth"          // Registry login failed
	KindPull         Kind = "pull"
	KindTag          Kind = "tag"
	KindPush         Kind = "push"
	KindSync         Kind = "sync" // Aggregate failure when continuing past errors
)

// AppError is an error with a kind, a human-readable message and,
// for registry client failures, the client's captured output.
type AppError struct {
	Kind    Kind   // Error classification
	Message string // Human-readable message
	Output  string // Captured client output (already redacted)
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError without an underlying cause.
func New(kind Kind, format string, args ...interface{}) *AppError {
	return &AppError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an AppError around err.
func Wrap(kind Kind, err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WithOutput attaches captured client output to the error and returns it.
func (e *AppError) WithOutput(output string) *AppError {
	e.Output = output
	return e
}

// KindOf returns the kind of the first AppError in err's chain,
// or KindUnknown if there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// OutputOf returns the captured client output of the first AppError in err's chain.
func OutputOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Output
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
