// Package errors provides error handling for decross.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints surfaced by the CLI
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := reader.ReadFrame(); err != nil {
//	    return errors.Wrap(err, "failed to read frame")
//	}
//
//	// Reject a parameter with a named error and a hint
//	return errors.NewInvalidConfigError("margin must be between 0 and 4, got %d", m)
//
//	// Check errors
//	if errors.IsInvalidConfigError(err) {
//	    // report and exit before touching any frame
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors for decross.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrInvalidConfig indicates a filter or pipeline parameter is out of range
	ErrInvalidConfig = New("invalid configuration")

	// ErrUnsupportedFormat indicates a pixel format or geometry the filter cannot process
	ErrUnsupportedFormat = New("unsupported format")

	// ErrGeometryMismatch indicates frames that do not share the filter's format and dimensions
	ErrGeometryMismatch = New("frame geometry mismatch")

	// ErrMalformedStream indicates a container stream that cannot be parsed
	ErrMalformedStream = New("malformed stream")
)

// IsInvalidConfigError checks if an error is or wraps ErrInvalidConfig
func IsInvalidConfigError(err error) bool {
	return err != nil && Is(err, ErrInvalidConfig)
}

// IsUnsupportedFormatError checks if an error is or wraps ErrUnsupportedFormat
func IsUnsupportedFormatError(err error) bool {
	return err != nil && Is(err, ErrUnsupportedFormat)
}

// IsGeometryMismatchError checks if an error is or wraps ErrGeometryMismatch
func IsGeometryMismatchError(err error) bool {
	return err != nil && Is(err, ErrGeometryMismatch)
}

// IsMalformedStreamError checks if an error is or wraps ErrMalformedStream
func IsMalformedStreamError(err error) bool {
	return err != nil && Is(err, ErrMalformedStream)
}

// NewInvalidConfigError creates an invalid-config error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidConfig, Newf(format, args...).Error())
}

// NewUnsupportedFormatError creates an unsupported-format error with a formatted message
func NewUnsupportedFormatError(format string, args ...interface{}) error {
	return Wrap(ErrUnsupportedFormat, Newf(format, args...).Error())
}

// NewGeometryMismatchError creates a geometry-mismatch error with a formatted message
func NewGeometryMismatchError(format string, args ...interface{}) error {
	return Wrap(ErrGeometryMismatch, Newf(format, args...).Error())
}

// WrapMalformedStream wraps an error as a malformed-stream error with context
func WrapMalformedStream(err error, context string) error {
	return Wrap(Wrap(ErrMalformedStream, err.Error()), context)
}
