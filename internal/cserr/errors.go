// Package cserr defines stable error codes for analysis failure modes.
package cserr

import (
	"errors"
	"fmt"
)

// Code identifies a failure mode with a stable machine-readable value.
type Code string

const (
	// PathNotFound indicates the analysis root does not exist or is not a directory.
	PathNotFound Code = "PATH_NOT_FOUND"
	// ManifestInvalid indicates a dependency manifest could not be parsed.
	ManifestInvalid Code = "MANIFEST_INVALID"
	// CatalogInvalid indicates the vulnerability catalog could not be loaded.
	CatalogInvalid Code = "CATALOG_INVALID"
	// StoreFailure indicates the history store rejected an operation.
	StoreFailure Code = "STORE_FAILURE"
	// Canceled indicates the run was canceled between phases.
	Canceled Code = "CANCELED"
	// Internal indicates an unexpected error.
	Internal Code = "INTERNAL_ERROR"
)

// Error carries a stable code alongside a human-readable message.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error that records an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors by code so sentinel comparisons survive wrapping.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// ErrPathNotFound is the fatal error returned when the analysis root is
// missing or not a directory. Nothing partial exists to return in that case.
var ErrPathNotFound = New(PathNotFound, "path does not exist or is not a directory")

// CodeOf extracts the stable code from an error chain, or Internal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}
