// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import "fmt"

// Error is the error form of a failed outcome.
//
// Operations never return it directly: outcomes are values (see Res). Callers
// that prefer error flow convert an outcome with Res.Err.
type Error struct {
	// Operation that produced the outcome, e.g. "GetSchemas"
	Operation string

	// Status of the outcome
	Status Status

	// Message is the human-readable outcome message
	Message string

	// InternalMsg holds details for server-side logs only, such as the
	// underlying transport error or the HTTP error body
	InternalMsg string
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("bvc: %s failed: %s", e.Operation, e.Message)
}

// DetailedError returns the message including internal details.
//
// Controller error bodies may echo configuration back, so only use this in
// logs that are not shown to end users.
func (e *Error) DetailedError() string {
	if e.InternalMsg == "" {
		return e.Error()
	}
	return fmt.Sprintf("bvc: %s failed: %s (internal: %s)", e.Operation, e.Message, e.InternalMsg)
}

// ValidationError reports a constructor argument that failed validation.
// It is returned before any request is sent.
type ValidationError struct {
	// Field is the argument name, e.g. "flow id"
	Field string

	// Reason describes the violation
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Required returns a ValidationError for a missing argument.
func Required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}
