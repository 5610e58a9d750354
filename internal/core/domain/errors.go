package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication Errors.

	// ErrAuthFailure indicates no usable credential could be obtained.
	ErrAuthFailure = errors.New("authentication failed")

	// ErrTokenRefreshFailed indicates the refresh token exchange was rejected.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrConsentFailed indicates the interactive authorization flow did not complete.
	ErrConsentFailed = errors.New("authorization consent failed")

	// Sync Errors.

	// ErrRemoteRejection indicates the ads platform rejected a call.
	ErrRemoteRejection = errors.New("rejected by remote platform")

	// ErrNoIdentifiers indicates no input record carried a usable identifier.
	ErrNoIdentifiers = errors.New("no usable identifiers")
)

// Violation is one per-item error reported by the ads platform.
type Violation struct {
	// Code is the platform error code, e.g. "userListError: NAME_ALREADY_USED".
	Code string
	// Message is the human readable description.
	Message string
	// FieldPath locates the offending field when reported.
	FieldPath string
}

// RemoteFailure is a structured rejection from the ads platform.
// errors.Is(err, ErrRemoteRejection) holds for every RemoteFailure.
type RemoteFailure struct {
	// HTTPStatus is the transport status code.
	HTTPStatus int
	// Status is the canonical status name, e.g. "INVALID_ARGUMENT".
	Status string
	// Message is the top level error message.
	Message string
	// RequestID is the platform request id, useful for support tickets.
	RequestID string
	// Violations lists the per-item errors.
	Violations []Violation
}

func (f *RemoteFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "remote failure (%d", f.HTTPStatus)
	if f.Status != "" {
		b.WriteString(" " + f.Status)
	}
	b.WriteString(")")
	if f.Message != "" {
		b.WriteString(": " + f.Message)
	}
	for _, v := range f.Violations {
		fmt.Fprintf(&b, "; %s - %s", v.Code, v.Message)
	}
	return b.String()
}

// Is makes every RemoteFailure match ErrRemoteRejection.
func (f *RemoteFailure) Is(target error) bool {
	return target == ErrRemoteRejection
}

// AsRemoteFailure extracts the structured failure from err, if any.
func AsRemoteFailure(err error) (*RemoteFailure, bool) {
	var f *RemoteFailure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
