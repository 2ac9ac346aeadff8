// Package apperr holds the error kinds every domain error wraps. Services
// declare their own sentinels on top of these, so callers can branch either on
// the precise sentinel or on the kind:
//
//	var ErrDeliveryAlreadyAssigned = apperr.Conflict("delivery already assigned")
//	errors.Is(err, ErrDeliveryAlreadyAssigned) // precise
//	errors.Is(err, apperr.ErrConflict)         // kind
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is malformed input, rejected before anything is persisted.
	ErrValidation = errors.New("validation error")
	// ErrConflict means a race was lost or the target already changed; the
	// caller should re-read state and decide.
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
	// ErrUpstream is an unreachable or ambiguous external dependency. Retryable.
	ErrUpstream = errors.New("upstream error")
	// ErrDomainState is an operation that the current state does not allow.
	ErrDomainState = errors.New("invalid state")
	// ErrUnauthorized is a request whose authenticity could not be proven.
	ErrUnauthorized = errors.New("unauthorized")
)

func Validation(msg string) error   { return fmt.Errorf("%w: %s", ErrValidation, msg) }
func Conflict(msg string) error     { return fmt.Errorf("%w: %s", ErrConflict, msg) }
func NotFound(msg string) error     { return fmt.Errorf("%w: %s", ErrNotFound, msg) }
func Upstream(msg string) error     { return fmt.Errorf("%w: %s", ErrUpstream, msg) }
func DomainState(msg string) error  { return fmt.Errorf("%w: %s", ErrDomainState, msg) }
func Unauthorized(msg string) error { return fmt.Errorf("%w: %s", ErrUnauthorized, msg) }

// IsRetryable reports whether the caller may retry the same request unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUpstream)
}
