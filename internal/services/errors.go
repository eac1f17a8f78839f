package services

import (
	"errors"
)

var (
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrCapacityExceeded  = errors.New("guest count exceeds room capacity")
	ErrAlreadyPaid       = errors.New("payment already completed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrProviderError     = errors.New("payment provider error")
	ErrLockUnavailable   = errors.New("resource busy, try again")
)

type ErrorKind string

const (
	KindInternal          ErrorKind = "Internal"
	KindInvalidDateRange  ErrorKind = "InvalidDateRange"
	KindInvalidInput      ErrorKind = "InvalidInput"
	KindNotFound          ErrorKind = "NotFound"
	KindForbidden         ErrorKind = "Forbidden"
	KindConflict          ErrorKind = "Conflict"
	KindCapacityExceeded  ErrorKind = "CapacityExceeded"
	KindAlreadyPaid       ErrorKind = "AlreadyPaid"
	KindInvalidTransition ErrorKind = "InvalidTransition"
	KindProviderError     ErrorKind = "ProviderError"
	KindUnavailable       ErrorKind = "Unavailable"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidDateRange, KindInvalidDateRange},
	{ErrInvalidInput, KindInvalidInput},
	{ErrNotFound, KindNotFound},
	{ErrForbidden, KindForbidden},
	{ErrConflict, KindConflict},
	{ErrCapacityExceeded, KindCapacityExceeded},
	{ErrAlreadyPaid, KindAlreadyPaid},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrProviderError, KindProviderError},
	{ErrLockUnavailable, KindUnavailable},
}

// KindOf classifies err; anything unrecognised is KindInternal.
func KindOf(err error) ErrorKind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
