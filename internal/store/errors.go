package store

import (
	"errors"
	"fmt"
)

// Kind tells callers whether a failed operation may be retried
type Kind int

const (
	// KindTransient failures (I/O, locking, timeouts) are safe to retry
	KindTransient Kind = iota + 1
	// KindInvalid failures are caused by the data and must not be retried
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Error is a typed persistence or validation failure
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient wraps err as a retry-safe failure
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: KindTransient, Err: err}
}

// Invalid wraps err as a do-not-retry failure
func Invalid(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: KindInvalid, Err: err}
}

// IsTransient reports whether err is marked retry-safe
func IsTransient(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindTransient
}

// IsInvalid reports whether err is marked as invalid data
func IsInvalid(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindInvalid
}
