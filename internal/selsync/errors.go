package selsync

import (
	"errors"
	"fmt"

	"github.com/jask/selsync/internal/collection"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("selsync: configuration error")
	// ErrInvariantViolation matches every *InvariantViolation.
	ErrInvariantViolation = errors.New("selsync: invariant violation")
	// ErrAlreadyStarted is returned when Start is called on a synchronizer
	// that has left the idle state.
	ErrAlreadyStarted = errors.New("selsync: synchronizer already started")
)

// ConfigurationError reports a host that cannot take part in a binding.
type ConfigurationError struct {
	Host   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Host != "" {
		msg += " for " + e.Host
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InvariantViolation reports a change that could not be relayed because the
// two collections had already diverged.
type InvariantViolation struct {
	Kind  collection.ChangeKind
	Index int
	Err   error
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation relaying %s at %d: %v", e.Kind, e.Index, e.Err)
}

func (e *InvariantViolation) Unwrap() error { return e.Err }

func (e *InvariantViolation) Is(target error) bool { return target == ErrInvariantViolation }

func hostName(host any) string {
	if host == nil {
		return "<nil>"
	}
	if s, ok := host.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", host)
}
