package gousset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned (wrapped in *InvalidArgumentError) when Instrument
	// receives something other than a *Namespace.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when a namespace has no member with the requested name.
	ErrNotFound = errors.New("member not found")

	// ErrNotCallable is returned when a namespace member exists but holds a plain value
	// or a sub-namespace.
	ErrNotCallable = errors.New("member is not callable")

	// ErrNotLoaded is reported when a namespace name cannot be resolved by the Profiler.
	ErrNotLoaded = errors.New("namespace not loaded")
)

// InvalidArgumentError reports the type Instrument actually received.
type InvalidArgumentError struct {
	Got string
}

func newInvalidArgumentError(target any) *InvalidArgumentError {
	if ns, ok := target.(*Namespace); ok && ns == nil {
		return &InvalidArgumentError{Got: "nil *gousset.Namespace"}
	}
	return &InvalidArgumentError{Got: fmt.Sprintf("%T", target)}
}

func (e *InvalidArgumentError) Error() string {
	return "gousset: first argument must be a namespace, got " + e.Got
}

// Unwrap allows errors.Is(err, ErrInvalidArgument).
func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}
