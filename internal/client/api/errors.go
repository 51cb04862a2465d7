package api

import (
	"errors"
	"fmt"
)

// Kind tells how a request failed.
type Kind int

const (
	// KindNetwork means no response was received.
	KindNetwork Kind = iota
	// KindDetail means the service explained the failure in its body.
	KindDetail
	// KindStatus means only the status code is known.
	KindStatus
)

var (
	// ErrForbidden is returned when the actor may not read the event log.
	ErrForbidden = errors.New("forbidden_access")
	// ErrAlreadyRegistered is what a failed registration with status 500
	// means for this service, whatever the body says.
	ErrAlreadyRegistered = errors.New("Email is already registered")
)

// Error is a failed call to the service.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("network error: %v", e.Err)
	case KindDetail:
		return e.Detail
	default:
		return fmt.Sprintf("Error: %d", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf reports the HTTP status behind err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
