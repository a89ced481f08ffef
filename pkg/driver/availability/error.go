// Package availability holds the errors a source reports when its device
// cannot be used.
package availability

import (
	"errors"
)

var (
	ErrUnimplemented = NewError("not implemented")
	ErrBusy          = NewError("device or resource busy")
	ErrNoDevice      = NewError("no such device")
	// ErrUnsupportedFormat is returned when the device offers no pixel format
	// a frame can describe.
	ErrUnsupportedFormat = NewError("no supported pixel format")
)

type errorString struct {
	s string
}

func NewError(text string) error {
	return &errorString{text}
}

// IsError reports whether err, or any error it wraps, is an availability
// error.
func IsError(err error) bool {
	var target *errorString
	return errors.As(err, &target)
}

func (e *errorString) Error() string {
	return e.s
}
