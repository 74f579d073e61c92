package errors

import "errors"

var (
	ErrInvalidCapacity = errors.New("invalid capacity")
	ErrClosed          = errors.New("cache closed")
)
