package queue

import "errors"

// Sentinel kinds for enqueue failures.
var (
	ErrFull   = errors.New("evidence queue full")
	ErrClosed = errors.New("evidence queue closed")
)
