package smoke

import "errors"

// Sentinel kinds for smoke failures.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrAssertion        = errors.New("assertion failed")
	ErrTimeout          = errors.New("timed out waiting")
	ErrUnknownScenario  = errors.New("unknown scenario")
)
