package edit

import "errors"

// Sentinel kinds for edit session errors.
var (
	ErrEditActive = errors.New("an edit session is already open")
	ErrNoEdit     = errors.New("no edit session is open")
	ErrBadState   = errors.New("invalid edit state")
)
