package service

import "github.com/okian/skillfolio/internal/domain/types"

// Sentinel kinds for service errors, shared with the HTTP adapter.
var (
	ErrSessionNotFound = types.ErrSessionNotFound
	ErrSessionLimit    = types.ErrSessionLimit
	ErrBackpressure    = types.ErrBackpressure
	ErrNotStarted      = types.ErrNotStarted
)
