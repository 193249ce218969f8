package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/skillfolio/internal/domain/edit"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/pool"
	"github.com/okian/skillfolio/internal/domain/types"
)

// Sentinel kinds for API errors.
var (
	ErrServe      = errors.New("serve failed")
	ErrBadRequest = errors.New("bad request")
)

// Error codes carried in error responses.
const (
	codeBadRequest     = "bad_request"
	codeNotFound       = "not_found"
	codeDuplicateName  = "duplicate_name"
	codeEditInProgress = "edit_in_progress"
	codeNoEditSession  = "no_edit_session"
	codeSessionMissing = "session_not_found"
	codeSessionLimit   = "session_limit"
	codeBackpressure   = "backpressure"
	codeUnavailable    = "unavailable"
	codeInternal       = "internal_error"
)

// opError annotates an error with the operation that produced it.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	switch {
	case e.err == nil:
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	case e.kind == nil:
		return fmt.Sprintf("%s: %v", e.op, e.err)
	default:
		return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
	}
}

func (e *opError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.kind != nil {
		out = append(out, e.kind)
	}
	if e.err != nil {
		out = append(out, e.err)
	}
	return out
}

// Wrap annotates err with op. It returns nil when err is nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &opError{op: op, kind: kind}
}

// WrapKind classifies err as kind and annotates it with op.
func WrapKind(op string, kind, err error) error {
	if err == nil {
		return NewKind(op, kind)
	}
	return &opError{op: op, kind: kind, err: err}
}

// classify maps an error onto an HTTP status and response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, types.ErrSessionNotFound):
		return http.StatusNotFound, codeSessionMissing
	case errors.Is(err, pool.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, pool.ErrDuplicateName):
		return http.StatusConflict, codeDuplicateName
	case errors.Is(err, edit.ErrEditActive):
		return http.StatusConflict, codeEditInProgress
	case errors.Is(err, edit.ErrNoEdit):
		return http.StatusConflict, codeNoEditSession
	case errors.Is(err, types.ErrSessionLimit):
		return http.StatusTooManyRequests, codeSessionLimit
	case errors.Is(err, types.ErrBackpressure):
		return http.StatusTooManyRequests, codeBackpressure
	case errors.Is(err, types.ErrNotStarted),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, codeUnavailable
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, pool.ErrEmptyName),
		errors.Is(err, model.ErrUnknownCategory),
		errors.Is(err, model.ErrUnknownEvaluator),
		errors.Is(err, edit.ErrBadState):
		return http.StatusBadRequest, codeBadRequest
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
