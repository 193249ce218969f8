// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/skillfolio/internal/domain/session"
	"github.com/okian/skillfolio/internal/domain/types"
	"github.com/okian/skillfolio/pkg/logger"
	"github.com/okian/skillfolio/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StartSession(ctx context.Context) (session.Snapshot, error)
	EndSession(ctx context.Context, id string) error

	// Do runs fn with exclusive access to session id.
	Do(ctx context.Context, id string, fn func(*session.Session) error) error

	// SubmitEvidence deduplicates and queues an evidence submission.
	SubmitEvidence(ctx context.Context, req types.EvidenceRequest) (types.EvidenceReceipt, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	sessionsHandler    *SessionsHandler
	skillsHandler      *SkillsHandler
	levelsHandler      *LevelsHandler
	evaluationsHandler *EvaluationsHandler
	evidenceHandler    *EvidenceHandler
	editHandler        *EditHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := options{logger: logger.Get().Named("api")}
	for _, opt := range opts {
		opt(&o)
	}
	b := base{deps: deps, logger: o.logger}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		sessionsHandler:    &SessionsHandler{base: b},
		skillsHandler:      &SkillsHandler{base: b},
		levelsHandler:      &LevelsHandler{base: b},
		evaluationsHandler: &EvaluationsHandler{base: b},
		evidenceHandler:    &EvidenceHandler{base: b},
		editHandler:        &EditHandler{base: b},
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	sh := s.sessionsHandler
	route("POST /sessions", "sessions", sh.HandleCreate)
	route("GET /sessions/{sid}", "session", sh.HandleGet)
	route("DELETE /sessions/{sid}", "session", sh.HandleDelete)
	route("PUT /sessions/{sid}/category", "category", sh.HandleSwitchCategory)
	route("POST /sessions/{sid}/reset", "reset", sh.HandleReset)

	kh := s.skillsHandler
	route("GET /sessions/{sid}/skills/available", "skills_available", kh.HandleListAvailable)
	route("GET /sessions/{sid}/skills/selected", "skills_selected", kh.HandleListSelected)
	route("POST /sessions/{sid}/skills", "skills", kh.HandleCreate)
	route("PATCH /sessions/{sid}/skills/{skill}", "skill", kh.HandleRename)
	route("POST /sessions/{sid}/skills/{skill}/select", "skill_select", kh.HandleSelect)
	route("POST /sessions/{sid}/skills/{skill}/deselect", "skill_deselect", kh.HandleDeselect)
	route("DELETE /sessions/{sid}/skills/available/{skill}", "skills_available", kh.HandleDeleteAvailable)
	route("DELETE /sessions/{sid}/skills/selected/{skill}", "skills_selected", kh.HandleDeleteSelected)

	lh := s.levelsHandler
	route("PUT /sessions/{sid}/levels/{skill}", "level", lh.HandleSet)
	route("POST /sessions/{sid}/levels/{skill}/blur", "level_blur", lh.HandleBlur)
	route("POST /sessions/{sid}/levels/{skill}/commit", "level_commit", lh.HandleCommit)

	vh := s.evaluationsHandler
	route("GET /sessions/{sid}/evaluations/{category}", "evaluations", vh.HandleMatrix)
	route("PUT /sessions/{sid}/evaluations/{category}/student/{skill}", "student", vh.HandleSetStudent)
	route("POST /sessions/{sid}/evaluations/{category}/student/{skill}/blur", "student_blur", vh.HandleBlurStudent)

	eh := s.evidenceHandler
	route("GET /sessions/{sid}/evidence", "evidence", eh.HandleList)
	route("POST /sessions/{sid}/evidence", "evidence", eh.HandleSubmit)
	route("DELETE /sessions/{sid}/evidence/{category}", "evidence_clear", eh.HandleClear)

	dh := s.editHandler
	route("GET /sessions/{sid}/edit", "edit", dh.HandleGet)
	route("POST /sessions/{sid}/edit", "edit", dh.HandleOpen)
	route("PATCH /sessions/{sid}/edit", "edit", dh.HandleUpdate)
	route("DELETE /sessions/{sid}/edit", "edit", dh.HandleDiscard)
	route("POST /sessions/{sid}/edit/commit", "edit_commit", dh.HandleCommit)
	route("POST /sessions/{sid}/edit/delete", "edit_delete", dh.HandleDeleteCurrent)
}

// base carries what every session handler needs.
type base struct {
	deps   Dependencies
	logger logger.Logger
}

// fail classifies err and writes the matching error response.
// Missing skills are logged as anomalies.
func (b base) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	err = Wrap(op, err)
	status, code := classify(err)
	metrics.RecordDomainError(code)
	switch {
	case code == codeNotFound:
		b.logger.Warn(r.Context(), "skill not found",
			logger.String("session_id", r.PathValue("sid")),
			logger.Error(err),
		)
	case status >= http.StatusInternalServerError:
		b.logger.Error(r.Context(), "request failed",
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

// call runs fn against the session named in the request path and returns its result.
func call[T any](r *http.Request, deps Dependencies, fn func(*session.Session) (T, error)) (T, error) {
	var out T
	err := deps.Do(r.Context(), r.PathValue("sid"), func(s *session.Session) error {
		var err error
		out, err = fn(s)
		return err
	})
	return out, err
}

// decodeJSON reads a single JSON value from the request body into v.
// An empty body is accepted when optional is set.
func decodeJSON(r *http.Request, v any, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return NewKind("decode body", ErrBadRequest)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return nil
		}
		return WrapKind("decode body", ErrBadRequest, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return NewKind("decode body: trailing data", ErrBadRequest)
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
