package api

import (
	"net/http"

	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/session"
)

// SessionsHandler serves the session lifecycle routes.
type SessionsHandler struct {
	base
}

type categoryRequest struct {
	Category string `json:"category"`
}

// HandleCreate handles POST /sessions.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.StartSession(r.Context())
	if err != nil {
		h.fail(w, r, "start session", err)
		return
	}
	w.Header().Set("Location", "/sessions/"+snap.ID)
	writeJSON(w, http.StatusCreated, snap)
}

// HandleGet handles GET /sessions/{sid}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snap, err := call(r, h.deps, func(s *session.Session) (session.Snapshot, error) {
		return s.Snapshot(), nil
	})
	if err != nil {
		h.fail(w, r, "get session", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleDelete handles DELETE /sessions/{sid}.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.EndSession(r.Context(), r.PathValue("sid")); err != nil {
		h.fail(w, r, "end session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSwitchCategory handles PUT /sessions/{sid}/category.
func (h *SessionsHandler) HandleSwitchCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, r, "switch category", err)
		return
	}
	cat, err := model.ParseCategory(req.Category)
	if err != nil {
		h.fail(w, r, "switch category", err)
		return
	}
	snap, err := call(r, h.deps, func(s *session.Session) (session.Snapshot, error) {
		if err := s.SwitchCategory(cat); err != nil {
			return session.Snapshot{}, err
		}
		return s.Snapshot(), nil
	})
	if err != nil {
		h.fail(w, r, "switch category", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleReset handles POST /sessions/{sid}/reset.
func (h *SessionsHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	snap, err := call(r, h.deps, func(s *session.Session) (session.Snapshot, error) {
		s.Reset()
		return s.Snapshot(), nil
	})
	if err != nil {
		h.fail(w, r, "reset session", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
