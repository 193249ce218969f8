package api

import (
	"fmt"
	"net/http"

	"github.com/okian/skillfolio/internal/domain/edit"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/session"
)

// EditHandler serves the single edit slot of a session.
type EditHandler struct {
	base
}

// Pool names accepted when opening an edit.
const (
	poolSelected  = "selected"
	poolAvailable = "available"
)

type openEditRequest struct {
	SkillID string `json:"skill_id"`
	Pool    string `json:"pool"`
}

type updateEditRequest struct {
	Name  *string `json:"name,omitempty"`
	Level *string `json:"level,omitempty"`
}

type updateEditResponse struct {
	Draft         edit.Draft `json:"draft"`
	LevelAccepted bool       `json:"level_accepted"`
}

// HandleGet handles GET /sessions/{sid}/edit.
func (h *EditHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	out, err := call(r, h.deps, func(s *session.Session) (session.EditView, error) {
		return s.Edit(), nil
	})
	if err != nil {
		h.fail(w, r, "get edit", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleOpen handles POST /sessions/{sid}/edit.
func (h *EditHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	var req openEditRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, r, "open edit", err)
		return
	}
	var open func(*session.Session, string) (edit.Draft, error)
	switch req.Pool {
	case poolSelected:
		open = (*session.Session).OpenForSelected
	case poolAvailable:
		open = (*session.Session).OpenForAvailable
	default:
		h.fail(w, r, "open edit", fmt.Errorf("%w: unknown pool %q", ErrBadRequest, req.Pool))
		return
	}
	d, err := call(r, h.deps, func(s *session.Session) (edit.Draft, error) {
		return open(s, req.SkillID)
	})
	if err != nil {
		h.fail(w, r, "open edit", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// HandleUpdate handles PATCH /sessions/{sid}/edit.
// A level that is neither empty nor digits is ignored and reported.
func (h *EditHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateEditRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, r, "update edit", err)
		return
	}
	out, err := call(r, h.deps, func(s *session.Session) (updateEditResponse, error) {
		resp := updateEditResponse{LevelAccepted: true}
		if req.Name != nil {
			if err := s.EditName(*req.Name); err != nil {
				return resp, err
			}
		}
		if req.Level != nil {
			ok, err := s.EditLevel(*req.Level)
			if err != nil {
				return resp, err
			}
			resp.LevelAccepted = ok
		}
		v := s.Edit()
		if v.Draft == nil {
			return resp, edit.ErrNoEdit
		}
		resp.Draft = *v.Draft
		return resp, nil
	})
	if err != nil {
		h.fail(w, r, "update edit", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDiscard handles DELETE /sessions/{sid}/edit.
func (h *EditHandler) HandleDiscard(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Do(r.Context(), r.PathValue("sid"), func(s *session.Session) error {
		return s.DiscardEdit()
	}); err != nil {
		h.fail(w, r, "discard edit", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCommit handles POST /sessions/{sid}/edit/commit.
func (h *EditHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	sk, err := call(r, h.deps, func(s *session.Session) (model.Skill, error) {
		return s.CommitEdit()
	})
	if err != nil {
		h.fail(w, r, "commit edit", err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}

// HandleDeleteCurrent handles POST /sessions/{sid}/edit/delete.
func (h *EditHandler) HandleDeleteCurrent(w http.ResponseWriter, r *http.Request) {
	sk, err := call(r, h.deps, func(s *session.Session) (model.Skill, error) {
		return s.DeleteCurrent()
	})
	if err != nil {
		h.fail(w, r, "delete current", err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}
