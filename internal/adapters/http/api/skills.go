package api

import (
	"net/http"

	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/session"
)

// SkillsHandler serves pool operations on the active category.
type SkillsHandler struct {
	base
}

type nameRequest struct {
	Name string `json:"name"`
}

type selectRequest struct {
	Level *int `json:"level,omitempty"`
}

type skillList[T any] struct {
	Category model.Category `json:"category"`
	Skills   []T            `json:"skills"`
}

// HandleListAvailable handles GET /sessions/{sid}/skills/available?q=.
func (h *SkillsHandler) HandleListAvailable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	out, err := call(r, h.deps, func(s *session.Session) (skillList[session.AvailableSkill], error) {
		return skillList[session.AvailableSkill]{Category: s.Category(), Skills: s.ListAvailable(q)}, nil
	})
	if err != nil {
		h.fail(w, r, "list available", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleListSelected handles GET /sessions/{sid}/skills/selected?q=.
func (h *SkillsHandler) HandleListSelected(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	out, err := call(r, h.deps, func(s *session.Session) (skillList[model.Skill], error) {
		return skillList[model.Skill]{Category: s.Category(), Skills: s.ListSelected(q)}, nil
	})
	if err != nil {
		h.fail(w, r, "list selected", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreate handles POST /sessions/{sid}/skills.
func (h *SkillsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, r, "create skill", err)
		return
	}
	sk, err := call(r, h.deps, func(s *session.Session) (model.Skill, error) {
		return s.CreateSkill(req.Name)
	})
	if err != nil {
		h.fail(w, r, "create skill", err)
		return
	}
	writeJSON(w, http.StatusCreated, sk)
}

// HandleRename handles PATCH /sessions/{sid}/skills/{skill}.
func (h *SkillsHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, r, "rename skill", err)
		return
	}
	id := r.PathValue("skill")
	sk, err := call(r, h.deps, func(s *session.Session) (model.Skill, error) {
		return s.Rename(id, req.Name)
	})
	if err != nil {
		h.fail(w, r, "rename skill", err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}

// HandleSelect handles POST /sessions/{sid}/skills/{skill}/select.
// Without a level in the body the pending level is committed and used.
func (h *SkillsHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req, true); err != nil {
		h.fail(w, r, "select skill", err)
		return
	}
	id := r.PathValue("skill")
	sk, err := call(r, h.deps, func(s *session.Session) (model.Skill, error) {
		if req.Level == nil {
			return s.AddToSelectedPending(id)
		}
		return s.AddToSelected(id, *req.Level)
	})
	if err != nil {
		h.fail(w, r, "select skill", err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}

// HandleDeselect handles POST /sessions/{sid}/skills/{skill}/deselect.
func (h *SkillsHandler) HandleDeselect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("skill")
	sk, err := call(r, h.deps, func(s *session.Session) (model.Skill, error) {
		return s.RemoveFromSelected(id)
	})
	if err != nil {
		h.fail(w, r, "deselect skill", err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}

// HandleDeleteAvailable handles DELETE /sessions/{sid}/skills/available/{skill}.
func (h *SkillsHandler) HandleDeleteAvailable(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("skill")
	sk, err := call(r, h.deps, func(s *session.Session) (model.Skill, error) {
		return s.DeleteAvailable(id)
	})
	if err != nil {
		h.fail(w, r, "delete available", err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}

// HandleDeleteSelected handles DELETE /sessions/{sid}/skills/selected/{skill}.
func (h *SkillsHandler) HandleDeleteSelected(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("skill")
	sk, err := call(r, h.deps, func(s *session.Session) (model.Skill, error) {
		return s.DeleteSelected(id)
	})
	if err != nil {
		h.fail(w, r, "delete selected", err)
		return
	}
	writeJSON(w, http.StatusOK, sk)
}
