package api

import (
	"net/http"

	"github.com/okian/skillfolio/internal/domain/session"
)

// LevelsHandler serves the pending level field of a skill.
type LevelsHandler struct {
	base
}

type levelRequest struct {
	Value string `json:"value"`
}

type levelResponse struct {
	SkillID  string `json:"skill_id"`
	Value    string `json:"value"`
	Accepted bool   `json:"accepted"`
}

type committedLevel struct {
	SkillID string `json:"skill_id"`
	Level   int    `json:"level"`
}

// HandleSet handles PUT /sessions/{sid}/levels/{skill}.
// Non-digit input leaves the stored text unchanged and reports accepted=false.
func (h *LevelsHandler) HandleSet(w http.ResponseWriter, r *http.Request) {
	var req levelRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, r, "set level", err)
		return
	}
	id := r.PathValue("skill")
	out, err := call(r, h.deps, func(s *session.Session) (levelResponse, error) {
		ok, err := s.SetPendingLevel(id, req.Value)
		if err != nil {
			return levelResponse{}, err
		}
		v, _ := s.PendingLevel(id)
		return levelResponse{SkillID: id, Value: v, Accepted: ok}, nil
	})
	if err != nil {
		h.fail(w, r, "set level", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleBlur handles POST /sessions/{sid}/levels/{skill}/blur.
func (h *LevelsHandler) HandleBlur(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("skill")
	out, err := call(r, h.deps, func(s *session.Session) (levelResponse, error) {
		v, err := s.BlurLevel(id)
		return levelResponse{SkillID: id, Value: v, Accepted: true}, err
	})
	if err != nil {
		h.fail(w, r, "blur level", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCommit handles POST /sessions/{sid}/levels/{skill}/commit.
func (h *LevelsHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("skill")
	out, err := call(r, h.deps, func(s *session.Session) (committedLevel, error) {
		n, err := s.CommitLevel(id)
		return committedLevel{SkillID: id, Level: n}, err
	})
	if err != nil {
		h.fail(w, r, "commit level", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
