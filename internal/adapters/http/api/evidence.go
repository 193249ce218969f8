package api

import (
	"net/http"

	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/session"
	"github.com/okian/skillfolio/internal/domain/types"
)

// EvidenceHandler serves evidence submission and the per-category gates.
type EvidenceHandler struct {
	base
}

type evidenceList struct {
	Evidence []session.EvidenceView `json:"evidence"`
}

// HandleList handles GET /sessions/{sid}/evidence.
func (h *EvidenceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	out, err := call(r, h.deps, func(s *session.Session) (evidenceList, error) {
		list := evidenceList{Evidence: make([]session.EvidenceView, 0, len(model.Categories()))}
		for _, c := range model.Categories() {
			v, err := s.Evidence(c)
			if err != nil {
				return evidenceList{}, err
			}
			list.Evidence = append(list.Evidence, v)
		}
		return list, nil
	})
	if err != nil {
		h.fail(w, r, "list evidence", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSubmit handles POST /sessions/{sid}/evidence.
// The submission is queued and applied by the workers (202) unless sync is set,
// in which case it is applied before responding (200). A duplicate is 200 too.
// Without a category the session's active category is used.
func (h *EvidenceHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req types.EvidenceRequest
	if err := decodeJSON(r, &req, true); err != nil {
		h.fail(w, r, "submit evidence", err)
		return
	}
	req.SessionID = r.PathValue("sid")
	if req.Category == "" {
		cat, err := call(r, h.deps, func(s *session.Session) (model.Category, error) {
			return s.Category(), nil
		})
		if err != nil {
			h.fail(w, r, "submit evidence", err)
			return
		}
		req.Category = string(cat)
	}

	receipt, err := h.deps.SubmitEvidence(r.Context(), req)
	if err != nil {
		h.fail(w, r, "submit evidence", err)
		return
	}
	status := http.StatusOK
	if receipt.Queued {
		status = http.StatusAccepted
	}
	writeJSON(w, status, receipt)
}

// HandleClear handles DELETE /sessions/{sid}/evidence/{category}.
func (h *EvidenceHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	cat, err := model.ParseCategory(r.PathValue("category"))
	if err != nil {
		h.fail(w, r, "clear evidence", err)
		return
	}
	if err := h.deps.Do(r.Context(), r.PathValue("sid"), func(s *session.Session) error {
		return s.ClearEvidence(cat)
	}); err != nil {
		h.fail(w, r, "clear evidence", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
