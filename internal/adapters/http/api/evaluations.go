package api

import (
	"net/http"

	"github.com/okian/skillfolio/internal/domain/evaluation"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/session"
)

// EvaluationsHandler serves the evaluation matrix and Student input.
type EvaluationsHandler struct {
	base
}

type studentRequest struct {
	Value string `json:"value"`
}

type studentResponse struct {
	SkillID  string      `json:"skill_id"`
	Score    model.Score `json:"score"`
	Input    string      `json:"input"`
	Accepted bool        `json:"accepted"`
}

// HandleMatrix handles GET /sessions/{sid}/evaluations/{category}.
// With ?evaluator= only that row is returned.
func (h *EvaluationsHandler) HandleMatrix(w http.ResponseWriter, r *http.Request) {
	cat, err := model.ParseCategory(r.PathValue("category"))
	if err != nil {
		h.fail(w, r, "get matrix", err)
		return
	}
	if q := r.URL.Query().Get("evaluator"); q != "" {
		h.row(w, r, cat, q)
		return
	}
	out, err := call(r, h.deps, func(s *session.Session) (session.MatrixView, error) {
		return s.Matrix(cat)
	})
	if err != nil {
		h.fail(w, r, "get matrix", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type rowResponse struct {
	Category  model.Category       `json:"category"`
	Evaluator model.Evaluator      `json:"evaluator"`
	Cells     []evaluation.RowCell `json:"cells"`
}

// row serves a single evaluator row of cat.
func (h *EvaluationsHandler) row(w http.ResponseWriter, r *http.Request, cat model.Category, name string) {
	ev, err := model.ParseEvaluator(name)
	if err != nil {
		h.fail(w, r, "get row", err)
		return
	}
	out, err := call(r, h.deps, func(s *session.Session) (rowResponse, error) {
		cells, err := s.Row(ev, cat)
		return rowResponse{Category: cat, Evaluator: ev, Cells: cells}, err
	})
	if err != nil {
		h.fail(w, r, "get row", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleSetStudent handles PUT /sessions/{sid}/evaluations/{category}/student/{skill}.
func (h *EvaluationsHandler) HandleSetStudent(w http.ResponseWriter, r *http.Request) {
	cat, err := model.ParseCategory(r.PathValue("category"))
	if err != nil {
		h.fail(w, r, "set student score", err)
		return
	}
	var req studentRequest
	if err := decodeJSON(r, &req, false); err != nil {
		h.fail(w, r, "set student score", err)
		return
	}
	id := r.PathValue("skill")
	out, err := call(r, h.deps, func(s *session.Session) (studentResponse, error) {
		ok, err := s.SetStudentScore(cat, id, req.Value)
		if err != nil {
			return studentResponse{}, err
		}
		resp := studentResponse{SkillID: id, Accepted: ok}
		cell, found := studentCell(s, cat, id)
		if found {
			resp.Score, resp.Input = cell.Score, cell.Input
		}
		return resp, nil
	})
	if err != nil {
		h.fail(w, r, "set student score", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleBlurStudent handles POST /sessions/{sid}/evaluations/{category}/student/{skill}/blur.
func (h *EvaluationsHandler) HandleBlurStudent(w http.ResponseWriter, r *http.Request) {
	cat, err := model.ParseCategory(r.PathValue("category"))
	if err != nil {
		h.fail(w, r, "blur student score", err)
		return
	}
	id := r.PathValue("skill")
	out, err := call(r, h.deps, func(s *session.Session) (studentResponse, error) {
		score, err := s.BlurStudentScore(cat, id)
		if err != nil {
			return studentResponse{}, err
		}
		resp := studentResponse{SkillID: id, Score: score, Accepted: true}
		if cell, found := studentCell(s, cat, id); found {
			resp.Input = cell.Input
		}
		return resp, nil
	})
	if err != nil {
		h.fail(w, r, "blur student score", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func studentCell(s *session.Session, cat model.Category, id string) (evaluation.RowCell, bool) {
	row, err := s.Row(model.Student, cat)
	if err != nil {
		return evaluation.RowCell{}, false
	}
	for _, c := range row {
		if c.SkillID == id {
			return c, true
		}
	}
	return evaluation.RowCell{}, false
}
