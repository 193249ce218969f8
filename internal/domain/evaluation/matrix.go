// Package evaluation holds Teacher, AI and Student score rows per category.
//
// Teacher and AI values are generated once per selected skill and kept.
// The AI row is regenerated wholesale on new evidence and reads as unset
// while the category has no evidence; its stored values are retained.
package evaluation

import (
	"strconv"

	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/scoring"
)

// RowCell is one rendered cell of an evaluator row.
type RowCell struct {
	SkillID    string      `json:"skill_id"`
	Score      model.Score `json:"score"`
	Input      string      `json:"input,omitempty"`
	Generation uint64      `json:"generation,omitempty"`
}

type rows struct {
	teacher Memo
	ai      Memo
	student map[string]string
}

// Matrix keeps the three rows of every category. Not safe for concurrent use.
type Matrix struct {
	gen  *scoring.Generator
	cats map[model.Category]*rows
}

// NewMatrix constructs a Matrix drawing Teacher and AI values from gen.
func NewMatrix(gen *scoring.Generator) *Matrix {
	if gen == nil {
		gen = scoring.NewGenerator()
	}
	return &Matrix{gen: gen, cats: make(map[model.Category]*rows)}
}

func (m *Matrix) rows(c model.Category) *rows {
	r, ok := m.cats[c]
	if !ok {
		r = &rows{
			teacher: NewMemo(m.gen.Next),
			ai:      NewMemo(m.gen.Next),
			student: make(map[string]string),
		}
		m.cats[c] = r
	}
	return r
}

// Memo exposes the Teacher or AI memo of c; nil for Student.
func (m *Matrix) Memo(ev model.Evaluator, c model.Category) Memo {
	switch ev {
	case model.Teacher:
		return m.rows(c).teacher
	case model.AI:
		return m.rows(c).ai
	default:
		return nil
	}
}

// Ensure fills missing Teacher and AI cells and unset Student cells for ids.
// It returns how many Teacher and AI values were generated.
func (m *Matrix) Ensure(c model.Category, ids []string) (teacher, ai int) {
	r := m.rows(c)
	t0, a0 := r.teacher.Generations(), r.ai.Generations()
	for _, id := range ids {
		r.teacher.GetOrGenerate(id)
		r.ai.GetOrGenerate(id)
		if _, ok := r.student[id]; !ok {
			r.student[id] = model.UnsetMarker
		}
	}
	return int(r.teacher.Generations() - t0), int(r.ai.Generations() - a0)
}

// RegenerateAI replaces the AI row of c with fresh values for ids.
// Every stored AI value of c is dropped, including those of deselected skills,
// so a skill reselected after new evidence draws a value reflecting it.
func (m *Matrix) RegenerateAI(c model.Category, ids []string) int {
	r := m.rows(c)
	r.ai.InvalidateAll()
	for _, id := range ids {
		r.ai.GetOrGenerate(id)
	}
	return len(ids)
}

// ValidStudentInput accepts the unset marker, "", or digits with a non-zero lead.
func ValidStudentInput(raw string) bool {
	if raw == "" || raw == model.UnsetMarker {
		return true
	}
	if raw[0] < '1' || raw[0] > '9' {
		return false
	}
	for i := 1; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return false
		}
	}
	return true
}

// SetStudent stores raw for id and reports acceptance. Rejected input is a no-op.
func (m *Matrix) SetStudent(c model.Category, id, raw string) bool {
	if !ValidStudentInput(raw) {
		return false
	}
	m.rows(c).student[id] = raw
	return true
}

// BlurStudent reverts empty, non-numeric or sub-1 input to unset.
func (m *Matrix) BlurStudent(c model.Category, id string) model.Score {
	r := m.rows(c)
	s := studentScore(r.student[id])
	if !s.Set {
		r.student[id] = model.UnsetMarker
	}
	return s
}

// Student returns the score and raw input for id.
func (m *Matrix) Student(c model.Category, id string) (model.Score, string) {
	raw, ok := m.rows(c).student[id]
	if !ok {
		return model.Unset, model.UnsetMarker
	}
	return studentScore(raw), raw
}

func studentScore(raw string) model.Score {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return model.Unset
	}
	return model.ScoreOf(n)
}

// Row renders ev for ids. The AI row reads as unset unless evidence is true.
func (m *Matrix) Row(ev model.Evaluator, c model.Category, ids []string, evidence bool) []RowCell {
	r := m.rows(c)
	out := make([]RowCell, 0, len(ids))
	for _, id := range ids {
		cell := RowCell{SkillID: id, Score: model.Unset}
		switch ev {
		case model.Teacher:
			if v, ok := r.teacher.Peek(id); ok {
				cell.Score, cell.Generation = model.ScoreOf(v.Value), v.Generation
			}
		case model.AI:
			if v, ok := r.ai.Peek(id); ok && evidence {
				cell.Score, cell.Generation = model.ScoreOf(v.Value), v.Generation
			}
		case model.Student:
			cell.Score, cell.Input = m.Student(c, id)
		}
		out = append(out, cell)
	}
	return out
}

// Forget purges every row entry of id in c.
func (m *Matrix) Forget(c model.Category, id string) {
	r := m.rows(c)
	r.teacher.Forget(id)
	r.ai.Forget(id)
	delete(r.student, id)
}

// Reset drops all rows of every category.
func (m *Matrix) Reset() {
	clear(m.cats)
}
