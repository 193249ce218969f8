// Package session composes pools, levels, evaluations, evidence and the edit
// controller into one owned context per user session.
//
// A Session is not safe for concurrent use; callers serialise access.
// Commands act on the active category unless they name one explicitly.
package session

import (
	"context"
	"fmt"

	"github.com/okian/skillfolio/internal/domain/edit"
	"github.com/okian/skillfolio/internal/domain/evaluation"
	"github.com/okian/skillfolio/internal/domain/evidence"
	"github.com/okian/skillfolio/internal/domain/ids"
	"github.com/okian/skillfolio/internal/domain/level"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/pool"
	"github.com/okian/skillfolio/internal/domain/scoring"
	"github.com/okian/skillfolio/pkg/logger"
)

// AvailableSkill is an available skill with its pending level text.
type AvailableSkill struct {
	model.Skill
	PendingLevel string `json:"pending_level"`
}

// MatrixView is the evaluation matrix of one category.
type MatrixView struct {
	Category model.Category                           `json:"category"`
	Evidence bool                                     `json:"evidence"`
	Skills   []model.Skill                            `json:"skills"`
	Rows     map[model.Evaluator][]evaluation.RowCell `json:"rows"`
}

// EvidenceView is the gate state of one category.
type EvidenceView struct {
	Category model.Category `json:"category"`
	Open     bool           `json:"open"`
	Count    int            `json:"count"`
}

// EditView is the edit controller state.
type EditView struct {
	State edit.State  `json:"state"`
	Draft *edit.Draft `json:"draft,omitempty"`
}

// CategoryView summarises one category.
type CategoryView struct {
	Available []AvailableSkill `json:"available"`
	Selected  []model.Skill    `json:"selected"`
	Evidence  EvidenceView     `json:"evidence"`
}

// Snapshot is a read-only copy of the whole session.
type Snapshot struct {
	ID         string                          `json:"id"`
	Category   model.Category                  `json:"category"`
	Categories map[model.Category]CategoryView `json:"categories"`
	Edit       EditView                        `json:"edit"`
}

// Session is the per-user context.
type Session struct {
	id       string
	seeds    map[model.Category][]string
	category model.Category

	pools  *pool.Store
	levels *level.Store
	matrix *evaluation.Matrix
	gate   *evidence.Gate
	editor *edit.Controller

	// epochs advance when a category's evidence is cleared or the session reset.
	epochs map[model.Category]uint64

	ids    ids.Source
	gen    *scoring.Generator
	logger logger.Logger
}

// New constructs a seeded Session with the hard category active.
func New(opts ...Option) *Session {
	s := &Session{
		seeds:  make(map[model.Category][]string),
		epochs: make(map[model.Category]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ids == nil {
		s.ids = ids.UUID()
	}
	if s.id == "" {
		s.id = ids.UUID().NewID()
	}
	if s.gen == nil {
		s.gen = scoring.NewGenerator()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("session")
	}
	s.matrix = evaluation.NewMatrix(s.gen)
	s.reset()
	return s
}

// Reset tears the session down to its seeded state.
func (s *Session) Reset() {
	s.reset()
	for _, c := range model.Categories() {
		s.epochs[c]++
	}
	s.logger.Debug(context.Background(), "session reset", logger.String("session_id", s.id))
}

func (s *Session) reset() {
	s.category = model.Hard
	s.pools = pool.New(pool.WithIDSource(s.ids))
	for _, c := range model.Categories() {
		s.pools.Seed(c, s.seeds[c])
	}
	s.levels = level.New()
	s.matrix.Reset()
	s.gate = evidence.New()
	s.editor = edit.New()
}

// EvidenceEpoch returns the evidence epoch of c. Evidence ids are unique per epoch.
func (s *Session) EvidenceEpoch(c model.Category) uint64 { return s.epochs[c] }

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Category returns the active category.
func (s *Session) Category() model.Category { return s.category }

// SwitchCategory changes the active category. Stored data is untouched.
func (s *Session) SwitchCategory(c model.Category) error {
	if err := checkCategory(c); err != nil {
		return err
	}
	s.category = c
	return nil
}

func checkCategory(c model.Category) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownCategory, string(c))
	}
	return nil
}

// ListAvailable lists the active available pool filtered by name.
func (s *Session) ListAvailable(filter string) []AvailableSkill {
	return s.available(s.category, filter)
}

func (s *Session) available(c model.Category, filter string) []AvailableSkill {
	skills := s.pools.Available(c, filter)
	out := make([]AvailableSkill, len(skills))
	for i, sk := range skills {
		out[i] = AvailableSkill{Skill: sk, PendingLevel: s.levels.Display(c, sk.ID)}
	}
	return out
}

// ListSelected lists the active selected pool filtered by name.
func (s *Session) ListSelected(filter string) []model.Skill {
	return s.pools.Selected(s.category, filter)
}

// PendingLevel returns the stored pending level text for id in the active category.
func (s *Session) PendingLevel(id string) (string, bool) {
	return s.levels.Value(s.category, id)
}

// Matrix renders the three evaluator rows of c over its selected skills.
func (s *Session) Matrix(c model.Category) (MatrixView, error) {
	if err := checkCategory(c); err != nil {
		return MatrixView{}, err
	}
	ids := s.pools.SelectedIDs(c)
	open := s.gate.Open(c)
	v := MatrixView{
		Category: c,
		Evidence: open,
		Skills:   s.pools.Selected(c, ""),
		Rows:     make(map[model.Evaluator][]evaluation.RowCell, 3),
	}
	for _, ev := range model.Evaluators() {
		v.Rows[ev] = s.matrix.Row(ev, c, ids, open)
	}
	return v, nil
}

// Row renders one evaluator row of c.
func (s *Session) Row(ev model.Evaluator, c model.Category) ([]evaluation.RowCell, error) {
	if err := checkCategory(c); err != nil {
		return nil, err
	}
	return s.matrix.Row(ev, c, s.pools.SelectedIDs(c), s.gate.Open(c)), nil
}

// Generations reports how many values the Teacher or AI row of c has produced.
func (s *Session) Generations(ev model.Evaluator, c model.Category) uint64 {
	m := s.matrix.Memo(ev, c)
	if m == nil {
		return 0
	}
	return m.Generations()
}

// Evidence returns the gate state of c.
func (s *Session) Evidence(c model.Category) (EvidenceView, error) {
	if err := checkCategory(c); err != nil {
		return EvidenceView{}, err
	}
	return EvidenceView{Category: c, Open: s.gate.Open(c), Count: s.gate.Count(c)}, nil
}

// Edit returns the edit controller state.
func (s *Session) Edit() EditView {
	d, ok := s.editor.Draft()
	v := EditView{State: s.editor.State()}
	if ok {
		v.Draft = &d
	}
	return v
}

// Snapshot copies the whole session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		ID:         s.id,
		Category:   s.category,
		Categories: make(map[model.Category]CategoryView, 2),
		Edit:       s.Edit(),
	}
	for _, c := range model.Categories() {
		ev, _ := s.Evidence(c)
		snap.Categories[c] = CategoryView{
			Available: s.available(c, ""),
			Selected:  s.pools.Selected(c, ""),
			Evidence:  ev,
		}
	}
	return snap
}

// Counts returns pool sizes of c.
func (s *Session) Counts(c model.Category) (available, selected int) {
	return s.pools.Counts(c)
}
