package session

import (
	"context"

	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/pool"
	"github.com/okian/skillfolio/pkg/logger"
	"github.com/okian/skillfolio/pkg/metrics"
)

// SubmitEvidence opens the gate of c and regenerates its AI row.
// It returns how many AI values were drawn.
func (s *Session) SubmitEvidence(c model.Category, evidenceID string) (int, error) {
	if err := checkCategory(c); err != nil {
		return 0, err
	}
	opened := s.gate.Submit(c, evidenceID)
	n := s.matrix.RegenerateAI(c, s.pools.SelectedIDs(c))
	metrics.RecordAIRegeneration(string(c))
	metrics.RecordEvaluatorGeneration(string(model.AI), n)
	s.logger.Debug(context.Background(), "evidence applied",
		logger.String("session_id", s.id),
		logger.String("category", string(c)),
		logger.String("evidence_id", evidenceID),
		logger.Bool("opened", opened),
		logger.Int("regenerated", n),
	)
	return n, nil
}

// ClearEvidence closes the gate of c and starts a new evidence epoch.
// Stored AI values are kept.
func (s *Session) ClearEvidence(c model.Category) error {
	if err := checkCategory(c); err != nil {
		return err
	}
	s.gate.Clear(c)
	s.epochs[c]++
	metrics.RecordEvidenceCleared(string(c))
	return nil
}

// SetStudentScore stores raw as the Student score of a selected skill.
// Input outside the accepted forms is ignored and reported as false.
func (s *Session) SetStudentScore(c model.Category, id, raw string) (bool, error) {
	if err := s.checkSelected(c, id); err != nil {
		return false, err
	}
	ok := s.matrix.SetStudent(c, id, raw)
	if !ok {
		metrics.RecordStudentInputRejected()
	}
	return ok, nil
}

// BlurStudentScore reverts an empty or invalid Student score to unset.
func (s *Session) BlurStudentScore(c model.Category, id string) (model.Score, error) {
	if err := s.checkSelected(c, id); err != nil {
		return model.Unset, err
	}
	return s.matrix.BlurStudent(c, id), nil
}

func (s *Session) checkSelected(c model.Category, id string) error {
	if err := checkCategory(c); err != nil {
		return err
	}
	if !s.pools.In(c, pool.Selected, id) {
		return &pool.NotFoundError{Category: c, SkillID: id, Pool: pool.Selected}
	}
	return nil
}
