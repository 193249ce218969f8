package session

import (
	"context"

	"github.com/okian/skillfolio/internal/domain/level"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/pool"
	"github.com/okian/skillfolio/pkg/logger"
	"github.com/okian/skillfolio/pkg/metrics"
)

// CreateSkill adds a skill named name to the active available pool.
func (s *Session) CreateSkill(name string) (model.Skill, error) {
	sk, err := s.pools.Create(s.category, name)
	if err != nil {
		return model.Skill{}, err
	}
	metrics.RecordSkillCreated(string(s.category))
	s.logger.Debug(context.Background(), "skill created",
		logger.String("session_id", s.id),
		logger.String("category", string(s.category)),
		logger.String("skill_id", sk.ID),
	)
	return sk, nil
}

// AddToSelected moves id from the active available pool to selected with lvl.
// Levels below 1 resolve to 1.
func (s *Session) AddToSelected(id string, lvl int) (model.Skill, error) {
	if lvl < level.Default {
		lvl = level.Default
	}
	return s.selectSkill(s.category, id, lvl)
}

// AddToSelectedPending commits the pending level of id and selects it with that level.
func (s *Session) AddToSelectedPending(id string) (model.Skill, error) {
	if !s.pools.In(s.category, pool.Available, id) {
		return model.Skill{}, &pool.NotFoundError{Category: s.category, SkillID: id, Pool: pool.Available}
	}
	return s.selectSkill(s.category, id, s.levels.Commit(s.category, id))
}

func (s *Session) selectSkill(c model.Category, id string, lvl int) (model.Skill, error) {
	sk, err := s.pools.Select(c, id, lvl)
	if err != nil {
		return model.Skill{}, err
	}
	s.levels.Put(c, id, lvl)
	metrics.RecordSkillMove(string(c), "select")
	s.recompute(c)
	return sk, nil
}

// RemoveFromSelected moves id back to the active available pool.
// The pending level keeps the level it had while selected.
func (s *Session) RemoveFromSelected(id string) (model.Skill, error) {
	return s.deselect(s.category, id)
}

func (s *Session) deselect(c model.Category, id string) (model.Skill, error) {
	prev, kind, ok := s.pools.Lookup(c, id)
	if !ok || kind != pool.Selected {
		return model.Skill{}, &pool.NotFoundError{Category: c, SkillID: id, Pool: pool.Selected}
	}
	sk, err := s.pools.Deselect(c, id)
	if err != nil {
		return model.Skill{}, err
	}
	s.levels.Put(c, id, prev.Level)
	metrics.RecordSkillMove(string(c), "deselect")
	s.recompute(c)
	return sk, nil
}

// recompute applies the generation rule to the selected skills of c.
func (s *Session) recompute(c model.Category) {
	teacher, ai := s.matrix.Ensure(c, s.pools.SelectedIDs(c))
	metrics.RecordEvaluatorGeneration(string(model.Teacher), teacher)
	metrics.RecordEvaluatorGeneration(string(model.AI), ai)
}

// DeleteAvailable removes id from the active available pool permanently.
func (s *Session) DeleteAvailable(id string) (model.Skill, error) {
	return s.purge(s.category, pool.Available, id)
}

// DeleteSelected removes id from the active selected pool permanently.
func (s *Session) DeleteSelected(id string) (model.Skill, error) {
	return s.purge(s.category, pool.Selected, id)
}

func (s *Session) purge(c model.Category, k pool.Kind, id string) (model.Skill, error) {
	var (
		sk  model.Skill
		err error
	)
	if k == pool.Selected {
		sk, err = s.pools.DeleteSelected(c, id)
	} else {
		sk, err = s.pools.DeleteAvailable(c, id)
	}
	if err != nil {
		return model.Skill{}, err
	}
	s.levels.Forget(c, id)
	s.matrix.Forget(c, id)
	metrics.RecordSkillDeleted(string(c), string(k))
	return sk, nil
}

// Rename sets the name of id in the active category. Names are not checked.
func (s *Session) Rename(id, name string) (model.Skill, error) {
	return s.pools.Rename(s.category, id, name)
}

// SetPendingLevel stores raw for id if it is empty or digits.
func (s *Session) SetPendingLevel(id, raw string) (bool, error) {
	if _, _, ok := s.pools.Lookup(s.category, id); !ok {
		return false, &pool.NotFoundError{Category: s.category, SkillID: id}
	}
	return s.levels.Set(s.category, id, raw), nil
}

// BlurLevel reverts an invalid pending level of id to "1".
func (s *Session) BlurLevel(id string) (string, error) {
	if _, _, ok := s.pools.Lookup(s.category, id); !ok {
		return "", &pool.NotFoundError{Category: s.category, SkillID: id}
	}
	return s.levels.Blur(s.category, id), nil
}

// CommitLevel resolves the pending level of id and writes it through to a selected skill.
func (s *Session) CommitLevel(id string) (int, error) {
	_, kind, ok := s.pools.Lookup(s.category, id)
	if !ok {
		return 0, &pool.NotFoundError{Category: s.category, SkillID: id}
	}
	n := s.levels.Commit(s.category, id)
	if kind == pool.Selected {
		if _, err := s.pools.SetLevel(s.category, id, n); err != nil {
			return 0, err
		}
	}
	return n, nil
}
