package session

import (
	"strconv"
	"strings"

	"github.com/okian/skillfolio/internal/domain/edit"
	"github.com/okian/skillfolio/internal/domain/level"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/pool"
	"github.com/okian/skillfolio/pkg/metrics"
)

// OpenForSelected starts editing a selected skill of the active category.
func (s *Session) OpenForSelected(id string) (edit.Draft, error) {
	return s.open(edit.EditingSelected, pool.Selected, id)
}

// OpenForAvailable starts editing an available skill of the active category.
func (s *Session) OpenForAvailable(id string) (edit.Draft, error) {
	return s.open(edit.EditingAvailable, pool.Available, id)
}

func (s *Session) open(st edit.State, k pool.Kind, id string) (edit.Draft, error) {
	if s.editor.State() != edit.Closed {
		return edit.Draft{}, edit.ErrEditActive
	}
	sk, kind, ok := s.pools.Lookup(s.category, id)
	if !ok || kind != k {
		return edit.Draft{}, &pool.NotFoundError{Category: s.category, SkillID: id, Pool: k}
	}
	d := edit.Draft{Category: s.category, SkillID: id, Name: sk.Name}
	if sk.Level > 0 {
		d.Level = strconv.Itoa(sk.Level)
	} else if v, ok := s.levels.Value(s.category, id); ok && v != "" {
		d.Level = v
	}
	if err := s.editor.Open(st, d); err != nil {
		return edit.Draft{}, err
	}
	metrics.RecordEditSession("opened")
	d, _ = s.editor.Draft()
	return d, nil
}

// EditName replaces the scratch name.
func (s *Session) EditName(name string) error {
	return s.editor.SetName(name)
}

// EditLevel replaces the scratch level if raw is empty or digits.
func (s *Session) EditLevel(raw string) (bool, error) {
	return s.editor.SetLevel(raw)
}

// CommitEdit applies the scratch name and level and closes the edit.
// A blank name keeps the current one. If the skill left its pool the edit
// is closed and NotFoundError returned.
func (s *Session) CommitEdit() (model.Skill, error) {
	st, d, err := s.editor.Take()
	if err != nil {
		return model.Skill{}, err
	}
	k := pool.Available
	if st == edit.EditingSelected {
		k = pool.Selected
	}
	cur, kind, ok := s.pools.Lookup(d.Category, d.SkillID)
	if !ok || kind != k {
		metrics.RecordEditSession("lost")
		return model.Skill{}, &pool.NotFoundError{Category: d.Category, SkillID: d.SkillID, Pool: k}
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = cur.Name
	}
	n := level.Resolve(d.Level)
	sk, err := s.pools.Rename(d.Category, d.SkillID, name)
	if err != nil {
		return model.Skill{}, err
	}
	if k == pool.Selected {
		if sk, err = s.pools.SetLevel(d.Category, d.SkillID, n); err != nil {
			return model.Skill{}, err
		}
	}
	s.levels.Put(d.Category, d.SkillID, n)
	metrics.RecordEditSession("committed")
	return sk, nil
}

// DiscardEdit closes the edit without changes.
func (s *Session) DiscardEdit() error {
	if err := s.editor.Discard(); err != nil {
		return err
	}
	metrics.RecordEditSession("discarded")
	return nil
}

// DeleteCurrent closes the edit after deselecting a selected skill or
// permanently deleting an available one.
func (s *Session) DeleteCurrent() (model.Skill, error) {
	st, d, err := s.editor.Take()
	if err != nil {
		return model.Skill{}, err
	}
	metrics.RecordEditSession("deleted")
	if st == edit.EditingSelected {
		return s.deselect(d.Category, d.SkillID)
	}
	return s.purge(d.Category, pool.Available, d.SkillID)
}
