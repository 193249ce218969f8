// Package pool maintains the available/selected partition of skills per category.
//
// A skill id lives in exactly one of the two pools of its category. Names
// are checked for collisions only at creation and only against the
// available pool; renames are never checked.
package pool

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/okian/skillfolio/internal/domain/ids"
	"github.com/okian/skillfolio/internal/domain/model"
)

// Kind names one side of the partition.
type Kind string

// Pool kinds.
const (
	Available Kind = "available"
	Selected  Kind = "selected"
)

type pair struct {
	available *set
	selected  *set
}

// Store holds both pools of every category. Not safe for concurrent use.
type Store struct {
	pools map[model.Category]*pair
	ids   ids.Source
	fold  cases.Caser
}

// New constructs an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		pools: make(map[model.Category]*pair),
		ids:   ids.UUID(),
		fold:  cases.Fold(),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, c := range model.Categories() {
		s.pools[c] = &pair{available: newSet(), selected: newSet()}
	}
	return s
}

func (s *Store) pair(c model.Category) *pair {
	p, ok := s.pools[c]
	if !ok {
		p = &pair{available: newSet(), selected: newSet()}
		s.pools[c] = p
	}
	return p
}

// key folds a name for comparison.
func (s *Store) key(name string) string {
	return s.fold.String(strings.TrimSpace(name))
}

// Seed replaces both pools of c with names in the available pool, ids "1".."n".
func (s *Store) Seed(c model.Category, names []string) {
	p := &pair{available: newSet(), selected: newSet()}
	for i, n := range names {
		p.available.put(model.Skill{ID: strconv.Itoa(i + 1), Name: strings.TrimSpace(n)})
	}
	s.pools[c] = p
}

// Create inserts a new skill into the available pool of c.
func (s *Store) Create(c model.Category, name string) (model.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Skill{}, ErrEmptyName
	}
	p := s.pair(c)
	k := s.key(name)
	for _, sk := range p.available.list(nil) {
		if s.key(sk.Name) == k {
			return model.Skill{}, &DuplicateNameError{Category: c, Name: name, Existing: sk.Name}
		}
	}
	id := s.ids.NewID()
	for p.available.has(id) || p.selected.has(id) {
		id = s.ids.NewID()
	}
	sk := model.Skill{ID: id, Name: name}
	p.available.put(sk)
	return sk, nil
}

// Select moves id from available to selected, stamping level.
func (s *Store) Select(c model.Category, id string, level int) (model.Skill, error) {
	p := s.pair(c)
	sk, ok := p.available.remove(id)
	if !ok {
		return model.Skill{}, &NotFoundError{Category: c, SkillID: id, Pool: Available}
	}
	sk.Level = level
	p.selected.put(sk)
	return sk, nil
}

// Deselect moves id from selected back to available, stripping the level.
func (s *Store) Deselect(c model.Category, id string) (model.Skill, error) {
	p := s.pair(c)
	sk, ok := p.selected.remove(id)
	if !ok {
		return model.Skill{}, &NotFoundError{Category: c, SkillID: id, Pool: Selected}
	}
	sk.Level = 0
	p.available.put(sk)
	return sk, nil
}

// DeleteAvailable removes id from the available pool permanently.
func (s *Store) DeleteAvailable(c model.Category, id string) (model.Skill, error) {
	sk, ok := s.pair(c).available.remove(id)
	if !ok {
		return model.Skill{}, &NotFoundError{Category: c, SkillID: id, Pool: Available}
	}
	return sk, nil
}

// DeleteSelected removes id from the selected pool permanently.
func (s *Store) DeleteSelected(c model.Category, id string) (model.Skill, error) {
	sk, ok := s.pair(c).selected.remove(id)
	if !ok {
		return model.Skill{}, &NotFoundError{Category: c, SkillID: id, Pool: Selected}
	}
	return sk, nil
}

// Rename updates the name of id in whichever pool holds it.
func (s *Store) Rename(c model.Category, id, name string) (model.Skill, error) {
	p := s.pair(c)
	for _, st := range []*set{p.available, p.selected} {
		if sk, ok := st.get(id); ok {
			sk.Name = name
			st.put(sk)
			return sk, nil
		}
	}
	return model.Skill{}, &NotFoundError{Category: c, SkillID: id}
}

// SetLevel restamps a selected skill.
func (s *Store) SetLevel(c model.Category, id string, level int) (model.Skill, error) {
	st := s.pair(c).selected
	sk, ok := st.get(id)
	if !ok {
		return model.Skill{}, &NotFoundError{Category: c, SkillID: id, Pool: Selected}
	}
	sk.Level = level
	st.put(sk)
	return sk, nil
}

// Lookup reports the skill and the pool holding it.
func (s *Store) Lookup(c model.Category, id string) (model.Skill, Kind, bool) {
	p := s.pair(c)
	if sk, ok := p.available.get(id); ok {
		return sk, Available, true
	}
	if sk, ok := p.selected.get(id); ok {
		return sk, Selected, true
	}
	return model.Skill{}, "", false
}

// In reports whether id currently sits in pool k of c.
func (s *Store) In(c model.Category, k Kind, id string) bool {
	p := s.pair(c)
	if k == Selected {
		return p.selected.has(id)
	}
	return p.available.has(id)
}

// Available lists the available pool of c whose names contain filter.
func (s *Store) Available(c model.Category, filter string) []model.Skill {
	return s.pair(c).available.list(s.matcher(filter))
}

// Selected lists the selected pool of c whose names contain filter.
func (s *Store) Selected(c model.Category, filter string) []model.Skill {
	return s.pair(c).selected.list(s.matcher(filter))
}

// SelectedIDs returns selected ids of c in display order.
func (s *Store) SelectedIDs(c model.Category) []string {
	st := s.pair(c).selected
	out := make([]string, len(st.order))
	copy(out, st.order)
	return out
}

// Counts returns the sizes of both pools of c.
func (s *Store) Counts(c model.Category) (available, selected int) {
	p := s.pair(c)
	return p.available.len(), p.selected.len()
}

func (s *Store) matcher(filter string) func(model.Skill) bool {
	if filter == "" {
		return nil
	}
	f := s.fold.String(filter)
	return func(sk model.Skill) bool {
		return strings.Contains(s.fold.String(sk.Name), f)
	}
}
