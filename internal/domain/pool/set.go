package pool

import "github.com/okian/skillfolio/internal/domain/model"

// set is an id-keyed collection that remembers insertion order.
type set struct {
	order []string
	items map[string]model.Skill
}

func newSet() *set {
	return &set{items: make(map[string]model.Skill)}
}

func (s *set) get(id string) (model.Skill, bool) {
	sk, ok := s.items[id]
	return sk, ok
}

func (s *set) has(id string) bool {
	_, ok := s.items[id]
	return ok
}

// put appends new ids and updates existing ones in place.
func (s *set) put(sk model.Skill) {
	if _, ok := s.items[sk.ID]; !ok {
		s.order = append(s.order, sk.ID)
	}
	s.items[sk.ID] = sk
}

func (s *set) remove(id string) (model.Skill, bool) {
	sk, ok := s.items[id]
	if !ok {
		return model.Skill{}, false
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return sk, true
}

func (s *set) len() int { return len(s.items) }

// list returns skills in insertion order, keeping those keep accepts.
func (s *set) list(keep func(model.Skill) bool) []model.Skill {
	out := make([]model.Skill, 0, len(s.order))
	for _, id := range s.order {
		sk := s.items[id]
		if keep == nil || keep(sk) {
			out = append(out, sk)
		}
	}
	return out
}
