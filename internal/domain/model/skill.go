package model

// Skill is a named proficiency owned by one category.
// Level is zero while the skill sits in the available pool.
type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level,omitempty"`
}

// Selected reports whether the skill carries a level.
func (s Skill) Selected() bool { return s.Level > 0 }

// Equal compares skills by id.
func (s Skill) Equal(o Skill) bool { return s.ID == o.ID }
