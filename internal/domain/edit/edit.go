// Package edit holds the single-slot scratch state for editing one skill.
package edit

import (
	"github.com/okian/skillfolio/internal/domain/level"
	"github.com/okian/skillfolio/internal/domain/model"
)

// State of the controller.
type State string

// Controller states.
const (
	Closed           State = "closed"
	EditingSelected  State = "editing_selected"
	EditingAvailable State = "editing_available"
)

// Draft is the scratch copy of the skill being edited.
type Draft struct {
	Category model.Category `json:"category"`
	SkillID  string         `json:"skill_id"`
	Name     string         `json:"name"`
	Level    string         `json:"level"`
}

// Controller is the edit state machine. Not safe for concurrent use.
type Controller struct {
	state State
	draft Draft
}

// New returns a closed Controller.
func New() *Controller {
	return &Controller{state: Closed}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Draft returns the scratch copy and whether an edit is open.
func (c *Controller) Draft() (Draft, bool) {
	return c.draft, c.state != Closed
}

// Open starts editing. It fails with ErrEditActive unless closed.
func (c *Controller) Open(state State, d Draft) error {
	if c.state != Closed {
		return ErrEditActive
	}
	if state != EditingSelected && state != EditingAvailable {
		return ErrBadState
	}
	if d.Level == "" {
		d.Level = level.DefaultText
	}
	c.state, c.draft = state, d
	return nil
}

// SetName replaces the scratch name.
func (c *Controller) SetName(name string) error {
	if c.state == Closed {
		return ErrNoEdit
	}
	c.draft.Name = name
	return nil
}

// SetLevel replaces the scratch level if raw is empty or digits and reports acceptance.
func (c *Controller) SetLevel(raw string) (bool, error) {
	if c.state == Closed {
		return false, ErrNoEdit
	}
	if !level.Digits(raw) {
		return false, nil
	}
	c.draft.Level = raw
	return true, nil
}

// Take returns the draft with its state and closes the controller.
func (c *Controller) Take() (State, Draft, error) {
	if c.state == Closed {
		return Closed, Draft{}, ErrNoEdit
	}
	st, d := c.state, c.draft
	c.close()
	return st, d, nil
}

// Discard closes without side effects.
func (c *Controller) Discard() error {
	if c.state == Closed {
		return ErrNoEdit
	}
	c.close()
	return nil
}

func (c *Controller) close() {
	c.state, c.draft = Closed, Draft{}
}
