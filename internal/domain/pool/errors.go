package pool

import (
	"errors"
	"fmt"

	"github.com/okian/skillfolio/internal/domain/model"
)

// Sentinel kinds for pool errors.
var (
	ErrNotFound      = errors.New("skill not found")
	ErrDuplicateName = errors.New("duplicate skill name")
	ErrEmptyName     = errors.New("skill name is empty")
)

// NotFoundError reports a skill id absent from the pool an operation expected.
type NotFoundError struct {
	Category model.Category
	SkillID  string
	Pool     Kind
}

func (e *NotFoundError) Error() string {
	if e.Pool == "" {
		return fmt.Sprintf("skill %q not found in %s", e.SkillID, e.Category)
	}
	return fmt.Sprintf("skill %q not found in %s %s pool", e.SkillID, e.Category, e.Pool)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateNameError reports a creation-time name collision in the available pool.
type DuplicateNameError struct {
	Category model.Category
	Name     string
	Existing string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("skill %q already available in %s as %q", e.Name, e.Category, e.Existing)
}

// Is matches ErrDuplicateName.
func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }
