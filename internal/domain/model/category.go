package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category tag cannot be parsed.
var ErrUnknownCategory = errors.New("unknown category")

// Category scopes pools, levels and evaluations.
type Category string

// Known categories.
const (
	Hard Category = "hard"
	Soft Category = "soft"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{Hard, Soft}
}

// ParseCategory accepts "hard", "Hard", "hard skills" and the like.
func ParseCategory(s string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimSuffix(v, " skills")
	switch Category(v) {
	case Hard:
		return Hard, nil
	case Soft:
		return Soft, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == Hard || c == Soft
}

func (c Category) String() string { return string(c) }
