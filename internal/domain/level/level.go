// Package level stores pending level strings keyed by category and skill.
//
// Values are raw text so partially typed or empty input survives between
// keystrokes. Invalid values are never errors; they resolve to 1.
package level

import (
	"strconv"

	"github.com/okian/skillfolio/internal/domain/model"
)

// Default is the level used when nothing valid was entered.
const Default = 1

// DefaultText is Default as displayed.
const DefaultText = "1"

type key struct {
	cat model.Category
	id  string
}

// Store maps (category, skill id) to a pending level string. Not safe for concurrent use.
type Store struct {
	values map[key]string
}

// New constructs an empty Store.
func New() *Store {
	return &Store{values: make(map[key]string)}
}

// Digits reports whether raw is empty or ASCII digits only.
func Digits(raw string) bool {
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return false
		}
	}
	return true
}

// Resolve parses raw as a non-negative integer; failure or < 1 yields Default.
func Resolve(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return Default
	}
	return n
}

// Set stores raw if it is empty or digits and reports whether it was kept.
func (s *Store) Set(c model.Category, id, raw string) bool {
	if !Digits(raw) {
		return false
	}
	s.values[key{c, id}] = raw
	return true
}

// Value returns the stored string and whether one exists.
func (s *Store) Value(c model.Category, id string) (string, bool) {
	v, ok := s.values[key{c, id}]
	return v, ok
}

// Display returns the stored string, or DefaultText when none exists.
func (s *Store) Display(c model.Category, id string) string {
	if v, ok := s.values[key{c, id}]; ok {
		return v
	}
	return DefaultText
}

// Blur reverts an empty or sub-1 value to DefaultText and returns the result.
func (s *Store) Blur(c model.Category, id string) string {
	k := key{c, id}
	v, ok := s.values[k]
	if !ok {
		return DefaultText
	}
	if n, err := strconv.Atoi(v); err != nil || n < 1 {
		s.values[k] = DefaultText
		return DefaultText
	}
	return v
}

// Commit resolves the stored value and normalises it to the committed level.
func (s *Store) Commit(c model.Category, id string) int {
	k := key{c, id}
	n := Resolve(s.values[k])
	s.values[k] = strconv.Itoa(n)
	return n
}

// Put records a committed level.
func (s *Store) Put(c model.Category, id string, n int) {
	s.values[key{c, id}] = strconv.Itoa(n)
}

// Forget drops the entry for id.
func (s *Store) Forget(c model.Category, id string) {
	delete(s.values, key{c, id})
}

// Len returns the number of stored entries.
func (s *Store) Len() int { return len(s.values) }
