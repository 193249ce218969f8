package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownEvaluator is returned when an evaluator tag cannot be parsed.
var ErrUnknownEvaluator = errors.New("unknown evaluator")

// Evaluator names one of the three scoring sources.
type Evaluator string

// Known evaluators.
const (
	Teacher Evaluator = "teacher"
	AI      Evaluator = "ai"
	Student Evaluator = "student"
)

// Evaluators returns the rows in display order.
func Evaluators() []Evaluator {
	return []Evaluator{Teacher, AI, Student}
}

// ParseEvaluator is case-insensitive.
func ParseEvaluator(s string) (Evaluator, error) {
	switch e := Evaluator(strings.ToLower(strings.TrimSpace(s))); e {
	case Teacher, AI, Student:
		return e, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEvaluator, s)
	}
}

func (e Evaluator) String() string { return string(e) }

// UnsetMarker is how an unset score is typed and displayed.
const UnsetMarker = "-"

// Score is an evaluator value or the unset sentinel.
type Score struct {
	Value int
	Set   bool
}

// Unset is the sentinel score.
var Unset = Score{}

// ScoreOf returns a set score.
func ScoreOf(v int) Score { return Score{Value: v, Set: true} }

func (s Score) String() string {
	if !s.Set {
		return UnsetMarker
	}
	return strconv.Itoa(s.Value)
}

// MarshalJSON renders unset as null.
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.Value)), nil
}

// UnmarshalJSON accepts null or an integer.
func (s *Score) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = Unset
		return nil
	}
	v, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	*s = ScoreOf(v)
	return nil
}
