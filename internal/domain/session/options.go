package session

import (
	"github.com/okian/skillfolio/internal/domain/ids"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/internal/domain/scoring"
	"github.com/okian/skillfolio/pkg/logger"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithID sets the session identifier.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithIDSource sets the source of ids for created skills.
func WithIDSource(src ids.Source) Option {
	return func(s *Session) {
		if src != nil {
			s.ids = src
		}
	}
}

// WithGenerator sets the Teacher/AI score generator.
func WithGenerator(g *scoring.Generator) Option {
	return func(s *Session) {
		if g != nil {
			s.gen = g
		}
	}
}

// WithSeeds sets the names placed in the available pool of c at start and reset.
func WithSeeds(c model.Category, names []string) Option {
	return func(s *Session) {
		s.seeds[c] = append([]string(nil), names...)
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}
