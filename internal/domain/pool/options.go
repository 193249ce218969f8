package pool

import "github.com/okian/skillfolio/internal/domain/ids"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithIDSource sets the source used for ids of created skills.
func WithIDSource(src ids.Source) Option {
	return func(s *Store) {
		if src != nil {
			s.ids = src
		}
	}
}
