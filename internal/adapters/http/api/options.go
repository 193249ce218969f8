package api

import "github.com/okian/skillfolio/pkg/logger"

type options struct {
	logger logger.Logger
}

// Option configures the Server.
type Option func(*options)

// WithLogger sets the logger used for request anomalies.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
