package service

import (
	"github.com/okian/skillfolio/internal/config"
	"github.com/okian/skillfolio/internal/domain/ids"
	"github.com/okian/skillfolio/internal/domain/model"
	"github.com/okian/skillfolio/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of evidence workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the evidence queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the evidence id cache; <= 0 means unbounded.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		s.dedupeSize = size
	}
}

// WithMaxSessions caps live sessions; 0 means unlimited.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxSessions = n
		}
	}
}

// WithRandomSeed makes evaluator draws reproducible; session n uses seed+n.
func WithRandomSeed(seed uint64) Option {
	return func(s *Service) {
		s.randomSeed = seed
	}
}

// WithSeeds sets the initial available skill names of a category.
func WithSeeds(c model.Category, names []string) Option {
	return func(s *Service) {
		s.seeds[c] = append([]string(nil), names...)
	}
}

// WithSessionIDSource sets the source of session ids.
func WithSessionIDSource(src ids.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.sessionIDs = src
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// OptionsFromConfig maps process configuration onto service options.
func OptionsFromConfig(cfg *config.Config) []Option {
	return []Option{
		WithWorkerCount(cfg.WorkerCount),
		WithQueueSize(cfg.EvidenceQueueSize),
		WithDedupeSize(cfg.DedupeSize),
		WithMaxSessions(cfg.MaxSessions),
		WithRandomSeed(cfg.RandomSeed),
		WithSeeds(model.Hard, cfg.HardSkills),
		WithSeeds(model.Soft, cfg.SoftSkills),
	}
}
