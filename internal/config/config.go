// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns defaults; Load layers file and environment on top.
// - Errors returned by Load wrap this package's sentinel errors.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// EvidenceQueueSize bounds the in-memory evidence queue.
	EvidenceQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of evidence workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the evidence id cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxSessions caps concurrently live sessions; 0 means unlimited.
	MaxSessions int `koanf:"max_sessions"`

	// RandomSeed seeds evaluator generation. 0 seeds from the clock.
	RandomSeed uint64 `koanf:"random_seed"`

	// HardSkills and SoftSkills are the seed names placed in the available pools.
	HardSkills []string `koanf:"hard_skills"`
	SoftSkills []string `koanf:"soft_skills"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		EvidenceQueueSize: 10_000,
		WorkerCount:       1,
		DedupeSize:        100_000,
		MaxSessions:       0,
		RandomSeed:        0,
		HardSkills: []string{
			"JavaScript", "Python", "React", "Node.js",
			"TypeScript", "SQL", "MongoDB", "Git",
		},
		SoftSkills: []string{
			"Communication", "Teamwork", "Problem Solving", "Leadership",
			"Time Management", "Adaptability", "Creativity", "Critical Thinking",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	for _, name := range c.HardSkills {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: hard_skills contains a blank name", ErrInvalidConfig)
		}
	}
	for _, name := range c.SoftSkills {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: soft_skills contains a blank name", ErrInvalidConfig)
		}
	}
	return nil
}
