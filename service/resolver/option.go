package resolver

import "github.com/rs/zerolog"

type Option func(*Service)

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDefaultGroup sets the workflow group used for unnamed processes
func WithDefaultGroup(group string) Option {
	return func(s *Service) {
		s.defaultGroup = group
	}
}
