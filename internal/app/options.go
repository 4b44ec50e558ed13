package service

import (
	"github.com/okian/ebladvance/internal/config"
	"github.com/okian/ebladvance/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRefresher wires the background league refresher.
func WithRefresher(r Refresher) Option {
	return func(s *Service) {
		if r != nil {
			s.refresher = r
		}
	}
}

// WithMeets sets the configured league meets.
func WithMeets(meets []config.Meet) Option {
	return func(s *Service) {
		if meets != nil {
			s.meets = meets
		}
	}
}

// WithAdvanceSlots sets how many teams are flagged as advancing.
func WithAdvanceSlots(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.advanceSlots = n
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
