package api

import "golang.org/x/time/rate"

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit limits mutating requests per client IP. A non-positive
// rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = NewIPRateLimiter(rate.Limit(perSecond), burst)
	}
}
