package config

import (
	"fmt"
	"strings"
)

// Validate reports the first invalid setting, wrapped with ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DBPath) == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.FTCScoutURL) == "":
		return fmt.Errorf("%w: ftcscout_url must not be empty", ErrInvalidConfig)
	case c.Season <= 0:
		return fmt.Errorf("%w: season must be positive, got %d", ErrInvalidConfig, c.Season)
	case c.RefreshInterval <= 0:
		return fmt.Errorf("%w: refresh_interval must be positive", ErrInvalidConfig)
	case c.FetchRatePerSecond <= 0:
		return fmt.Errorf("%w: fetch_rate_per_second must be positive", ErrInvalidConfig)
	case c.FetchTimeout <= 0:
		return fmt.Errorf("%w: fetch_timeout must be positive", ErrInvalidConfig)
	case c.AdvanceSlots < 0:
		return fmt.Errorf("%w: advance_slots must not be negative", ErrInvalidConfig)
	case c.WriteRatePerSecond < 0:
		return fmt.Errorf("%w: write_rate_per_second must not be negative", ErrInvalidConfig)
	case c.WriteRatePerSecond > 0 && c.WriteBurst < 1:
		return fmt.Errorf("%w: write_burst must be positive when writes are limited", ErrInvalidConfig)
	}

	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}

	if len(c.Teams) == 0 {
		return fmt.Errorf("%w: teams must not be empty", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Teams))
	for i, t := range c.Teams {
		n := strings.TrimSpace(t.Number)
		if n == "" {
			return fmt.Errorf("%w: teams[%d] has no number", ErrInvalidConfig, i)
		}
		if n != t.Number {
			return fmt.Errorf("%w: teams[%d] number %q has surrounding space", ErrInvalidConfig, i, t.Number)
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("%w: team %s listed twice", ErrInvalidConfig, n)
		}
		seen[n] = struct{}{}
	}

	keys := make(map[string]struct{}, len(c.Meets))
	prefixes := make(map[string]struct{}, len(c.Meets))
	for i, m := range c.Meets {
		if m.Code == "" || m.Prefix == "" || m.Key == "" {
			return fmt.Errorf("%w: meets[%d] needs code, prefix and key", ErrInvalidConfig, i)
		}
		if _, dup := keys[m.Key]; dup {
			return fmt.Errorf("%w: meet key %s listed twice", ErrInvalidConfig, m.Key)
		}
		if _, dup := prefixes[m.Prefix]; dup {
			return fmt.Errorf("%w: meet prefix %s listed twice", ErrInvalidConfig, m.Prefix)
		}
		keys[m.Key] = struct{}{}
		prefixes[m.Prefix] = struct{}{}
	}
	return nil
}
