// Package config defines service configuration and its defaults.
package config

import (
	"strings"
	"time"

	"github.com/okian/ebladvance/internal/domain/model"
)

// Meet names one league meet on the upstream results API.
type Meet struct {
	// Code is the upstream event code, e.g. USCANOEBM1.
	Code string `koanf:"code"`
	// Prefix starts every match id of the meet, e.g. M1.
	Prefix string `koanf:"prefix"`
	// Key addresses the meet in the API, e.g. meet1.
	Key string `koanf:"key"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address.
	Addr string `koanf:"addr"`

	// DBPath is the SQLite file; ":memory:" keeps everything in process memory.
	DBPath string `koanf:"db_path"`

	// FTCScoutURL is the GraphQL endpoint for league results.
	FTCScoutURL string `koanf:"ftcscout_url"`

	// Season is the competition season passed upstream.
	Season int `koanf:"season"`

	Meets []Meet           `koanf:"meets"`
	Teams []model.TeamInfo `koanf:"teams"`

	// RefreshInterval is the period of the background league refresh.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// FetchRatePerSecond paces upstream requests.
	FetchRatePerSecond float64 `koanf:"fetch_rate_per_second"`

	// FetchTimeout bounds one upstream request.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// AdvanceSlots is how many teams advance from the league.
	AdvanceSlots int `koanf:"advance_slots"`

	// WriteRatePerSecond limits mutating API requests per client IP; 0 disables it.
	WriteRatePerSecond float64 `koanf:"write_rate_per_second"`
	WriteBurst         int     `koanf:"write_burst"`
}

// New returns a Config populated with defaults for the East Bay league.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":5001",
		DBPath:             "ebladvance.db",
		FTCScoutURL:        "https://api.ftcscout.org/graphql",
		Season:             2025,
		Meets:              DefaultMeets(),
		Teams:              DefaultTeams(),
		RefreshInterval:    5 * time.Minute,
		FetchRatePerSecond: 2,
		FetchTimeout:       15 * time.Second,
		AdvanceSlots:       2,
		WriteRatePerSecond: 5,
		WriteBurst:         10,
	}
}

// DefaultMeets lists the three league meets.
func DefaultMeets() []Meet {
	return []Meet{
		{Code: "USCANOEBM1", Prefix: "M1", Key: "meet1"},
		{Code: "USCANOEBM2", Prefix: "M2", Key: "meet2"},
		{Code: "USCANOEBM3", Prefix: "M3", Key: "meet3"},
	}
}

// DefaultTeams lists the league roster.
func DefaultTeams() []model.TeamInfo {
	return []model.TeamInfo{
		{Number: "5214", Name: `"B.R.O." (Bot Resources Operation)`, Location: "Dublin, CA, USA"},
		{Number: "11920", Name: "QLS RaD Team", Location: "Dublin, CA, USA"},
		{Number: "14259", Name: "TURBΩ V8", Location: "Pleasanton, CA, USA"},
		{Number: "14770", Name: "Control+Q", Location: "Dublin, CA, USA"},
		{Number: "23212", Name: "Dublin Robotics Cybirds", Location: "Dublin, CA, USA"},
		{Number: "23279", Name: "Turbotrons", Location: "Pleasanton, CA, USA"},
		{Number: "23304", Name: "Cyber Knights", Location: "Dublin, CA, USA"},
		{Number: "25627", Name: "Robowarriors", Location: "Fremont, CA, USA"},
		{Number: "25810", Name: "Cerberus", Location: "Pleasanton, CA, USA"},
		{Number: "26891", Name: "Tech Titans", Location: "Fremont, CA, USA"},
		{Number: "30450", Name: "Sharp Face Robotics", Location: "Dublin, CA, USA"},
		{Number: "30473", Name: "Duck", Location: "Dublin, CA, USA"},
		{Number: "30474", Name: "Quantum Sparks", Location: "Dublin, CA, USA"},
		{Number: "32098", Name: "Robo Raptors", Location: "Pleasanton, CA, USA"},
	}
}

// Normalize trims surrounding space from team numbers.
func (c *Config) Normalize() {
	for i := range c.Teams {
		c.Teams[i].Number = strings.TrimSpace(c.Teams[i].Number)
	}
}

// MeetByKey finds a configured meet.
func (c *Config) MeetByKey(key string) (Meet, bool) {
	for _, m := range c.Meets {
		if m.Key == key {
			return m, true
		}
	}
	return Meet{}, false
}
