package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Settings is the file and environment facing form of Config. It lives in
// the rate_limit section of the application config.
type Settings struct {
	Enabled         bool          `yaml:"enabled"`
	DefaultLimit    int           `yaml:"default_limit"`
	DefaultWindow   time.Duration `yaml:"default_window"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
	// GradeLimit caps grading calls per client per hour
	GradeLimit int      `yaml:"grade_limit"`
	Whitelist  []string `yaml:"whitelist"`
	Blacklist  []string `yaml:"blacklist"`
}

// DefaultSettings returns the limits used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		GradeLimit:      20,
	}
}

// Config builds the limiter configuration from s
func (s Settings) Config() *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		Whitelist:       ipSet(s.Whitelist),
		Blacklist:       ipSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(s.GradeLimit),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations.
// gradeLimit applies to the grading endpoint, the only one that calls the LLM.
func DefaultEndpointConfigs(gradeLimit int) []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: LLM calls (strictest limits)
		{Path: "/api/resume/grade", Method: "POST", Limit: gradeLimit, Window: time.Hour, Burst: 3},

		// Tier 2: Write operations (moderate limits)
		{Path: "/api/resume/save-draft", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/api/resume/generate", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/resume/apply-suggestions", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Tier 3: Read operations (more lenient) - handled by default limit
		// Tier 4: Health check (unlimited) - handled by special case in matcher
	}
}

// ParseIPList splits a comma-separated list of IP addresses, dropping blanks
func ParseIPList(list string) []string {
	var out []string
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			out = append(out, ip)
		}
	}
	return out
}

func ipSet(ips []string) map[string]bool {
	result := make(map[string]bool, len(ips))
	for _, ip := range ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
