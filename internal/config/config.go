// Package config provides configuration loading and validation for the
// resume builder server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/logger"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/store"
)

// Config is the full application configuration. Values are layered:
// Default, then the config file, then environment variables, then CLI flags.
type Config struct {
	Server ServerConfig  `yaml:"server"`
	LLM    llm.Config    `yaml:"llm"`
	Store  store.Config  `yaml:"store"`
	Events events.Config `yaml:"events"`
	Log    logger.Config `yaml:"log"`

	RateLimit ratelimit.Settings `yaml:"rate_limit"`

	// APIKey is the Gemini credential. Prefer GEMINI_API_KEY over the file.
	APIKey string `yaml:"api_key"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int `yaml:"port"`
	// DefaultStudentID is used when a request names no student
	DefaultStudentID string        `yaml:"default_student_id"`
	AllowedOrigins   []string      `yaml:"allowed_origins"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             5000,
			DefaultStudentID: store.DemoStudentID,
			AllowedOrigins:   []string{"*"},
			ShutdownTimeout:  10 * time.Second,
		},
		LLM: *llm.DefaultConfig(),
		Store: store.Config{
			Driver: store.DriverMemory,
			Seed:   true,
		},
		Events: events.Config{
			Exchange: events.DefaultExchange,
		},
		Log: logger.Config{
			Level:  "info",
			Format: "json",
		},
		RateLimit: ratelimit.DefaultSettings(),
	}
}

// Load reads a YAML (or JSON) file over Default().
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto the config
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("GEMINI_API_KEY", &c.APIKey)
	str("DATABASE_URL", &c.Store.DatabaseURL)
	str("REDIS_URL", &c.Store.RedisURL)
	str("MONGO_URI", &c.Store.MongoURI)
	str("STORE_DRIVER", &c.Store.Driver)
	str("AMQP_URL", &c.Events.AMQPURL)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LLM_MODEL", &c.LLM.Model)
	str("DEFAULT_STUDENT_ID", &c.Server.DefaultStudentID)

	var provider string
	str("LLM_PROVIDER", &provider)
	if provider != "" {
		c.LLM.Provider = llm.Provider(provider)
	}

	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config error: invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}
	duration := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config error: invalid %s %q: %w", key, v, err)
		}
		*dst = d
		return nil
	}

	if err := integer("PORT", &c.Server.Port); err != nil {
		return err
	}

	if v, ok := lookup("RATE_LIMIT_ENABLED"); ok && strings.TrimSpace(v) != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config error: invalid RATE_LIMIT_ENABLED %q: %w", v, err)
		}
		c.RateLimit.Enabled = enabled
	}
	if err := integer("RATE_LIMIT_DEFAULT_LIMIT", &c.RateLimit.DefaultLimit); err != nil {
		return err
	}
	if err := integer("RATE_LIMIT_GRADE_LIMIT", &c.RateLimit.GradeLimit); err != nil {
		return err
	}
	if err := duration("RATE_LIMIT_DEFAULT_WINDOW", &c.RateLimit.DefaultWindow); err != nil {
		return err
	}
	if err := duration("RATE_LIMIT_CLEANUP_INTERVAL", &c.RateLimit.CleanupInterval); err != nil {
		return err
	}
	if v, ok := lookup("RATE_LIMIT_WHITELIST"); ok {
		c.RateLimit.Whitelist = ratelimit.ParseIPList(v)
	}
	if v, ok := lookup("RATE_LIMIT_BLACKLIST"); ok {
		c.RateLimit.Blacklist = ratelimit.ParseIPList(v)
	}
	return nil
}

// Validate checks that the configuration has valid values.
// A missing API key is not an error; grading is disabled instead.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.DefaultStudentID == "" {
		return fmt.Errorf("config error: 'server.default_student_id' is required")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("config error: 'server.shutdown_timeout' must be non-negative")
	}

	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	switch c.Store.Driver {
	case "", store.DriverMemory:
	case store.DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("config error: 'store.database_url' is required for the postgres driver")
		}
	case store.DriverRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("config error: 'store.redis_url' is required for the redis driver")
		}
	case store.DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("config error: 'store.mongo_uri' is required for the mongo driver")
		}
	default:
		return fmt.Errorf("config error: unknown store driver %q", c.Store.Driver)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.DefaultLimit <= 0 || c.RateLimit.GradeLimit <= 0 {
			return fmt.Errorf("config error: 'rate_limit' limits must be positive")
		}
		if c.RateLimit.DefaultWindow <= 0 {
			return fmt.Errorf("config error: 'rate_limit.default_window' must be positive")
		}
	}

	switch c.Log.Format {
	case "", "json", "pretty":
	default:
		return fmt.Errorf("config error: 'log.format' must be json or pretty, got %q", c.Log.Format)
	}

	return nil
}
