// Package config loads the interview partner's settings from an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Session store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Interview InterviewConfig `mapstructure:"interview"`
	Session   SessionConfig   `mapstructure:"session"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Report    ReportConfig    `mapstructure:"report"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Password  PasswordConfig  `mapstructure:"password"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// GeminiConfig holds the generation parameters of the hosted model.
type GeminiConfig struct {
	APIKey          string  `mapstructure:"api_key"`
	Model           string  `mapstructure:"model"`
	Temperature     float32 `mapstructure:"temperature"`
	TopP            float32 `mapstructure:"top_p"`
	TopK            int32   `mapstructure:"top_k"`
	MaxOutputTokens int32   `mapstructure:"max_output_tokens"`
}

// InterviewConfig bounds the interview flow.
type InterviewConfig struct {
	DefaultQuestionCount int `mapstructure:"default_question_count"`
	MinAnswerLength      int `mapstructure:"min_answer_length"`
	MaxAnswerLength      int `mapstructure:"max_answer_length"`
	MinResumeChars       int `mapstructure:"min_resume_chars"`
	BatchConcurrency     int `mapstructure:"batch_concurrency"`
}

// SessionConfig selects and tunes the session store.
type SessionConfig struct {
	Store           string        `mapstructure:"store"`
	Dir             string        `mapstructure:"dir"`
	Timeout         time.Duration `mapstructure:"timeout"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// DatabaseConfig is used when the session store is postgres.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LogConfig selects the logger encoding and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// ReportConfig controls PDF rendering.
type ReportConfig struct {
	ChromePath string        `mapstructure:"chrome_path"`
	PDFTimeout time.Duration `mapstructure:"pdf_timeout"`
}

// RateLimitConfig tunes the per-client token buckets.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	IdleTTL         time.Duration `mapstructure:"idle_ttl"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.cors_origins", []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5173",
	})

	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.top_p", 0.95)
	v.SetDefault("gemini.top_k", 40)
	v.SetDefault("gemini.max_output_tokens", 2048)

	v.SetDefault("interview.default_question_count", 10)
	v.SetDefault("interview.min_answer_length", 10)
	v.SetDefault("interview.max_answer_length", 5000)
	v.SetDefault("interview.min_resume_chars", 100)
	v.SetDefault("interview.batch_concurrency", 4)

	v.SetDefault("session.store", StoreFile)
	v.SetDefault("session.dir", "data/sessions")
	v.SetDefault("session.timeout", 120*time.Minute)
	v.SetDefault("session.cleanup_interval", 10*time.Minute)

	v.SetDefault("report.pdf_timeout", 30*time.Second)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 600)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.idle_ttl", time.Hour)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})

	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("password.bcrypt_cost", 12)
}

// bindEnv maps the conventional environment variable names onto config keys.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"server.port":          {"PORT"},
		"gemini.api_key":       {"GEMINI_API_KEY", "GOOGLE_AI_API_KEY"},
		"gemini.model":         {"GEMINI_MODEL"},
		"database.url":         {"DATABASE_URL"},
		"session.store":        {"SESSION_STORE"},
		"session.dir":          {"SESSION_DIR"},
		"jwt.secret":           {"JWT_SECRET"},
		"jwt.expiration_hours": {"JWT_EXPIRATION_HOURS"},
		"password.bcrypt_cost": {"BCRYPT_COST"},
		"password.pepper":      {"PASSWORD_PEPPER"},
		"report.chrome_path":   {"CHROME_PATH"},

		"rate_limit.enabled":       {"RATE_LIMIT_ENABLED"},
		"rate_limit.default_limit": {"RATE_LIMIT_DEFAULT_LIMIT"},
		"rate_limit.whitelist":     {"RATE_LIMIT_WHITELIST"},
		"rate_limit.blacklist":     {"RATE_LIMIT_BLACKLIST"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// Load reads configuration from path (optional) and the environment.
// Nested keys are also reachable as INTERVIEW_<SECTION>_<KEY>, for example
// INTERVIEW_SESSION_TIMEOUT=30m.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("interview")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = uuid.NewString()
		cfg.JWT.Generated = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port))
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		errs = append(errs, fmt.Errorf("config error: 'gemini.temperature' must be within 0-2"))
	}
	if n := c.Interview.DefaultQuestionCount; n < 5 || n > 20 {
		errs = append(errs, fmt.Errorf("config error: 'interview.default_question_count' must be within 5-20, got %d", n))
	}
	if c.Interview.MinAnswerLength < 0 || c.Interview.MaxAnswerLength < c.Interview.MinAnswerLength {
		errs = append(errs, fmt.Errorf("config error: answer length bounds are inconsistent"))
	}
	if c.Interview.BatchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("config error: 'interview.batch_concurrency' must be positive"))
	}
	switch c.Session.Store {
	case StoreFile:
		if c.Session.Dir == "" {
			errs = append(errs, fmt.Errorf("config error: 'session.dir' is required for the file store"))
		}
	case StorePostgres:
		if c.Database.URL == "" {
			errs = append(errs, fmt.Errorf("config error: 'database.url' is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("config error: unknown session store %q", c.Session.Store))
	}
	if c.Session.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'session.timeout' must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultLimit < 1 || c.RateLimit.DefaultWindow <= 0) {
		errs = append(errs, fmt.Errorf("config error: rate limit default limit and window must be positive"))
	}
	if err := c.JWT.normalize(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Password.normalize(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
