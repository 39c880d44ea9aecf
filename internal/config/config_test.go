package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load binds so the host environment cannot leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "GEMINI_API_KEY", "GOOGLE_AI_API_KEY", "GEMINI_MODEL", "DATABASE_URL",
		"SESSION_STORE", "SESSION_DIR", "JWT_SECRET", "JWT_EXPIRATION_HOURS",
		"BCRYPT_COST", "PASSWORD_PEPPER", "CHROME_PATH",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_DEFAULT_LIMIT", "RATE_LIMIT_WHITELIST", "RATE_LIMIT_BLACKLIST",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.InDelta(t, 0.7, cfg.Gemini.Temperature, 0.001)
	assert.Equal(t, int32(40), cfg.Gemini.TopK)
	assert.Equal(t, int32(2048), cfg.Gemini.MaxOutputTokens)
	assert.Equal(t, 10, cfg.Interview.DefaultQuestionCount)
	assert.Equal(t, 100, cfg.Interview.MinResumeChars)
	assert.Equal(t, StoreFile, cfg.Session.Store)
	assert.Equal(t, 120*time.Minute, cfg.Session.Timeout)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, 12, cfg.Password.BcryptCost)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 600, cfg.RateLimit.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.DefaultWindow)
	assert.Empty(t, cfg.RateLimit.Whitelist)
	assert.True(t, cfg.JWT.Generated, "missing secret should be generated")
	assert.NotEmpty(t, cfg.JWT.Secret)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GOOGLE_AI_API_KEY", "from-google-env")
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("INTERVIEW_SESSION_TIMEOUT", "30m")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1,10.0.0.2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-google-env", cfg.Gemini.APIKey)
	assert.Equal(t, "test-secret-key", cfg.JWT.Secret)
	assert.False(t, cfg.JWT.Generated)
	assert.Equal(t, 30*time.Minute, cfg.Session.Timeout)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.RateLimit.Whitelist)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	content := `
server:
  port: 8080
  cors_origins: ["https://practice.example.com"]
interview:
  default_question_count: 7
session:
  store: postgres
database:
  url: postgres://localhost/interviews
`
	path := filepath.Join(t.TempDir(), "interview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"https://practice.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 7, cfg.Interview.DefaultQuestionCount)
	assert.Equal(t, StorePostgres, cfg.Session.Store)
	assert.Equal(t, "postgres://localhost/interviews", cfg.Database.URL)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Host: "0.0.0.0", Port: 8000},
			Gemini:    GeminiConfig{Temperature: 0.7},
			Interview: InterviewConfig{DefaultQuestionCount: 10, MinAnswerLength: 10, MaxAnswerLength: 5000, BatchConcurrency: 2},
			Session:   SessionConfig{Store: StoreFile, Dir: "data", Timeout: time.Hour},
			JWT:       JWTConfig{Secret: "s", ExpirationHours: 24},
			Password:  PasswordConfig{BcryptCost: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"question count too high", func(c *Config) { c.Interview.DefaultQuestionCount = 25 }, "default_question_count"},
		{"postgres without url", func(c *Config) { c.Session.Store = StorePostgres }, "database.url"},
		{"unknown store", func(c *Config) { c.Session.Store = "redis" }, "unknown session store"},
		{"bcrypt cost", func(c *Config) { c.Password.BcryptCost = 4 }, "bcrypt cost out of range"},
		{"jwt expiration", func(c *Config) { c.JWT.ExpirationHours = 0 }, "JWT_EXPIRATION_HOURS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
