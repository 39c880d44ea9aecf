package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/interview-partner/internal/config"
)

// AnyMethod matches every HTTP method.
const AnyMethod = "*"

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path; a trailing "/" matches every path below it
	Method string        // HTTP method or AnyMethod
	Limit  int           // Maximum requests per window; 0 means unlimited
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // buckets idle for longer are dropped
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// FromSettings builds the limiter configuration from the service settings,
// adding the default endpoint tiers.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    s.DefaultLimit,
		DefaultWindow:   s.DefaultWindow,
		CleanupInterval: s.CleanupInterval,
		IdleTTL:         s.IdleTTL,
		Whitelist:       ipSet(s.Whitelist),
		Blacklist:       ipSet(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	post := http.MethodPost
	return []EndpointConfig{
		// Probes are unlimited
		{Path: "/health", Method: http.MethodGet, Limit: 0},
		{Path: "/", Method: http.MethodGet, Limit: 0},

		// Credential endpoints: slow down password guessing
		{Path: "/api/auth/login", Method: post, Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/signup", Method: post, Limit: 5, Window: time.Minute, Burst: 3},
		{Path: "/login", Method: post, Limit: 10, Window: time.Minute, Burst: 5},

		// Model-backed endpoints
		{Path: "/api/interview/setup", Method: post, Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/interview/generate-questions", Method: post, Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/reports/generate", Method: post, Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/api/evaluation/batch-evaluate", Method: post, Limit: 20, Window: time.Hour, Burst: 3},
		{Path: "/api/evaluation/submit-answer", Method: post, Limit: 120, Window: time.Hour, Burst: 20},
		{Path: "/api/evaluation/generate-followup", Method: post, Limit: 120, Window: time.Hour, Burst: 20},
		{Path: "/api/questions/", Method: post, Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/api/chat", Method: post, Limit: 60, Window: time.Hour, Burst: 10},

		// PDF rendering starts a browser
		{Path: "/api/reports/download/", Method: http.MethodGet, Limit: 30, Window: time.Hour, Burst: 5},

		// Uploads
		{Path: "/api/interview/upload-resume", Method: post, Limit: 30, Window: time.Hour, Burst: 5},
	}
}

// ipSet turns a list of addresses into a lookup set.
func ipSet(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, item := range list {
		for _, ip := range strings.Split(item, ",") {
			if ip = strings.TrimSpace(ip); ip != "" {
				result[ip] = true
			}
		}
	}
	return result
}
