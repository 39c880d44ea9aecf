package ratelimit

import (
	"strings"
)

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact paths win over prefixes; among prefixes the longest wins.
// Returns nil when nothing matches.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		c := &configs[i]
		if c.Path == path && methodMatches(c.Method, method) {
			return c
		}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Path == "/" || !strings.HasSuffix(c.Path, "/") || !methodMatches(c.Method, method) {
			continue
		}
		if strings.HasPrefix(path, c.Path) && (best == nil || len(c.Path) > len(best.Path)) {
			best = c
		}
	}
	return best
}

func methodMatches(configured, method string) bool {
	return configured == AnyMethod || strings.EqualFold(configured, method)
}
