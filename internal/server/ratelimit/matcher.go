package ratelimit

import (
	"net/http"
	"strings"
)

var unlimited = &EndpointConfig{}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Returns the matching EndpointConfig or nil if no match is found.
// Path matching supports prefix matching (e.g., "/api/resume/history/" matches "/api/resume/history/{id}").
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks and CORS preflights are never limited
	if (path == "/health" && method == http.MethodGet) || method == http.MethodOptions {
		return unlimited
	}

	for i := range configs {
		config := &configs[i]
		if config.Path == path && config.Method == method {
			return config
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}
