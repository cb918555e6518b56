package config

import (
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// Environment variable names.
const (
	EnvHTTPAddress     = "HTTP_ADDRESS"
	EnvGRPCAddress     = "GRPC_ADDRESS"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvAccessSecret    = "JWT_SECRET"
	EnvRefreshSecret   = "JWT_REFRESH_SECRET"
	EnvAccessTokenTTL  = "JWT_EXPIRATION"
	EnvRefreshTokenTTL = "JWT_REFRESH_EXPIRATION"
	EnvRedisURL        = "REDIS_URL"
	EnvLogLevel        = "LOG_LEVEL"
)

// parseEnv overlays Config with variables that are set, even to an empty
// string (DATABASE_URL="" selects the in-memory store).
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	vars := []struct {
		key string
		dst *string
	}{
		{EnvHTTPAddress, &config.EndpointAddrHTTP},
		{EnvGRPCAddress, &config.EndpointAddrGRPC},
		{EnvDatabaseURL, &config.DatabaseDSN},
		{EnvAccessSecret, &config.AccessTokenSecret},
		{EnvRefreshSecret, &config.RefreshTokenSecret},
		{EnvRedisURL, &config.EventsRedisURL},
		{EnvLogLevel, &config.LogLevel},
	}
	for _, s := range vars {
		if v, ok := lookup(s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := lookup(EnvAccessTokenTTL); ok {
		d, err := timex.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvAccessTokenTTL, err))
		}
		config.AccessTokenValidityDuration = d
	}
	if v, ok := lookup(EnvRefreshTokenTTL); ok {
		d, err := timex.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvRefreshTokenTTL, err))
		}
		config.RefreshTokenValidityDuration = d
	}
}
