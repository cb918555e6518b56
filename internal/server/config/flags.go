package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// parseFlags populates Config from command-line flags:
//
//	-a string   HTTP listen address
//	-g string   gRPC health listen address
//	-d string   PostgreSQL DSN (empty for the in-memory store)
//	-s string   access token secret
//	-S string   refresh token secret
//	-t duration access token validity ("15m")
//	-r duration refresh token validity ("7d")
//	-R string   Redis URL for auth events
//	-l string   log level
func parseFlags(config *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to serve HTTP")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to serve gRPC health")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "S", config.RefreshTokenSecret, "refresh token secret")
	fs.Func("t", "access token validity (e.g. 15m)", durationFlag(&config.AccessTokenValidityDuration))
	fs.Func("r", "refresh token validity (e.g. 7d)", durationFlag(&config.RefreshTokenValidityDuration))
	fs.StringVar(&config.EventsRedisURL, "R", config.EventsRedisURL, "redis URL for auth events")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := flagx.Parse(fs, args); err != nil {
		panic(err)
	}
}

func durationFlag(dst *time.Duration) func(string) error {
	return func(s string) error {
		d, err := timex.ParseDuration(s)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}
