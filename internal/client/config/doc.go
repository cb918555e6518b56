// Package config loads runtime configuration for the GophAuth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the auth server
//	-f string   path of the local session database
//	-t int      per-request timeout (seconds)
//	-T int      refresh call timeout (seconds, 0 = request timeout only)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds. Absent keys keep their current value:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "storage_path": "session.db",
//	  "request_timeout": "30s",
//	  "refresh_timeout": "10s",
//	  "log_level": "warn"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
