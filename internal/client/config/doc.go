// Package config loads runtime configuration for the FitTrack CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the FitTrack API
//	-s string   directory for the local session database
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "10s" or integer nanoseconds. Absent keys keep their defaults:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "session_dir": ".fitcli",
//	  "request_timeout": "10s"
//	}
package config
