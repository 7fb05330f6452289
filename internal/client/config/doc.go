// Package config loads runtime configuration for the Farmline CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables, with an optional .env overlay (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST backend (origin + /api/v1 prefix)
//	-r string   address of the realtime store (Redis), host:port
//	-s string   storage scope: shared | isolated
//	-d string   state directory for the shared client database
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8080/api/v1",
//	  "redis_addr": "localhost:6379",
//	  "storage_scope": "shared",
//	  "state_dir": "/home/user/.farmline",
//	  "typing_expiry": "3s",
//	  "online_ttl": "30s"
//	}
//
// Environment variables: FARMLINE_API_URL, FARMLINE_REDIS_ADDR,
// FARMLINE_REDIS_PASSWORD, FARMLINE_REDIS_DB, FARMLINE_SCOPE,
// FARMLINE_STATE_DIR. A .env file in the working directory is loaded first
// when present.
package config
