// Package config loads runtime configuration for the GophProfile CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables prefixed with GOPHPROFILE_, e.g.
//     GOPHPROFILE_IDENTITY_ADDR or GOPHPROFILE_PROFILE_STORE.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   address:port of the identity backend
//	-i int      connectivity check interval (seconds)
//	-l string   message locale
//	-s string   profile store: postgres, mongo, redis or s3
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "5s" or
// integer nanoseconds:
//
//	{
//	  "identity_addr": "127.0.0.1:50051",
//	  "connectivity_interval": "5s",
//	  "profile_store": "redis",
//	  "redis_addr": "localhost:6379"
//	}
package config
