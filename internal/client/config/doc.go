// Package config loads runtime configuration for the KodJobs CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c / -config or the KODJOBS_CONFIG
//     environment variable. YAML when the name ends in .yaml/.yml, JSON otherwise.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
// Durations use timex.Duration, so they may be strings like "1s" or integer
// nanoseconds:
//
//	store_backend: sqlite
//	store_dsn: data/kodjobs.db
//	namespace: kodjobs
//	auth_delay: 1s
//	asset_backend: s3
//	s3_bucket: kodjobs
//	s3_base_endpoint: http://127.0.0.1:9000/
package config
