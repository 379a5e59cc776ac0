package config

import "time"

// Config holds runtime settings for the KodJobs CLI.
//
// Fields:
//   - StoreBackend: persistent key-value backend (memory, sqlite, postgres, redis).
//   - StoreDSN: backend-specific location (sqlite file, postgres DSN, redis address).
//   - Namespace: prefix of the two persisted keys (<ns>_user, <ns>_users).
//   - AuthDelay: simulated latency of register/login.
//   - SeedFile: optional JSON directory replacing the bundled default users.
//   - AssetBackend: where uploaded resumes and images go (local, s3).
//   - S3*: object storage settings used when AssetBackend is s3.
//   - LogLevel / LogFormat: slog level name and handler (text, json).
type Config struct {
	StoreBackend   string
	StoreDSN       string
	Namespace      string
	AuthDelay      time.Duration
	SeedFile       string
	AssetBackend   string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StoreBackend = "memory"
	c.StoreDSN = ""
	c.Namespace = "kodjobs"
	c.AuthDelay = time.Second
	c.AssetBackend = "local"
	c.S3Bucket = "kodjobs"
	c.S3Region = "us-east-1"
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
