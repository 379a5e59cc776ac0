package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/kodjobs/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   store backend: memory, sqlite, postgres, redis
//	-d string   store DSN / address
//	-n string   key namespace
//	-w int      simulated auth delay (in milliseconds)
//	-s string   seed directory file (JSON)
//	-u string   asset backend: local, s3
//	-e string   S3 base endpoint
//	-k string   S3 bucket
//	-l string   log level
//
// Note: os.Args is filtered with flagx.FilterArgs first, so unrelated flags
// (such as -c) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-d", "-n", "-w", "-s", "-u", "-e", "-k", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreBackend, "b", cfg.StoreBackend, "store backend (memory, sqlite, postgres, redis)")
	fs.StringVar(&cfg.StoreDSN, "d", cfg.StoreDSN, "store DSN or address")
	fs.StringVar(&cfg.Namespace, "n", cfg.Namespace, "key namespace")
	authDelay := fs.Int("w", int(cfg.AuthDelay.Milliseconds()), "simulated auth delay (in milliseconds)")
	fs.StringVar(&cfg.SeedFile, "s", cfg.SeedFile, "seed directory file")
	fs.StringVar(&cfg.AssetBackend, "u", cfg.AssetBackend, "asset backend (local, s3)")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.S3Bucket, "k", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.AuthDelay = time.Duration(*authDelay) * time.Millisecond
}
