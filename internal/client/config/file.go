package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/kodjobs/internal/flagx"
	"github.com/dmitrijs2005/kodjobs/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding config files. Empty
// values leave the corresponding Config field unchanged.
type FileConfig struct {
	StoreBackend   string          `json:"store_backend" yaml:"store_backend"`
	StoreDSN       string          `json:"store_dsn" yaml:"store_dsn"`
	Namespace      string          `json:"namespace" yaml:"namespace"`
	AuthDelay      *timex.Duration `json:"auth_delay" yaml:"auth_delay"`
	SeedFile       string          `json:"seed_file" yaml:"seed_file"`
	AssetBackend   string          `json:"asset_backend" yaml:"asset_backend"`
	S3Bucket       string          `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region       string          `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint string          `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey    string          `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey    string          `json:"s3_secret_key" yaml:"s3_secret_key"`
	LogLevel       string          `json:"log_level" yaml:"log_level"`
	LogFormat      string          `json:"log_format" yaml:"log_format"`
}

// parseFile overlays cfg with values from the file named by -c/-config
// (or KODJOBS_CONFIG). Files ending in .yaml or .yml are decoded as YAML,
// everything else as JSON. Read or decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.StoreBackend, fc.StoreBackend)
	set(&cfg.StoreDSN, fc.StoreDSN)
	set(&cfg.Namespace, fc.Namespace)
	set(&cfg.SeedFile, fc.SeedFile)
	set(&cfg.AssetBackend, fc.AssetBackend)
	set(&cfg.S3Bucket, fc.S3Bucket)
	set(&cfg.S3Region, fc.S3Region)
	set(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	set(&cfg.S3AccessKey, fc.S3AccessKey)
	set(&cfg.S3SecretKey, fc.S3SecretKey)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)
	if fc.AuthDelay != nil {
		cfg.AuthDelay = fc.AuthDelay.Duration
	}
}
