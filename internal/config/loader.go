package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies BLACKMID_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load. An empty path skips
// the file and uses defaults plus environment overrides only.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known BLACKMID_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Identity.DSN, "BLACKMID_IDENTITY_DSN")
	setStr(&cfg.Identity.Host, "BLACKMID_IDENTITY_HOST")
	setInt(&cfg.Identity.Port, "BLACKMID_IDENTITY_PORT")
	setStr(&cfg.Identity.Database, "BLACKMID_IDENTITY_DATABASE")
	setStr(&cfg.Identity.User, "BLACKMID_IDENTITY_USER")
	setStr(&cfg.Identity.Password, "BLACKMID_IDENTITY_PASSWORD")
	setStr(&cfg.Identity.SSLMode, "BLACKMID_IDENTITY_SSLMODE")
	setInt(&cfg.Identity.PoolMaxConns, "BLACKMID_IDENTITY_POOL_MAX_CONNS")
	setStr(&cfg.Identity.DecryptKey, "BLACKMID_IDENTITY_DECRYPT_KEY")
	setInt(&cfg.Identity.BatchSize, "BLACKMID_IDENTITY_BATCH_SIZE")

	setStr(&cfg.Warehouse.DSN, "BLACKMID_WAREHOUSE_DSN")
	setStr(&cfg.Warehouse.Host, "BLACKMID_WAREHOUSE_HOST")
	setInt(&cfg.Warehouse.Port, "BLACKMID_WAREHOUSE_PORT")
	setStr(&cfg.Warehouse.Database, "BLACKMID_WAREHOUSE_DATABASE")
	setStr(&cfg.Warehouse.User, "BLACKMID_WAREHOUSE_USER")
	setStr(&cfg.Warehouse.Password, "BLACKMID_WAREHOUSE_PASSWORD")

	setDuration(&cfg.Pipeline.BucketWidth, "BLACKMID_PIPELINE_BUCKET_WIDTH")
	setStr(&cfg.Pipeline.Metric, "BLACKMID_PIPELINE_METRIC")

	setStr(&cfg.Report.OutputDir, "BLACKMID_REPORT_OUTPUT_DIR")
	setInt(&cfg.Report.TopN, "BLACKMID_REPORT_TOP_N")

	setBool(&cfg.Verbose, "BLACKMID_VERBOSE")
}

// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
