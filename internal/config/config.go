// Package config defines the top-level configuration for the watchlist
// heatmap pipeline and provides validation helpers.
package config

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by BLACKMID_* environment
// variables.
type Config struct {
	Identity  IdentityConfig  `toml:"identity"`
	Warehouse WarehouseConfig `toml:"warehouse"`
	Pipeline  PipelineConfig  `toml:"pipeline"`
	Report    ReportConfig    `toml:"report"`
	Verbose   bool            `toml:"verbose"`
}

// IdentityConfig holds the relational identity source (PostgreSQL)
// connection and the PII field-decryption key.
type IdentityConfig struct {
	DSN          string `toml:"dsn"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Database     string `toml:"database"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	SSLMode      string `toml:"ssl_mode"`
	PoolMaxConns int    `toml:"pool_max_conns"`

	// DecryptKey is the base64-encoded 32-byte XChaCha20-Poly1305 key used
	// to decrypt phone and email ciphertexts. Normally injected via
	// BLACKMID_IDENTITY_DECRYPT_KEY rather than stored in the TOML file.
	DecryptKey string `toml:"decrypt_key"`

	BatchSize int `toml:"batch_size"`
}

// WarehouseConfig holds the analytical warehouse (ClickHouse) connection.
type WarehouseConfig struct {
	DSN      string `toml:"dsn"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

// PipelineConfig holds aggregation parameters.
type PipelineConfig struct {
	BucketWidth duration `toml:"bucket_width"`
	Metric      string   `toml:"metric"`
}

// ReportConfig holds output parameters.
type ReportConfig struct {
	OutputDir string `toml:"output_dir"`
	TopN      int    `toml:"top_n"`
}

// duration wraps time.Duration so the TOML decoder can parse strings like
// "4h" or "30m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Identity: IdentityConfig{
			Host:         "localhost",
			Port:         5432,
			Database:     "identity",
			User:         "postgres",
			SSLMode:      "disable",
			PoolMaxConns: 10,
			BatchSize:    1000,
		},
		Warehouse: WarehouseConfig{
			Host:     "localhost",
			Port:     9000,
			Database: "warehouse",
			User:     "default",
		},
		Pipeline: PipelineConfig{
			BucketWidth: duration{4 * time.Hour},
			Metric:      "total_amount",
		},
		Report: ReportConfig{
			OutputDir: "out",
			TopN:      20,
		},
	}
}

// PostgresDSN returns the identity DSN, assembling one from the discrete
// fields when identity.dsn is not set.
func (c *Config) PostgresDSN() string {
	if strings.TrimSpace(c.Identity.DSN) != "" {
		return c.Identity.DSN
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		c.Identity.User, c.Identity.Password,
		c.Identity.Host, c.Identity.Port, c.Identity.Database,
		c.Identity.SSLMode, c.Identity.PoolMaxConns)
}

// ClickhouseDSN returns the warehouse DSN, assembling one from the discrete
// fields when warehouse.dsn is not set.
func (c *Config) ClickhouseDSN() string {
	if strings.TrimSpace(c.Warehouse.DSN) != "" {
		return c.Warehouse.DSN
	}
	return fmt.Sprintf("clickhouse://%s:%s@%s:%d/%s",
		c.Warehouse.User, c.Warehouse.Password,
		c.Warehouse.Host, c.Warehouse.Port, c.Warehouse.Database)
}

// DecryptKeyBytes decodes the base64 decryption key. An empty key returns
// nil without error; callers decide whether decryption is required.
func (c *Config) DecryptKeyBytes() ([]byte, error) {
	if c.Identity.DecryptKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.Identity.DecryptKey)
	if err != nil {
		return nil, fmt.Errorf("decode identity.decrypt_key: %w", err)
	}
	return key, nil
}

// validMetrics enumerates the accepted heatmap metric names.
var validMetrics = map[string]bool{
	"total_amount":   true,
	"buy_amount":     true,
	"sell_amount":    true,
	"trade_count":    true,
	"avg_buy_price":  true,
	"avg_sell_price": true,
}

// Validate checks Config for obviously invalid or missing values and
// returns a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Identity.DSN) == "" {
		if c.Identity.Host == "" {
			errs = append(errs, "identity: host must not be empty (or set identity.dsn)")
		}
		if c.Identity.Port <= 0 || c.Identity.Port > 65535 {
			errs = append(errs, fmt.Sprintf("identity: port must be 1-65535, got %d", c.Identity.Port))
		}
		if c.Identity.Database == "" {
			errs = append(errs, "identity: database must not be empty")
		}
	}
	if c.Identity.PoolMaxConns < 1 {
		errs = append(errs, "identity: pool_max_conns must be >= 1")
	}
	if c.Identity.BatchSize < 1 {
		errs = append(errs, "identity: batch_size must be >= 1")
	}
	if c.Identity.DecryptKey != "" {
		key, err := base64.StdEncoding.DecodeString(c.Identity.DecryptKey)
		if err != nil {
			errs = append(errs, "identity: decrypt_key is not valid base64")
		} else if len(key) != 32 {
			errs = append(errs, fmt.Sprintf("identity: decrypt_key must decode to 32 bytes, got %d", len(key)))
		}
	}

	if strings.TrimSpace(c.Warehouse.DSN) == "" {
		if c.Warehouse.Host == "" {
			errs = append(errs, "warehouse: host must not be empty (or set warehouse.dsn)")
		}
		if c.Warehouse.Port <= 0 || c.Warehouse.Port > 65535 {
			errs = append(errs, fmt.Sprintf("warehouse: port must be 1-65535, got %d", c.Warehouse.Port))
		}
		if c.Warehouse.Database == "" {
			errs = append(errs, "warehouse: database must not be empty")
		}
	}

	if w := c.Pipeline.BucketWidth.Duration; w <= 0 || w%time.Hour != 0 || 24*time.Hour%w != 0 {
		errs = append(errs, fmt.Sprintf("pipeline: bucket_width must be a whole number of hours dividing 24h, got %s", w))
	}
	if !validMetrics[c.Pipeline.Metric] {
		errs = append(errs, fmt.Sprintf("pipeline: unknown metric %q", c.Pipeline.Metric))
	}

	if c.Report.OutputDir == "" {
		errs = append(errs, "report: output_dir must not be empty")
	}
	if c.Report.TopN < 1 {
		errs = append(errs, "report: top_n must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
