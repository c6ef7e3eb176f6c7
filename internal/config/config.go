// Package config loads service settings from defaults, an optional TOML file
// and the environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bookshelf/internal/catalog"
	"bookshelf/internal/platform/googlebooks"
	"bookshelf/internal/store"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the environment variable holding the TOML config path.
const FileEnv = "BOOKSHELF_CONFIG"

type Config struct {
	Addr string `toml:"addr"`

	StoreDriver string `toml:"store_driver"`
	SQLitePath  string `toml:"sqlite_path"`
	DatabaseDSN string `toml:"database_dsn"`

	VolumesBaseURL string        `toml:"volumes_base_url"`
	UserAgent      string        `toml:"user_agent"`
	RemoteRPS      float64       `toml:"remote_rps"`
	RemoteTimeout  time.Duration `toml:"-"`
	SearchTerm     string        `toml:"search_term"`
	MaxResults     int           `toml:"max_results"`

	RateLimitRPS   float64  `toml:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	AllowedOrigins []string `toml:"allowed_origins"`
	EnableHSTS     bool     `toml:"enable_hsts"`
}

// fileConfig is Config as written in TOML. Durations are strings such as "15s".
type fileConfig struct {
	Config
	RemoteTimeout string `toml:"remote_timeout"`
}

func Default() Config {
	return Config{
		Addr:           ":8080",
		StoreDriver:    store.DriverSQLite,
		SQLitePath:     "data/bookshelf.db",
		VolumesBaseURL: googlebooks.DefaultBaseURL,
		UserAgent:      "bookshelf/1.0",
		RemoteRPS:      2,
		RemoteTimeout:  15 * time.Second,
		SearchTerm:     catalog.DefaultSearchTerm,
		MaxResults:     catalog.DefaultMaxResults,
		RateLimitRPS:   20,
		RateLimitBurst: 40,
		MaxBodyBytes:   1 << 20,
		AllowedOrigins: []string{"http://localhost:3000"},
	}
}

// LoadEnvFiles reads .env and .env.local into the process environment.
// Variables already set by the runtime are left alone.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the config: defaults, then the TOML file named by
// BOOKSHELF_CONFIG if set, then environment variables.
func Load() (Config, error) {
	LoadEnvFiles()

	cfg := Default()
	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := fileConfig{Config: *c}
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	if fc.RemoteTimeout != "" {
		d, err := time.ParseDuration(fc.RemoteTimeout)
		if err != nil {
			return fmt.Errorf("parse config file %s: remote_timeout: %w", path, err)
		}
		fc.Config.RemoteTimeout = d
	}
	*c = fc.Config
	return nil
}

func (c *Config) mergeEnv() error {
	setString(&c.Addr, "APP_ADDR")
	setString(&c.StoreDriver, "STORE_DRIVER")
	setString(&c.SQLitePath, "SQLITE_PATH")
	setString(&c.DatabaseDSN, "DB_DSN")
	setString(&c.VolumesBaseURL, "BOOKS_API_BASE_URL")
	setString(&c.UserAgent, "BOOKS_API_USER_AGENT")
	setString(&c.SearchTerm, "BOOKS_SEARCH_TERM")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}

	var errs []string
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	collect(setFloat(&c.RemoteRPS, "BOOKS_API_RPS"))
	collect(setDuration(&c.RemoteTimeout, "BOOKS_API_TIMEOUT"))
	collect(setInt(&c.MaxResults, "BOOKS_MAX_RESULTS"))
	collect(setFloat(&c.RateLimitRPS, "RATE_LIMIT_RPS"))
	collect(setInt(&c.RateLimitBurst, "RATE_LIMIT_BURST"))
	collect(setInt64(&c.MaxBodyBytes, "MAX_BODY_BYTES"))
	collect(setBool(&c.EnableHSTS, "ENABLE_HSTS"))

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// StoreDSN is the dsn argument for store.Open.
func (c Config) StoreDSN() string {
	if c.StoreDriver == store.DriverPostgres {
		return c.DatabaseDSN
	}
	return c.SQLitePath
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
