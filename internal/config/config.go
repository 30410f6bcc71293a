package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar points at an optional YAML config file.
const ConfigPathEnvVar = "PROFILE_CONFIG"

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
	Site     SiteConfig     `koanf:"site"`
	Cache    CacheConfig    `koanf:"cache"`
}

type ServerConfig struct {
	Port              int           `koanf:"port"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	SlowThreshold   time.Duration `koanf:"slow_threshold"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// SiteConfig describes the public site used for canonical URLs and SEO metadata.
type SiteConfig struct {
	Name          string `koanf:"name"`
	NameNe        string `koanf:"name_ne"`
	BaseURL       string `koanf:"base_url"`
	DefaultLocale string `koanf:"default_locale"`
	Publisher     string `koanf:"publisher"`
	License       string `koanf:"license"`
}

type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              5050,
			CORSOrigins:       []string{"http://localhost:3000"},
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
			ShutdownTimeout:   10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    20,
			ConnMaxLifetime: 30 * time.Minute,
			SlowThreshold:   100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Site: SiteConfig{
			Name:          "Municipality Digital Profile",
			BaseURL:       "http://localhost:5050",
			DefaultLocale: "en",
			License:       "https://creativecommons.org/licenses/by/4.0/",
		},
		Cache: CacheConfig{
			TTL: 10 * time.Minute,
		},
	}
}

// Legacy environment names mapped onto koanf paths.
var envMappings = map[string]string{
	"port":                 "server.port",
	"cors_origins":         "server.cors_origins",
	"rate_limit_requests":  "server.rate_limit_requests",
	"rate_limit_window":    "server.rate_limit_window",
	"shutdown_timeout":     "server.shutdown_timeout",
	"database_url":         "database.url",
	"db_max_open_conns":    "database.max_open_conns",
	"db_max_idle_conns":    "database.max_idle_conns",
	"db_conn_max_lifetime": "database.conn_max_lifetime",
	"db_slow_threshold":    "database.slow_threshold",
	"log_level":            "logging.level",
	"log_format":           "logging.format",
	"site_name":            "site.name",
	"site_name_ne":         "site.name_ne",
	"site_base_url":        "site.base_url",
	"site_default_locale":  "site.default_locale",
	"site_publisher":       "site.publisher",
	"site_license":         "site.license",
	"cache_ttl":            "cache.ttl",
}

// envTransformFunc returns "" for variables we don't own so koanf skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// Load builds the configuration from defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	candidates := []string{os.Getenv(ConfigPathEnvVar), "config.yaml"}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// processSliceFields turns comma separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is empty")
	ErrInvalidPort        = errors.New("port must be between 1 and 65535")
)

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache ttl must be positive")
	}
	if c.Server.RateLimitRequests < 0 {
		return errors.New("rate limit requests must not be negative")
	}
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("site base url must be an absolute http(s) url, got %q", c.Site.BaseURL)
	}
	switch c.Site.DefaultLocale {
	case "en", "ne":
	default:
		return fmt.Errorf("unsupported default locale %q", c.Site.DefaultLocale)
	}
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")
	return nil
}
