package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// FileEnv names the environment variable holding an optional config file
const FileEnv = "PROCINTF_CONFIG"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Interface InterfaceConfig `yaml:"interface" toml:"interface"`
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" toml:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" yaml:"port" toml:"port"`
	Host string `envconfig:"HOST" yaml:"host" toml:"host"`
}

// InterfaceConfig describes the access point container and its callers.
type InterfaceConfig struct {
	Name       string `envconfig:"PROC_NAME" yaml:"name" toml:"name"`
	PageOffset uint64 `envconfig:"PROC_PAGE_OFFSET" yaml:"page_offset" toml:"page_offset"`
	Secret     string `envconfig:"PROC_SECRET" yaml:"secret" toml:"secret"`
	OwnerUID   uint32 `envconfig:"PROC_OWNER_UID" yaml:"owner_uid" toml:"owner_uid"`
	OwnerGID   uint32 `envconfig:"PROC_OWNER_GID" yaml:"owner_gid" toml:"owner_gid"`
	CallerUID  uint32 `envconfig:"PROC_CALLER_UID" yaml:"caller_uid" toml:"caller_uid"`
	CallerGID  uint32 `envconfig:"PROC_CALLER_GID" yaml:"caller_gid" toml:"caller_gid"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" yaml:"level" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" yaml:"development" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" yaml:"requests_per_second" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" yaml:"burst" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" yaml:"enabled" toml:"enabled"`
}

// CORSConfig holds allowed origins.
type CORSConfig struct {
	AllowOrigins []string `envconfig:"CORS_ORIGINS" yaml:"allow_origins" toml:"allow_origins"`
}

// Load builds configuration in three layers: defaults, the optional file
// named by PROCINTF_CONFIG, then environment variables. The result is
// validated.
func Load() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(FileEnv); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration or falls back to defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile overlays a YAML or TOML file onto cfg. The format follows the
// file extension.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Interface: InterfaceConfig{
			Name:      "procintf",
			Secret:    "AhA xxx",
			CallerUID: 65534,
			CallerGID: 65534,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
		},
	}
}
