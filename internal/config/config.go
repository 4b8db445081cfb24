package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"backstage/internal/timeline"
)

// Config models backstage.yml.
type Config struct {
	Storage struct {
		Driver        string `yaml:"driver"`
		DSN           string `yaml:"dsn"`
		RedisAddr     string `yaml:"redis_addr"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
		Key           string `yaml:"key"`
	} `yaml:"storage"`
	Auth struct {
		Secret string `yaml:"secret"`
		// Password may hold a bcrypt hash or the plain shared password.
		Password string `yaml:"password"`
		// PasswordHash is a bcrypt hash and wins over Password.
		PasswordHash string `yaml:"password_hash"`
		TokenTTL     string `yaml:"token_ttl"`
	} `yaml:"auth"`
	Schedule struct {
		DefaultStart      string `yaml:"default_start"`
		ChangeoverMinutes int    `yaml:"changeover_minutes"`
	} `yaml:"schedule"`
	History struct {
		Limit int `yaml:"limit"`
	} `yaml:"history"`
	Export struct {
		Driver      string `yaml:"driver"`
		Dir         string `yaml:"dir"`
		S3Bucket    string `yaml:"s3_bucket"`
		S3Region    string `yaml:"s3_region"`
		S3Endpoint  string `yaml:"s3_endpoint"`
		S3PathStyle bool   `yaml:"s3_path_style"`
	} `yaml:"export"`
	Server struct {
		Addr     string `yaml:"addr"`
		BasePath string `yaml:"base_path"`
	} `yaml:"server"`
}

var (
	storageDrivers = map[string]bool{"sqlite": true, "postgres": true, "redis": true, "memory": true}
	exportDrivers  = map[string]bool{"fs": true, "s3": true}
)

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if !storageDrivers[c.Storage.Driver] {
		return fmt.Errorf("config.storage.driver %q is not one of sqlite, postgres, redis, memory", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("config.storage.dsn is required for postgres")
	}
	if c.Storage.RedisDB < 0 {
		return fmt.Errorf("config.storage.redis_db must not be negative")
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("config.storage.key is required")
	}
	if c.Auth.PasswordHash != "" && !strings.HasPrefix(c.Auth.PasswordHash, "$2") {
		return fmt.Errorf("config.auth.password_hash is not a bcrypt hash")
	}
	if c.Auth.TokenTTL != "" {
		if _, err := time.ParseDuration(c.Auth.TokenTTL); err != nil {
			return fmt.Errorf("config.auth.token_ttl: %w", err)
		}
	}
	if _, ok := timeline.ParseClock(c.Schedule.DefaultStart); !ok {
		return fmt.Errorf("config.schedule.default_start %q is not HH:MM", c.Schedule.DefaultStart)
	}
	if c.Schedule.ChangeoverMinutes < 0 {
		return fmt.Errorf("config.schedule.changeover_minutes must not be negative")
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("config.history.limit must be positive")
	}
	if !exportDrivers[c.Export.Driver] {
		return fmt.Errorf("config.export.driver %q is not one of fs, s3", c.Export.Driver)
	}
	if c.Export.Driver == "s3" && c.Export.S3Bucket == "" {
		return fmt.Errorf("config.export.s3_bucket is required for s3")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config.server.addr is required")
	}
	return nil
}

// SharedPassword is the value the auth issuer checks logins against.
func (c *Config) SharedPassword() string {
	if c.Auth.PasswordHash != "" {
		return c.Auth.PasswordHash
	}
	return c.Auth.Password
}

// TokenTTL returns the parsed token lifetime, zero when unset.
func (c *Config) TokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.Auth.TokenTTL)
	return d
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "backstage.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Load reads the workspace config over the defaults. A missing file yields
// the defaults.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(defaultTemplate)).Decode(&cfg)
	return &cfg
}

// FromYAML parses raw YAML over the defaults and validates the result.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `storage:
  driver: sqlite
  dsn: ""
  redis_addr: localhost:6379
  redis_db: 0
  key: backstage

auth:
  secret: ""
  password: ""
  password_hash: ""
  token_ttl: 12h

schedule:
  default_start: "19:30"
  changeover_minutes: 2

history:
  limit: 50

export:
  driver: fs
  dir: .backstage/exports
  s3_region: us-east-1

server:
  addr: 127.0.0.1:8080
  base_path: /v0
`
