package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the ovpsearch configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Relational RelationalConfig `yaml:"relational"`
	Index      IndexConfig      `yaml:"index"`
	Search     SearchConfig     `yaml:"search"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds admin API keys and viewer tokens.
type AuthConfig struct {
	APIKeys    []string         `yaml:"api_keys"`
	UserTokens map[string]int64 `yaml:"user_tokens"` // token -> user id
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Search index backends.
const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// DatabaseConfig holds search index and cache connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis, memory (default: redis)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RelationalConfig holds the relational store settings.
type RelationalConfig struct {
	DSN string `yaml:"dsn"`
}

// IndexConfig holds search index settings.
type IndexConfig struct {
	KeyPrefix      string `yaml:"key_prefix"`
	MaxResults     int    `yaml:"max_results"` // 0 = unbounded
	RebuildOnStart bool   `yaml:"rebuild_on_start"`
}

// SearchConfig holds resolver and pagination settings.
type SearchConfig struct {
	EnableUserSearch bool            `yaml:"enable_user_search"`
	CacheTTLSec      int             `yaml:"cache_ttl_sec"`
	DefaultPageSize  int             `yaml:"default_page_size"`
	MaxPageSize      int             `yaml:"max_page_size"`
	FilterOut        FilterOutConfig `yaml:"filter_out"`
}

// FilterOutConfig hides records matching every field=value pair, per kind.
type FilterOutConfig struct {
	Projects      map[string]string `yaml:"projects"`
	Organizations map[string]string `yaml:"organizations"`
	Users         map[string]string `yaml:"users"`
}

// CacheTTL returns the result cache expiry.
func (s SearchConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSec) * time.Second
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return parse(data)
}

func parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverRedis
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Relational.DSN == "" {
		c.Relational.DSN = "file:ovpsearch.db"
	}
	if c.Index.KeyPrefix == "" {
		c.Index.KeyPrefix = "ovp:"
	}
	if c.Search.CacheTTLSec <= 0 {
		c.Search.CacheTTLSec = 120
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 20
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverRedis, DriverMemory, c.Database.Driver)
	}
	if c.Index.MaxResults < 0 {
		return fmt.Errorf("index.max_results must not be negative, got %d", c.Index.MaxResults)
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf("search.default_page_size (%d) exceeds search.max_page_size (%d)",
			c.Search.DefaultPageSize, c.Search.MaxPageSize)
	}
	for token, id := range c.Auth.UserTokens {
		if token == "" {
			return fmt.Errorf("auth.user_tokens: empty token")
		}
		if id <= 0 {
			return fmt.Errorf("auth.user_tokens: user id must be positive, got %d", id)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
