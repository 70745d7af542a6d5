package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/mealmate/internal/domain/calendar"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
)

// Config holds the mealmate configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Storage StorageConfig `yaml:"storage"`
	Quota   QuotaConfig   `yaml:"quota"`
	Auth    AuthConfig    `yaml:"auth"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	File       string `yaml:"file"`  // optional rotating log file
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// StorageConfig selects and configures the KV backend.
type StorageConfig struct {
	Driver           string   `yaml:"driver"` // memory, sqlite, redis, valkey (default: sqlite)
	Path             string   `yaml:"path"`   // sqlite file
	Addrs            []string `yaml:"addrs"`  // redis, valkey
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	TimeoutMs        int      `yaml:"timeout_ms"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// QuotaConfig holds the allowance rules.
type QuotaConfig struct {
	WeeklyLimit     int    `yaml:"weekly_limit"`
	AnchorWeekday   string `yaml:"anchor_weekday"`
	Location        string `yaml:"location"` // IANA name or "Local"
	TickIntervalMin int    `yaml:"tick_interval_min"`
}

// Load reads configuration from config/<env>.yaml. A missing file yields
// the defaults.
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from path. A missing file yields the
// defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverSQLite
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join("data", "mealmate.db")
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "mealmate_"
	}
	if c.Storage.TimeoutMs <= 0 {
		c.Storage.TimeoutMs = 2000
	}
	if c.Storage.ReadinessTimeout <= 0 {
		c.Storage.ReadinessTimeout = 10
	}
	if c.Quota.WeeklyLimit == 0 {
		c.Quota.WeeklyLimit = 7
	}
	if c.Quota.AnchorWeekday == "" {
		c.Quota.AnchorWeekday = "thursday"
	}
	if c.Quota.Location == "" {
		c.Quota.Location = "Local"
	}
	if c.Quota.TickIntervalMin <= 0 {
		c.Quota.TickIntervalMin = 30
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 28
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	case DriverRedis, DriverValkey:
		if len(c.Storage.Addrs) == 0 {
			return fmt.Errorf("storage.addrs is required for driver %q", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("storage.driver must be one of memory, sqlite, redis, valkey, got %q", c.Storage.Driver)
	}
	if c.Quota.WeeklyLimit < 1 {
		return fmt.Errorf("quota.weekly_limit must be at least 1, got %d", c.Quota.WeeklyLimit)
	}
	if _, err := c.Quota.Week(); err != nil {
		return fmt.Errorf("quota.anchor_weekday: %w", err)
	}
	if _, err := c.Quota.TimeLocation(); err != nil {
		return fmt.Errorf("quota.location: %w", err)
	}
	return nil
}

// Week returns the allowance week starting on AnchorWeekday.
func (q QuotaConfig) Week() (calendar.Week, error) {
	d, err := calendar.ParseWeekday(q.AnchorWeekday)
	if err != nil {
		return calendar.Week{}, err
	}
	return calendar.Week{Anchor: d}, nil
}

// TimeLocation resolves Location; "Local" and "" are the system zone.
func (q QuotaConfig) TimeLocation() (*time.Location, error) {
	if q.Location == "" || strings.EqualFold(q.Location, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(q.Location)
}

// TickInterval returns the countdown refresh interval.
func (q QuotaConfig) TickInterval() time.Duration {
	return time.Duration(q.TickIntervalMin) * time.Minute
}

// Timeout returns the per-call storage timeout.
func (s StorageConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
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
