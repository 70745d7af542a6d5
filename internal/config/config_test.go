package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("HTTP.Port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, DriverSQLite)
	}
	if cfg.Storage.KeyPrefix != "mealmate_" {
		t.Errorf("Storage.KeyPrefix = %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Storage.Timeout() != 2*time.Second {
		t.Errorf("Storage.Timeout() = %v", cfg.Storage.Timeout())
	}
	if cfg.Quota.WeeklyLimit != 7 {
		t.Errorf("Quota.WeeklyLimit = %d, want 7", cfg.Quota.WeeklyLimit)
	}
	if cfg.Quota.TickInterval() != 30*time.Minute {
		t.Errorf("Quota.TickInterval() = %v", cfg.Quota.TickInterval())
	}
	w, err := cfg.Quota.Week()
	if err != nil || w.Anchor != time.Thursday {
		t.Errorf("Quota.Week() = %v, %v", w, err)
	}
	loc, err := cfg.Quota.TimeLocation()
	if err != nil || loc != time.Local {
		t.Errorf("Quota.TimeLocation() = %v, %v", loc, err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 9000, ReadTimeoutSec: 5},
		Storage: StorageConfig{Driver: DriverMemory, KeyPrefix: "x_", TimeoutMs: 50},
		Quota:   QuotaConfig{WeeklyLimit: 3, AnchorWeekday: "mon", TickIntervalMin: 1},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9000 || cfg.HTTP.ReadTimeoutSec != 5 {
		t.Errorf("HTTP overridden: %+v", cfg.HTTP)
	}
	if cfg.Storage.Driver != DriverMemory || cfg.Storage.KeyPrefix != "x_" || cfg.Storage.TimeoutMs != 50 {
		t.Errorf("Storage overridden: %+v", cfg.Storage)
	}
	if cfg.Quota.WeeklyLimit != 3 || cfg.Quota.AnchorWeekday != "mon" || cfg.Quota.TickIntervalMin != 1 {
		t.Errorf("Quota overridden: %+v", cfg.Quota)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"invalid port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, "storage.driver"},
		{"redis without addrs", func(c *Config) { c.Storage.Driver = DriverRedis }, "storage.addrs"},
		{"valkey without addrs", func(c *Config) { c.Storage.Driver = DriverValkey }, "storage.addrs"},
		{"sqlite without path", func(c *Config) { c.Storage.Path = "" }, "storage.path"},
		{"negative limit", func(c *Config) { c.Quota.WeeklyLimit = -1 }, "quota.weekly_limit"},
		{"bad weekday", func(c *Config) { c.Quota.AnchorWeekday = "someday" }, "quota.anchor_weekday"},
		{"bad location", func(c *Config) { c.Quota.Location = "Mars/Olympus" }, "quota.location"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_RedisWithAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Driver = DriverRedis
	cfg.Storage.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.Quota.WeeklyLimit != 7 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFile_ExpandsEnv(t *testing.T) {
	t.Setenv("MEALMATE_TEST_DRIVER", "memory")
	path := writeConfig(t, `
http:
  port: ${MEALMATE_TEST_PORT:-9090}
storage:
  driver: ${MEALMATE_TEST_DRIVER}
quota:
  weekly_limit: 5
  anchor_weekday: Monday
  location: UTC
auth:
  api_keys: ["k1"]
logging:
  level: debug
  file: logs/mealmate.log
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("HTTP.Port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Storage.Driver != DriverMemory {
		t.Errorf("Storage.Driver = %q", cfg.Storage.Driver)
	}
	if cfg.Quota.WeeklyLimit != 5 {
		t.Errorf("Quota.WeeklyLimit = %d", cfg.Quota.WeeklyLimit)
	}
	if w, _ := cfg.Quota.Week(); w.Anchor != time.Monday {
		t.Errorf("Quota.Week() = %v", w.Anchor)
	}
	if loc, _ := cfg.Quota.TimeLocation(); loc.String() != "UTC" {
		t.Errorf("Quota.TimeLocation() = %v", loc)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "k1" {
		t.Errorf("Auth.APIKeys = %v", cfg.Auth.APIKeys)
	}
	if cfg.Logging.File != "logs/mealmate.log" || cfg.Logging.MaxBackups != 3 {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":   "http: [",
		"bad config": "storage:\n  driver: mongo\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFile(writeConfig(t, body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("ENV", "")
	if got := GetEnv(); got != "local" {
		t.Errorf("GetEnv() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := GetEnv(); got != "prod" {
		t.Errorf("GetEnv() = %q, want prod", got)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MEALMATE_SET", "value")
	got := string(expandEnvVars([]byte("a=${MEALMATE_SET} b=${MEALMATE_UNSET:-fallback} c=${MEALMATE_UNSET}")))
	if got != "a=value b=fallback c=" {
		t.Errorf("expandEnvVars() = %q", got)
	}
}
