package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config holds all configuration
type Config struct {
	MySQL     MySQLConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Migrate   bool
	HTTPAddr  string
	Learnings LearningsConfig
	Stats     StatsConfig
	Watchdog  WatchdogConfig
}

// MySQLConfig holds MySQL configuration
type MySQLConfig struct {
	DSN string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds the optional auth gate configuration. An empty Secret
// disables auth entirely: the login route is not mounted and the
// websocket handshake and internal broadcast stay open.
type JWTConfig struct {
	Secret        string
	ExpireMinutes int
	Issuer        string
}

// Enabled reports whether the auth gate is active.
func (j JWTConfig) Enabled() bool {
	return j.Secret != ""
}

// LearningsConfig holds the markdown learnings directory location.
type LearningsConfig struct {
	Dir string
}

// StatsConfig controls Redis caching of the aggregate endpoints.
type StatsConfig struct {
	CacheTTLSec int
}

// WatchdogConfig controls the stale-engagement reaper.
type WatchdogConfig struct {
	Enabled       bool
	IntervalSec   int
	StaleAfterSec int
}

// Load reads configuration from the environment, with an optional INI
// file named by CONSOLE_CONFIG layered underneath (ENV > INI > default).
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	var iniFile *ini.File
	if path := os.Getenv("CONSOLE_CONFIG"); path != "" {
		f, err := ini.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load INI file: %w", err)
		}
		iniFile = f
	}

	getValue := func(envKey, iniSection, iniKey, defaultValue string) string {
		if value := os.Getenv(envKey); value != "" {
			return value
		}
		if iniFile != nil {
			if value := iniFile.Section(iniSection).Key(iniKey).String(); value != "" {
				return value
			}
		}
		return defaultValue
	}

	getValueInt := func(envKey, iniSection, iniKey string, defaultValue int) int {
		if value := os.Getenv(envKey); value != "" {
			if intValue, err := strconv.Atoi(value); err == nil {
				return intValue
			}
		}
		if iniFile != nil && iniFile.Section(iniSection).HasKey(iniKey) {
			if value, err := iniFile.Section(iniSection).Key(iniKey).Int(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	getValueBool := func(envKey, iniSection, iniKey string, defaultValue bool) bool {
		if value := os.Getenv(envKey); value != "" {
			return value == "1" || value == "true"
		}
		if iniFile != nil && iniFile.Section(iniSection).HasKey(iniKey) {
			if value, err := iniFile.Section(iniSection).Key(iniKey).Bool(); err == nil {
				return value
			}
		}
		return defaultValue
	}

	cfg := &Config{
		MySQL: MySQLConfig{
			DSN: getValue("MYSQL_DSN", "mysql", "dsn", ""),
		},
		Redis: RedisConfig{
			Addr:     getValue("REDIS_ADDR", "redis", "addr", "localhost:6379"),
			Password: getValue("REDIS_PASS", "redis", "pass", ""),
			DB:       getValueInt("REDIS_DB", "redis", "db", 0),
		},
		JWT: JWTConfig{
			Secret:        getValue("JWT_SECRET", "jwt", "secret", ""),
			ExpireMinutes: getValueInt("JWT_EXPIRE_MINUTES", "jwt", "expire_minutes", 1440),
			Issuer:        getValue("JWT_ISSUER", "jwt", "issuer", "agent_console"),
		},
		Migrate:  getValueBool("MIGRATE", "app", "migrate", false),
		HTTPAddr: getValue("HTTP_ADDR", "http", "addr", ":3000"),
		Learnings: LearningsConfig{
			Dir: getValue("LEARNINGS_DIR", "learnings", "dir", "./learnings"),
		},
		Stats: StatsConfig{
			CacheTTLSec: getValueInt("STATS_CACHE_TTL_SEC", "stats", "cache_ttl_sec", 10),
		},
		Watchdog: WatchdogConfig{
			Enabled:       getValueBool("WATCHDOG_ENABLED", "watchdog", "enabled", true),
			IntervalSec:   getValueInt("WATCHDOG_INTERVAL_SEC", "watchdog", "interval_sec", 60),
			StaleAfterSec: getValueInt("WATCHDOG_STALE_AFTER_SEC", "watchdog", "stale_after_sec", 3600),
		},
	}

	// Validate required fields
	if cfg.MySQL.DSN == "" {
		return nil, fmt.Errorf("MYSQL_DSN is required")
	}

	return cfg, nil
}
