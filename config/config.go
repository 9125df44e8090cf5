// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration, including every query-engine
// limit and filter default. The engine reads these once at startup; no
// per-endpoint defaults exist anywhere else.
type Config struct {
	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// JWT signing secret (required in production).
	JWTSecret string

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// Redis response cache – disabled when RedisAddr is empty.
	RedisAddr string
	CacheTTL  time.Duration

	// Query engine limits and defaults.
	QueryTimeout      time.Duration
	MaxRows           int
	RetryAttempts     int
	RetryBackoff      time.Duration
	DefaultTimePeriod string
	SeasonStartMonth  time.Month
	LeagueSize        int
	TradingDayTZ      string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_USER", "trends")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "trendsdata")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PORT", ":9100")
	v.SetDefault("TLS_DOMAINS", "")
	v.SetDefault("DEBUG", false)

	v.SetDefault("CACHE_TTL_SECONDS", 300)

	v.SetDefault("QUERY_TIMEOUT_MS", 15000)
	v.SetDefault("MAX_ROWS", 5000)
	v.SetDefault("RETRY_ATTEMPTS", 3)
	v.SetDefault("RETRY_BACKOFF_MS", 250)
	v.SetDefault("DEFAULT_TIME_PERIOD", "season")
	v.SetDefault("SEASON_START_MONTH", 9)
	v.SetDefault("LEAGUE_SIZE", 32)
	v.SetDefault("TRADING_DAY_TZ", "America/New_York")

	cfg := &Config{
		DatabaseURL: v.GetString("DATABASE_URL"),
		DBUser:      v.GetString("DB_USER"),
		DBPass:      v.GetString("DB_PASS"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSLMODE"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		Debug:       v.GetBool("DEBUG"),
		Port:        v.GetString("PORT"),
		TLSDomains:  splitTrimmed(v.GetString("TLS_DOMAINS")),

		RedisAddr: v.GetString("REDIS_ADDR"),
		CacheTTL:  time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,

		QueryTimeout:      time.Duration(v.GetInt("QUERY_TIMEOUT_MS")) * time.Millisecond,
		MaxRows:           v.GetInt("MAX_ROWS"),
		RetryAttempts:     v.GetInt("RETRY_ATTEMPTS"),
		RetryBackoff:      time.Duration(v.GetInt("RETRY_BACKOFF_MS")) * time.Millisecond,
		DefaultTimePeriod: v.GetString("DEFAULT_TIME_PERIOD"),
		SeasonStartMonth:  time.Month(v.GetInt("SEASON_START_MONTH")),
		LeagueSize:        v.GetInt("LEAGUE_SIZE"),
		TradingDayTZ:      v.GetString("TRADING_DAY_TZ"),
	}

	cfg.validate()
	return cfg
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// TradingDayLocation resolves the configured trading-day time zone, falling
// back to UTC if the zone name is unknown on this host.
func (c *Config) TradingDayLocation() *time.Location {
	loc, err := time.LoadLocation(c.TradingDayTZ)
	if err != nil {
		log.Printf("config: unknown time zone %q, using UTC", c.TradingDayTZ)
		return time.UTC
	}
	return loc
}

func (c *Config) validate() {
	if c.DatabaseURL == "" && c.DBPass == "" {
		log.Fatal("config: DATABASE_URL or DB_PASS must be set")
	}
	if c.JWTSecret == "" {
		log.Fatal("config: JWT_SECRET must be set")
	}
	if c.MaxRows <= 0 || c.QueryTimeout <= 0 {
		log.Fatal("config: MAX_ROWS and QUERY_TIMEOUT_MS must be positive")
	}
	if c.SeasonStartMonth < time.January || c.SeasonStartMonth > time.December {
		log.Fatal("config: SEASON_START_MONTH must be 1-12")
	}
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
