// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// MigrationConfig controls startup schema migrations.
type MigrationConfig interface {
	DatabaseConfig
	GetMigrationsEnabled() bool
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
	IsWriteAuthEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
}

// MapConfig provides settings handed to the browser map renderer.
type MapConfig interface {
	GetMapAccessToken() string
	GetMapStyleURL() string
	GetMapCenter() (lat float64, lon float64)
	GetMapZoom() float64
}

// GeocoderConfig provides settings for the address geocoding client.
type GeocoderConfig interface {
	GetGeocoderURL() string
	GetGeocoderUserAgent() string
	GetGeocoderCountryCodes() string
	GetGeocoderRegionSuffix() string
	GetGeocoderTimeout() time.Duration
	GetGeocoderRatePerSecond() float64
}

// CacheConfig provides settings for the geocode result cache.
type CacheConfig interface {
	GetRedisURL() string
	GetGeocodeCacheTTL() time.Duration
	IsRedisEnabled() bool
}

// RegionConfig points at an optional region catalog override.
type RegionConfig interface {
	GetRegionsFile() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	DatabaseURL          string
	MigrationsEnabled    bool
	JWTAccessSecret      string
	CORSAllowAll         bool
	CORSOrigins          []string
	RateLimitPerSecond   float64
	RateLimitBurst       int
	MapAccessToken       string
	MapStyleURL          string
	MapCenterLat         float64
	MapCenterLon         float64
	MapZoom              float64
	GeocoderURL          string
	GeocoderUserAgent    string
	GeocoderCountryCodes string
	GeocoderRegionSuffix string
	GeocoderTimeout      time.Duration
	GeocoderRatePerSec   float64
	RedisURL             string
	GeocodeCacheTTL      time.Duration
	RegionsFile          string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) GetMigrationsEnabled() bool { return c.MigrationsEnabled }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }
func (c *Config) IsWriteAuthEnabled() bool   { return c.JWTAccessSecret != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string            { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool          { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string       { return c.CORSOrigins }
func (c *Config) GetRateLimitPerSecond() float64 { return c.RateLimitPerSecond }
func (c *Config) GetRateLimitBurst() int         { return c.RateLimitBurst }

// MapConfig implementation
func (c *Config) GetMapAccessToken() string { return c.MapAccessToken }
func (c *Config) GetMapStyleURL() string    { return c.MapStyleURL }
func (c *Config) GetMapCenter() (float64, float64) {
	return c.MapCenterLat, c.MapCenterLon
}
func (c *Config) GetMapZoom() float64 { return c.MapZoom }

// GeocoderConfig implementation
func (c *Config) GetGeocoderURL() string            { return c.GeocoderURL }
func (c *Config) GetGeocoderUserAgent() string      { return c.GeocoderUserAgent }
func (c *Config) GetGeocoderCountryCodes() string   { return c.GeocoderCountryCodes }
func (c *Config) GetGeocoderRegionSuffix() string   { return c.GeocoderRegionSuffix }
func (c *Config) GetGeocoderTimeout() time.Duration { return c.GeocoderTimeout }
func (c *Config) GetGeocoderRatePerSecond() float64 { return c.GeocoderRatePerSec }

// CacheConfig implementation
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetGeocodeCacheTTL() time.Duration { return c.GeocodeCacheTTL }
func (c *Config) IsRedisEnabled() bool              { return c.RedisURL != "" }

// RegionConfig implementation
func (c *Config) GetRegionsFile() string { return c.RegionsFile }

// Load reads configuration from environment variables.
// A missing store URL or map token is a terminal configuration error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	env := &envParser{}
	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		MigrationsEnabled:    strings.EqualFold(getEnv("MIGRATIONS_ENABLED", "true"), "true"),
		JWTAccessSecret:      getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		RateLimitPerSecond:   env.float("RATE_LIMIT_PER_SECOND", "10"),
		RateLimitBurst:       env.integer("RATE_LIMIT_BURST", "20"),
		MapAccessToken:       getEnv("MAP_ACCESS_TOKEN", ""),
		MapStyleURL:          getEnv("MAP_STYLE_URL", "https://tile.openstreetmap.org/{z}/{x}/{y}.png"),
		MapCenterLat:         env.float("MAP_CENTER_LAT", "52.6367"),
		MapCenterLon:         env.float("MAP_CENTER_LON", "9.8451"),
		MapZoom:              env.float("MAP_ZOOM", "7"),
		GeocoderURL:          getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderUserAgent:    getEnv("GEOCODER_USER_AGENT", "StakeholderMap/1.0"),
		GeocoderCountryCodes: getEnv("GEOCODER_COUNTRY_CODES", "de"),
		GeocoderRegionSuffix: getEnv("GEOCODER_REGION_SUFFIX", "Niedersachsen, Deutschland"),
		GeocoderTimeout:      env.duration("GEOCODER_TIMEOUT", "5s"),
		GeocoderRatePerSec:   env.float("GEOCODER_RATE_PER_SECOND", "1"),
		RedisURL:             getEnv("REDIS_URL", ""),
		GeocodeCacheTTL:      env.duration("GEOCODER_CACHE_TTL", "24h"),
		RegionsFile:          getEnv("REGIONS_FILE", ""),
	}

	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.MapAccessToken == "" {
		return fmt.Errorf("MAP_ACCESS_TOKEN is required")
	}
	if c.GeocoderURL == "" {
		return fmt.Errorf("GEOCODER_URL must not be empty")
	}
	if c.GeocoderTimeout <= 0 {
		return fmt.Errorf("GEOCODER_TIMEOUT must be a positive duration")
	}
	if c.GeocoderRatePerSec <= 0 {
		return fmt.Errorf("GEOCODER_RATE_PER_SECOND must be positive")
	}
	if c.GeocodeCacheTTL <= 0 {
		return fmt.Errorf("GEOCODER_CACHE_TTL must be a positive duration")
	}
	if c.RateLimitPerSecond < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SECOND must not be negative")
	}
	if c.RateLimitPerSecond > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// envParser reads typed values and collects every malformed one, so a bad
// deployment reports all of its mistakes at once.
type envParser struct {
	errs []error
}

func (p *envParser) duration(key, fallback string) time.Duration {
	raw := strings.TrimSpace(getEnv(key, fallback))
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return 0
	}
	return d
}

func (p *envParser) integer(key, fallback string) int {
	raw := strings.TrimSpace(getEnv(key, fallback))
	result, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return 0
	}
	return result
}

func (p *envParser) float(key, fallback string) float64 {
	raw := strings.TrimSpace(getEnv(key, fallback))
	result, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: invalid number %q", key, raw))
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
