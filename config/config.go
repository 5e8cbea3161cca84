// Package config provides configuration management for the library service.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the complete application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Catalog   CatalogConfig
	Upstream  UpstreamConfig
	Proxy     ProxyConfig
	Cache     CacheConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port          string
	RateLimit     int
	RateWindow    time.Duration
	CORSOrigins   []string
	SwaggerUser   string
	SwaggerPass   string
	PublicBaseURL string
}

// LogConfig controls the global zerolog logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

// CatalogConfig points at the LibGen mirror network.
type CatalogConfig struct {
	Mirror          string
	CoverBase       string
	DownloadBase    string
	DownloadMirrors []string
	SearchTimeout   time.Duration
}

// UpstreamConfig tunes outbound HTTP calls made by the cover cascade and resolver.
type UpstreamConfig struct {
	Timeout         time.Duration
	Retries         int
	ProbeTimeout    time.Duration
	DownloadTimeout time.Duration
	DownloadRetries int
	RetryInterval   time.Duration
	CircuitBreaker  CircuitBreakerConfig
}

// ProxyConfig holds image proxy settings.
type ProxyConfig struct {
	ExtraDomains []string
	Timeout      time.Duration
}

// CacheConfig selects the durable backend and directory for the in-memory caches.
type CacheConfig struct {
	Store string
	Dir   string
}

// CircuitBreakerConfig is shared by the database and upstream breakers.
type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI            string
	DatabaseName   string
	ActivityTTL    time.Duration
	Enabled        bool
	CircuitBreaker CircuitBreakerConfig
}

// RedisConfig holds Redis connection settings used by the redis cache store.
type RedisConfig struct {
	Addr     string
	DB       int
	Password string
}

// TelemetryConfig configures OpenTelemetry tracing. Tracing is off when Endpoint is empty.
type TelemetryConfig struct {
	Endpoint    string
	ServiceName string
}

// Cache store backends.
const (
	StoreMemory  = "memory"
	StoreFile    = "file"
	StoreMongoDB = "mongodb"
	StoreRedis   = "redis"
)

// Load creates a Config from environment variables, reading a .env file first when one exists.
func Load() Config {
	loadDotEnv(".env")

	breaker := CircuitBreakerConfig{
		FailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
		SuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
		Timeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
	}

	return Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			RateLimit:     getEnvInt("RATE_LIMIT", 100),
			RateWindow:    getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins:   parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:   getEnv("SWAGGER_USER", ""),
			SwaggerPass:   getEnv("SWAGGER_PASS", ""),
			PublicBaseURL: strings.TrimSuffix(getEnv("PUBLIC_BASE_URL", ""), "/"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Catalog: CatalogConfig{
			Mirror:          strings.TrimSuffix(getEnv("LIBGEN_MIRROR", "http://libgen.is"), "/"),
			CoverBase:       strings.TrimSuffix(getEnv("LIBGEN_COVER_BASE", "https://libgen.is/covers"), "/"),
			DownloadBase:    strings.TrimSuffix(getEnv("LIBGEN_DOWNLOAD_BASE", "https://libgen.li"), "/"),
			DownloadMirrors: parseList(os.Getenv("DOWNLOAD_MIRRORS"), defaultDownloadMirrors),
			SearchTimeout:   getEnvDuration("SEARCH_TIMEOUT", 15*time.Second),
		},
		Upstream: UpstreamConfig{
			Timeout:         getEnvDuration("UPSTREAM_TIMEOUT", 8*time.Second),
			Retries:         getEnvInt("UPSTREAM_RETRIES", 1),
			ProbeTimeout:    getEnvDuration("PROBE_TIMEOUT", 5*time.Second),
			DownloadTimeout: getEnvDuration("DOWNLOAD_TIMEOUT", 10*time.Second),
			DownloadRetries: getEnvInt("DOWNLOAD_RETRIES", 3),
			RetryInterval:   getEnvDuration("UPSTREAM_RETRY_INTERVAL", time.Second),
			CircuitBreaker:  breaker,
		},
		Proxy: ProxyConfig{
			ExtraDomains: parseList(os.Getenv("PROXY_ALLOWED_DOMAINS"), nil),
			Timeout:      getEnvDuration("PROXY_TIMEOUT", 15*time.Second),
		},
		Cache: CacheConfig{
			Store: parseStore(getEnv("CACHE_STORE", StoreMemory)),
			Dir:   getEnv("CACHE_DIR", ".cache"),
		},
		Database: DatabaseConfig{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:   getEnv("MONGODB_DATABASE", "daniels_library"),
			ActivityTTL:    getEnvDuration("MONGODB_ACTIVITY_TTL", 30*24*time.Hour),
			Enabled:        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreaker: breaker,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			DB:       getEnvInt("REDIS_DB", 0),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Telemetry: TelemetryConfig{
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "daniels-library"),
		},
	}
}

var defaultDownloadMirrors = []string{
	"https://libgen.li",
	"https://libgen.gs",
	"https://libgen.la",
}

// loadDotEnv never overrides variables already present in the environment.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("Failed to load env file")
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseList(s string, defaults []string) []string {
	if strings.TrimSpace(s) == "" {
		return append([]string(nil), defaults...)
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSuffix(strings.TrimSpace(p), "/"); v != "" {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return append([]string(nil), defaults...)
	}
	return result
}

func parseStore(s string) string {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case StoreFile, StoreMongoDB, StoreRedis:
		return v
	default:
		return StoreMemory
	}
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
