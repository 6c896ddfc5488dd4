// Package config reads runtime settings from the environment (optionally seeded
// from a .env file) into one struct shared by the binaries.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Dataset   DatasetConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	GeoIP     GeoIPConfig
	Sessions  SessionConfig
	Fetch     FetchConfig
}

type ServerConfig struct {
	Addr            string
	APIBase         string
	UIDir           string
	TLSEnable       bool
	TLSCertPath     string
	TLSKeyPath      string
	ShutdownTimeout time.Duration
}

type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DB       string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
}

type RedisConfig struct {
	Enabled bool
	Host    string
	Port    int
	Pass    string
	DB      int
}

// DatasetConfig selects where museum records come from: "embedded", "file" or "postgres".
type DatasetConfig struct {
	Source string
	Path   string
}

type CacheConfig struct {
	TTL         time.Duration
	LRUCapacity int
	LRUTTL      time.Duration
}

type RateLimitConfig struct {
	Enabled bool
	QPS     int
}

type GeoIPConfig struct {
	CityDBPath string
}

type SessionConfig struct {
	MaxIdle   time.Duration
	SweepSpec string
}

type FetchConfig struct {
	InputFile  string
	OutputFile string
	Pause      time.Duration
	Retries    int
	Backoff    time.Duration
	Timeout    time.Duration
	Store      bool
	Schedule   string
	BaseURL    string
}

// Load applies .env files when present and reads the environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	return FromEnv()
}

// FromEnv reads the environment without touching .env files.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("ADDR", ":8080"),
			APIBase:         strings.TrimRight(getEnv("API_BASE", "/api"), "/"),
			UIDir:           getEnv("UI_DIST", filepath.Join("ui", "dist")),
			TLSEnable:       getEnvBool("TLS_ENABLE", false),
			TLSCertPath:     getEnv("TLS_CERT_PATH", filepath.Join("data", "certs", "server.crt")),
			TLSKeyPath:      getEnv("TLS_KEY_PATH", filepath.Join("data", "certs", "server.key")),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Postgres: PostgresConfig{
			Enabled:  getEnvBool("PG_ENABLE", false),
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnvInt("PG_PORT", 5432),
			User:     getEnv("PG_USER", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			DB:       getEnv("PG_DB", "muzekasif"),
			SSLMode:  getEnv("PG_SSLMODE", "disable"),
			MaxOpen:  getEnvInt("PG_MAX_OPEN_CONNS", 20),
			MaxIdle:  getEnvInt("PG_MAX_IDLE_CONNS", 10),
		},
		Redis: RedisConfig{
			Enabled: getEnvBool("REDIS_ENABLE", false),
			Host:    getEnv("REDIS_HOST", "127.0.0.1"),
			Port:    getEnvInt("REDIS_PORT", 6379),
			Pass:    os.Getenv("REDIS_PASS"),
			DB:      getEnvInt("REDIS_DB", 0),
		},
		Dataset: DatasetConfig{
			Source: strings.ToLower(getEnv("DATASET_SOURCE", "embedded")),
			Path:   os.Getenv("DATASET_PATH"),
		},
		Cache: CacheConfig{
			TTL:         getEnvDuration("CACHE_TTL", 10*time.Minute),
			LRUCapacity: getEnvInt("NEAREST_LRU_CAP", 2048),
			LRUTTL:      getEnvDuration("NEAREST_LRU_TTL", 10*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Enabled: getEnvBool("RATE_LIMIT_ENABLED", false),
			QPS:     getEnvInt("RATE_LIMIT_QPS", 200),
		},
		GeoIP: GeoIPConfig{
			CityDBPath: os.Getenv("GEOIP_CITY_DB"),
		},
		Sessions: SessionConfig{
			MaxIdle:   getEnvDuration("SESSION_MAX_IDLE", 30*time.Minute),
			SweepSpec: getEnv("SESSION_SWEEP_SPEC", "*/5 * * * *"),
		},
		Fetch: FetchConfig{
			InputFile:  os.Getenv("FETCH_INPUT_FILE"),
			OutputFile: os.Getenv("FETCH_OUTPUT_FILE"),
			Pause:      getEnvDuration("FETCH_PAUSE", time.Second),
			Retries:    getEnvInt("FETCH_RETRIES", 3),
			Backoff:    getEnvDuration("FETCH_BACKOFF", 2*time.Second),
			Timeout:    getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
			Store:      getEnvBool("FETCH_STORE", false),
			Schedule:   os.Getenv("FETCH_SCHEDULE"),
			BaseURL:    getEnv("FETCH_BASE_URL", "https://en.wikipedia.org/api/rest_v1/page/summary/"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("ADDR is required")
	}
	if !strings.HasPrefix(c.Server.APIBase, "/") {
		return fmt.Errorf("API_BASE must start with '/': %q", c.Server.APIBase)
	}
	switch c.Dataset.Source {
	case "embedded":
	case "file":
		if c.Dataset.Path == "" {
			return fmt.Errorf("DATASET_PATH is required when DATASET_SOURCE=file")
		}
	case "postgres":
		if !c.Postgres.Enabled {
			return fmt.Errorf("DATASET_SOURCE=postgres requires PG_ENABLE=true")
		}
	default:
		return fmt.Errorf("unknown DATASET_SOURCE %q", c.Dataset.Source)
	}
	if c.RateLimit.Enabled && c.RateLimit.QPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_QPS must be positive")
	}
	if c.Fetch.Retries < 1 {
		return fmt.Errorf("FETCH_RETRIES must be at least 1")
	}
	if c.Fetch.Pause < 0 || c.Fetch.Backoff < 0 {
		return fmt.Errorf("FETCH_PAUSE and FETCH_BACKOFF must not be negative")
	}
	if c.Fetch.Store && !c.Postgres.Enabled {
		return fmt.Errorf("FETCH_STORE=true requires PG_ENABLE=true")
	}
	return nil
}

// RedisAddr joins host and port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + strconv.Itoa(r.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("1500ms") or bare integer seconds ("2").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	return defaultValue
}
