// Package config centralizes the configuration surface of the file
// server. Values come from the environment (a .env file is honored).
// What the serving protocol pins (the extension allow-list, the visible
// sets for the root listing, the rate-limit window) is fixed here rather
// than configurable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/FilipObrijan/LAB2-PR/internal/obs"
)

type Config struct {
	Host string
	Port int

	// MaxWorkers bounds the number of in-flight connection handlers.
	MaxWorkers int

	LogLevel obs.Level

	RateLimit RateLimitConfig
	Storage   StorageConfig

	// Artificial latencies, observable end to end. Tests set them to
	// zero.
	HandleDelay time.Duration // simulate-work sleep after rate admission
	BumpDelay   time.Duration // held under the hit-counter lock per bump

	// SiteName is the heading shown on every directory listing.
	SiteName string

	// AllowedExtensions gates which files may be served at all;
	// ContentTypes maps those extensions to their Content-Type.
	AllowedExtensions map[string]bool
	ContentTypes      map[string]string

	// VisibleFiles and VisibleDirs filter the top-level listing only.
	// Listings below the root show every entry.
	VisibleFiles map[string]bool
	VisibleDirs  map[string]bool
}

type RateLimitConfig struct {
	Requests int           // admissions per window per client
	Window   time.Duration // sliding window length
}

type StorageConfig struct {
	Type  string // "memory" or "redis"
	Redis RedisConfig
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := getEnvAsInt("PORT", 8001)
	if err != nil {
		return nil, err
	}
	maxWorkers, err := getEnvAsInt("MAX_WORKERS", 16)
	if err != nil {
		return nil, err
	}
	redisPort, err := getEnvAsInt("REDIS_PORT", 6379)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvAsInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:       getEnv("HOST", "0.0.0.0"),
		Port:       port,
		MaxWorkers: maxWorkers,
		LogLevel:   obs.ParseLevel(getEnv("LOG_LEVEL", "INFO")),
		RateLimit: RateLimitConfig{
			Requests: 5,
			Window:   time.Second,
		},
		Storage: StorageConfig{
			Type: getEnv("STORAGE_TYPE", "memory"),
			Redis: RedisConfig{
				Host:     getEnv("REDIS_HOST", "localhost"),
				Port:     redisPort,
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       redisDB,
			},
		},
		HandleDelay: 500 * time.Millisecond,
		BumpDelay:   100 * time.Millisecond,
		SiteName:    "Filip",
		AllowedExtensions: map[string]bool{
			".html": true,
			".png":  true,
			".jpg":  true,
			".pdf":  true,
		},
		ContentTypes: map[string]string{
			".html": "text/html; charset=utf-8",
			".png":  "image/png",
			".jpg":  "image/jpeg",
			".pdf":  "application/pdf",
		},
		VisibleFiles: map[string]bool{
			"index.html":                 true,
			"Syllabus PR FAF-23x -2.pdf": true,
		},
		VisibleDirs: map[string]bool{
			"books":       true,
			"docs":        true,
			"mercedes":    true,
			"report_pics": true,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("MAX_WORKERS must be positive, got %d", c.MaxWorkers)
	}
	switch c.Storage.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit rule must have positive values")
	}
	return nil
}

// ServerAddress returns the listen address in host:port form.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisAddress returns the redis endpoint in host:port form.
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.Storage.Redis.Host, c.Storage.Redis.Port)
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
