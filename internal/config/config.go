// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache). Optional: an empty host disables the
	// distributed publish lock and the status cache.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible object storage for media originals and the artifact
	// mirror. Optional.
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// NATS JetStream lifecycle events. Optional.
	NATSURL     string
	NATSSubject string

	// Publishing
	SitesDir         string
	MediaDir         string
	BaseDomain       string
	LiveURLScheme    string
	PublishTimeout   time.Duration
	PublishRateLimit int // publish-type requests per restaurant per minute
}

var domainRe = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?(\.[a-z0-9]([a-z0-9-]*[a-z0-9])?)+$`)

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value is
// malformed, or if critical values are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "menupress"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "menupress"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "menupress"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		NATSURL:     os.Getenv("NATS_URL"),
		NATSSubject: envOrDefault("NATS_SUBJECT", "menupress.websites"),

		SitesDir:      envOrDefault("SITES_DIR", "./sites"),
		MediaDir:      envOrDefault("MEDIA_DIR", "./media"),
		BaseDomain:    strings.ToLower(envOrDefault("BASE_DOMAIN", "menupress.localhost")),
		LiveURLScheme: envOrDefault("LIVE_URL_SCHEME", "https"),
	}

	var err error
	if cfg.PublishTimeout, err = durationOrDefault("PUBLISH_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.PublishRateLimit, err = intOrDefault("PUBLISH_RATE_LIMIT", 10); err != nil {
		return nil, err
	}

	if !domainRe.MatchString(cfg.BaseDomain) {
		return nil, fmt.Errorf("BASE_DOMAIN %q is not a valid domain name", cfg.BaseDomain)
	}
	if cfg.LiveURLScheme != "http" && cfg.LiveURLScheme != "https" {
		return nil, fmt.Errorf("LIVE_URL_SCHEME must be http or https, got %q", cfg.LiveURLScheme)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.LiveURLScheme != "https" {
			return nil, fmt.Errorf("LIVE_URL_SCHEME must be https in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasValkey reports whether Valkey is configured.
func (c *Config) HasValkey() bool {
	return c.ValkeyHost != ""
}

// HasS3 reports whether object storage is configured.
func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationOrDefault parses a Go duration ("90s", "2m") from the environment.
func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

// intOrDefault parses a positive integer from the environment.
func intOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}
