// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"strings"
	"testing"
	"time"
)

// envVars lists every variable Load reads.
var envVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
	"NATS_URL", "NATS_SUBJECT",
	"SITES_DIR", "MEDIA_DIR", "BASE_DOMAIN", "LIVE_URL_SCHEME",
	"PUBLISH_TIMEOUT", "PUBLISH_RATE_LIMIT",
}

// clearEnv sets every variable to "", which envOrDefault treats as unset.
// t.Setenv restores the previous values after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	strs := map[string][2]string{
		"Host":          {cfg.Host, "0.0.0.0"},
		"Port":          {cfg.Port, "8080"},
		"Env":           {cfg.Env, "development"},
		"DBHost":        {cfg.DBHost, "localhost"},
		"DBPort":        {cfg.DBPort, "5432"},
		"DBUser":        {cfg.DBUser, "menupress"},
		"DBPassword":    {cfg.DBPassword, "changeme"},
		"DBName":        {cfg.DBName, "menupress"},
		"ValkeyHost":    {cfg.ValkeyHost, ""},
		"ValkeyPort":    {cfg.ValkeyPort, "6379"},
		"S3Region":      {cfg.S3Region, "fsn1"},
		"S3Bucket":      {cfg.S3Bucket, "menupress"},
		"NATSURL":       {cfg.NATSURL, ""},
		"NATSSubject":   {cfg.NATSSubject, "menupress.websites"},
		"SitesDir":      {cfg.SitesDir, "./sites"},
		"MediaDir":      {cfg.MediaDir, "./media"},
		"BaseDomain":    {cfg.BaseDomain, "menupress.localhost"},
		"LiveURLScheme": {cfg.LiveURLScheme, "https"},
	}
	for field, v := range strs {
		if v[0] != v[1] {
			t.Errorf("%s = %q, want %q", field, v[0], v[1])
		}
	}
	if cfg.PublishTimeout != 2*time.Minute {
		t.Errorf("PublishTimeout = %v, want 2m", cfg.PublishTimeout)
	}
	if cfg.PublishRateLimit != 10 {
		t.Errorf("PublishRateLimit = %d, want 10", cfg.PublishRateLimit)
	}
	if cfg.HasValkey() || cfg.HasS3() {
		t.Error("optional services enabled without configuration")
	}
}

// TestLoad_EnvOverrides verifies that every variable overrides its default.
func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_DB", "menus")
	t.Setenv("VALKEY_HOST", "valkey")
	t.Setenv("S3_ENDPOINT", "https://fsn1.your-objectstorage.com")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("NATS_URL", "nats://nats:4222")
	t.Setenv("SITES_DIR", "/srv/sites")
	t.Setenv("BASE_DOMAIN", "Menus.Example.COM")
	t.Setenv("LIVE_URL_SCHEME", "http")
	t.Setenv("PUBLISH_TIMEOUT", "45s")
	t.Setenv("PUBLISH_RATE_LIMIT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.DBName != "menus" || cfg.SitesDir != "/srv/sites" || cfg.NATSURL != "nats://nats:4222" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.BaseDomain != "menus.example.com" {
		t.Errorf("BaseDomain = %q, want lowercased", cfg.BaseDomain)
	}
	if cfg.LiveURLScheme != "http" || cfg.PublishTimeout != 45*time.Second || cfg.PublishRateLimit != 3 {
		t.Errorf("publishing overrides not applied: %+v", cfg)
	}
	if !cfg.HasValkey() || !cfg.HasS3() {
		t.Error("optional services not enabled")
	}
}

// TestLoad_InvalidValues verifies that malformed values are rejected with
// the variable named in the error.
func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PUBLISH_TIMEOUT", "soon"},
		{"PUBLISH_TIMEOUT", "-5s"},
		{"PUBLISH_RATE_LIMIT", "many"},
		{"PUBLISH_RATE_LIMIT", "0"},
		{"BASE_DOMAIN", "localhost"},
		{"BASE_DOMAIN", "bad_domain.com"},
		{"LIVE_URL_SCHEME", "ftp"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil {
				t.Fatal("Load() accepted an invalid value")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("error should mention %s, got: %v", tt.key, err)
			}
		})
	}
}

// TestLoad_Production verifies the production guards.
func TestLoad_Production(t *testing.T) {
	t.Run("rejects default password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
			t.Fatalf("expected POSTGRES_PASSWORD error, got %v", err)
		}
	})

	t.Run("rejects plain http live urls", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("POSTGRES_PASSWORD", "s3cur3-pr0d-p@ssw0rd")
		t.Setenv("LIVE_URL_SCHEME", "http")

		if _, err := Load(); err == nil {
			t.Fatal("production accepted http live urls")
		}
	})

	t.Run("accepts real password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("POSTGRES_PASSWORD", "s3cur3-pr0d-p@ssw0rd")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.DBPassword != "s3cur3-pr0d-p@ssw0rd" {
			t.Errorf("DBPassword = %q", cfg.DBPassword)
		}
	})
}

// TestLoad_DevelopmentAllowsDefaultPassword ensures the default password
// does not cause an error outside of production.
func TestLoad_DevelopmentAllowsDefaultPassword(t *testing.T) {
	for _, env := range []string{"development", "testing", ""} {
		t.Run("env="+env, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", env)

			if _, err := Load(); err != nil {
				t.Fatalf("Load() should not error in %q mode with default password, got: %v", env, err)
			}
		})
	}
}

// TestDSN verifies the PostgreSQL connection string format.
func TestDSN(t *testing.T) {
	cfg := Config{DBUser: "menupress", DBPassword: "h@ck&me!", DBHost: "10.0.0.5", DBPort: "5433", DBName: "menus"}
	want := "postgres://menupress:h@ck&me!@10.0.0.5:5433/menus?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

// TestAddr verifies the server listen address format.
func TestAddr(t *testing.T) {
	tests := []struct {
		host, port, want string
	}{
		{"0.0.0.0", "8080", "0.0.0.0:8080"},
		{"127.0.0.1", "3000", "127.0.0.1:3000"},
		{"", "8080", ":8080"},
	}
	for _, tt := range tests {
		cfg := Config{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}

// TestIsDev verifies the IsDev method for various environment modes.
func TestIsDev(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"production", false},
		{"testing", false},
		{"", false},
		{"Development", false},
	}
	for _, tt := range tests {
		cfg := Config{Env: tt.env}
		if got := cfg.IsDev(); got != tt.want {
			t.Errorf("IsDev() = %v, want %v (env=%q)", got, tt.want, tt.env)
		}
	}
}

// TestHasS3 requires both an endpoint and credentials.
func TestHasS3(t *testing.T) {
	if (&Config{S3Endpoint: "https://s3"}).HasS3() {
		t.Error("endpoint without access key enabled S3")
	}
	if !(&Config{S3Endpoint: "https://s3", S3AccessKey: "k"}).HasS3() {
		t.Error("configured S3 not enabled")
	}
}
