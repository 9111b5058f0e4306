package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Storage.BucketName != "pdfs" {
		t.Fatalf("expected default bucket pdfs, got %s", cfg.Storage.BucketName)
	}
	if cfg.Session.Backend != "redis" {
		t.Fatalf("expected default session backend redis, got %s", cfg.Session.Backend)
	}
	if cfg.Grades.RequireActiveWindow {
		t.Fatalf("expected lenient grade windows by default")
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.Server.ShutdownTimeout)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":18080")
	t.Setenv("DATABASE_NAME", "school_test")
	t.Setenv("SESSION_BACKEND", "jwt")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("GRADES_REQUIRE_ACTIVE_WINDOW", "true")
	t.Setenv("GRADES_TIMEZONE", "America/Mexico_City")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Server.Address != ":18080" {
		t.Fatalf("expected SERVER_ADDRESS override, got %s", cfg.Server.Address)
	}
	if cfg.Database.Name != "school_test" {
		t.Fatalf("expected DATABASE_NAME override, got %s", cfg.Database.Name)
	}
	if cfg.Session.Backend != "jwt" || cfg.Session.Secret != "test-secret" {
		t.Fatalf("expected jwt session override, got %s", cfg.Session.Backend)
	}
	if cfg.Session.TTL != 90*time.Minute {
		t.Fatalf("expected SESSION_TTL 90m, got %s", cfg.Session.TTL)
	}
	if !cfg.Grades.RequireActiveWindow {
		t.Fatalf("expected GRADES_REQUIRE_ACTIVE_WINDOW override")
	}
	loc, err := cfg.Grades.Location()
	if err != nil {
		t.Fatalf("location error: %v", err)
	}
	if loc.String() != "America/Mexico_City" {
		t.Fatalf("expected America/Mexico_City, got %s", loc)
	}
}

func TestLoadRejectsInvalidBackends(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "storage provider", key: "STORAGE_PROVIDER", val: "ftp"},
		{name: "session backend", key: "SESSION_BACKEND", val: "memcached"},
		{name: "jwt without secret", key: "SESSION_BACKEND", val: "jwt"},
		{name: "timezone", key: "GRADES_TIMEZONE", val: "Mars/Olympus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "school", SSLMode: "disable"}
	want := "postgres://u:p@db:5432/school?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
