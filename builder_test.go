package grcAuth

import (
	"context"
	"strings"
	"testing"
)

func TestBuilderHappyPath(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := DefaultConfig()
	cfg.Password.BcryptCost = 4
	cfg.Token.PrivateKey = []byte("test-signing-key")

	engine, err := New().
		WithConfig(cfg).
		WithTenantConfig(testTenantConfig()).
		WithRedis(rdb).
		WithDirectory(newMockDirectory()).
		WithMailer(&mockMailer{}).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if !engine.metrics.Enabled() {
		t.Fatal("expected metrics enabled")
	}
	if engine.TenantSnapshot().OrgName != "Acme GRC" {
		t.Fatal("expected the tenant snapshot to be installed")
	}
	if engine.audit == nil {
		t.Fatal("expected the audit dispatcher to run by default")
	}
}

func TestBuilderMissingDependencies(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := DefaultConfig()
	cfg.Password.BcryptCost = 4
	cfg.Token.PrivateKey = []byte("test-signing-key")

	if _, err := New().WithConfig(cfg).WithTenantConfig(testTenantConfig()).WithDirectory(newMockDirectory()).Build(); err == nil || !strings.Contains(err.Error(), "redis") {
		t.Fatalf("expected a redis requirement error, got %v", err)
	}
	if _, err := New().WithConfig(cfg).WithTenantConfig(testTenantConfig()).WithRedis(rdb).Build(); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Fatalf("expected a directory requirement error, got %v", err)
	}
	if _, err := New().WithConfig(cfg).WithRedis(rdb).WithDirectory(newMockDirectory()).Build(); err == nil || !strings.Contains(err.Error(), "tenant") {
		t.Fatalf("expected a tenant requirement error, got %v", err)
	}

	bad := cfg
	bad.Token.PrivateKey = nil
	if _, err := New().WithConfig(bad).WithTenantConfig(testTenantConfig()).WithRedis(rdb).WithDirectory(newMockDirectory()).Build(); err == nil {
		t.Fatal("expected config validation to run before wiring")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := DefaultConfig()
	cfg.Password.BcryptCost = 4
	cfg.Token.PrivateKey = []byte("test-signing-key")

	b := New().
		WithConfig(cfg).
		WithTenantConfig(testTenantConfig()).
		WithRedis(rdb).
		WithDirectory(newMockDirectory()).
		WithMailer(&mockMailer{})

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected a second Build to be refused")
	}
}

func TestBuilderDetachesCallerKeyMaterial(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := DefaultConfig()
	cfg.Password.BcryptCost = 4
	key := []byte("test-signing-key")
	cfg.Token.PrivateKey = key

	engine, err := New().
		WithConfig(cfg).
		WithTenantConfig(testTenantConfig()).
		WithRedis(rdb).
		WithDirectory(newMockDirectory()).
		WithMailer(&mockMailer{}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	// mutating the caller's slice must not affect issued tokens
	key[0] = 'X'

	dir := newMockDirectory()
	engine.directory = dir
	seedUser(t, engine, dir, "u1", "alice@example.com", "correct-horse-1!A")

	login, err := engine.Login(context.Background(), "alice@example.com", "correct-horse-1!A")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, err := engine.ParseAccessToken(login.AccessToken); err != nil {
		t.Fatalf("expected tokens signed with the detached key to verify, got %v", err)
	}
}
