package grcAuth

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTenantFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing tenant file failed: %v", err)
	}
	return path
}

func TestLoadTenantConfigYAML(t *testing.T) {
	path := writeTenantFile(t, "tenant.yaml", `
tenant_id: "42"
org_name: Acme GRC
mfa_enabled: true
mfa_email: true
mfa_authenticator: true
log_user_auth: false
complexity:
  password_min_length: 20
  password_max_length: 64
  include_uppercase: true
  include_lowercase: true
  include_number: true
  include_special_character: true
`)

	cfg, err := LoadTenantConfig(path)
	if err != nil {
		t.Fatalf("LoadTenantConfig failed: %v", err)
	}
	if cfg.TenantID != "42" || cfg.OrgName != "Acme GRC" {
		t.Fatalf("unexpected identity fields %+v", cfg)
	}
	if !cfg.MFAEnabled || !cfg.MFAEmail || !cfg.MFAAuthenticator {
		t.Fatalf("unexpected MFA toggles %+v", cfg)
	}
	if !cfg.NormalLoginEnabled {
		t.Fatal("expected normal login to default on")
	}
	if cfg.LogUserAuth || !cfg.LogAdminActivity {
		t.Fatalf("unexpected audit toggles %+v", cfg)
	}
	if cfg.Complexity == nil || cfg.Complexity.PasswordMinLength != 20 || cfg.Complexity.PasswordMaxLength != 64 {
		t.Fatalf("unexpected complexity %+v", cfg.Complexity)
	}
}

func TestLoadTenantConfigDefaults(t *testing.T) {
	path := writeTenantFile(t, "tenant.yaml", "org_name: Acme GRC\n")

	cfg, err := LoadTenantConfig(path)
	if err != nil {
		t.Fatalf("LoadTenantConfig failed: %v", err)
	}
	if !cfg.NormalLoginEnabled || cfg.MFAEnabled || !cfg.MFAEmail {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if !cfg.LogAdminActivity || !cfg.LogUserAuth {
		t.Fatalf("expected both audit categories on by default, got %+v", cfg)
	}
	if cfg.Complexity != nil {
		t.Fatal("expected no complexity override by default")
	}
}

func TestLoadTenantConfigRejectsInvalid(t *testing.T) {
	path := writeTenantFile(t, "tenant.yaml", `
org_name: Acme GRC
mfa_enabled: true
mfa_email: false
mfa_authenticator: false
`)

	if _, err := LoadTenantConfig(path); err == nil {
		t.Fatal("expected MFA without a factor to be rejected")
	}

	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := LoadTenantConfig(missing); err == nil {
		t.Fatal("expected a read error for a missing file")
	}
}

func TestTenantConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  TenantConfig
		ok   bool
	}{
		{"minimal", TenantConfig{OrgName: "Acme"}, true},
		{"missing org", TenantConfig{}, false},
		{"mfa without factor", TenantConfig{OrgName: "Acme", MFAEnabled: true}, false},
		{"mandatory without authenticator", TenantConfig{OrgName: "Acme", AuthenticatorMandatory: true}, false},
		{"zero min length", TenantConfig{OrgName: "Acme", Complexity: &ComplexityPolicy{}}, false},
		{"max below min", TenantConfig{
			OrgName:    "Acme",
			Complexity: &ComplexityPolicy{PasswordMinLength: 20, PasswordMaxLength: 10},
		}, false},
		{"unbounded max", TenantConfig{
			OrgName:    "Acme",
			Complexity: &ComplexityPolicy{PasswordMinLength: 16},
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestTenantHolderSnapshotIsolation(t *testing.T) {
	initial := testTenantConfig()
	initial.Complexity = &ComplexityPolicy{PasswordMinLength: 16}
	holder := newTenantConfigHolder(initial)

	before := holder.snapshot()

	updated := testTenantConfig()
	updated.OrgName = "Acme GRC v2"
	updated.NormalLoginEnabled = false
	holder.replace(updated)

	if before.OrgName != "Acme GRC" || !before.NormalLoginEnabled {
		t.Fatal("expected the captured snapshot to keep its view")
	}

	after := holder.snapshot()
	if after.OrgName != "Acme GRC v2" || after.NormalLoginEnabled {
		t.Fatal("expected the replacement to be visible to new readers")
	}

	// the holder detaches the complexity pointer from the caller's copy
	initial.Complexity.PasswordMinLength = 99
	if before.Complexity.PasswordMinLength != 16 {
		t.Fatal("expected the stored complexity policy to be detached")
	}
}

func TestEngineReloadTenantConfig(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	engine := newTestEngine(t, rdb, newMockDirectory(), &mockMailer{})

	bad := TenantConfig{}
	if err := engine.ReloadTenantConfig(bad); err == nil {
		t.Fatal("expected an invalid replacement to be refused")
	}
	if engine.TenantSnapshot().OrgName != "Acme GRC" {
		t.Fatal("expected the previous snapshot to survive a refused reload")
	}

	good := testTenantConfig()
	good.NormalLoginEnabled = false
	if err := engine.ReloadTenantConfig(good); err != nil {
		t.Fatalf("ReloadTenantConfig failed: %v", err)
	}
	if engine.TenantSnapshot().NormalLoginEnabled {
		t.Fatal("expected the reload to take effect")
	}
}
