package grcAuth

import (
	"errors"
	"sync/atomic"

	"github.com/spf13/viper"
)

// ComplexityPolicy is an organization-scoped password complexity override.
// A nil policy on [TenantConfig] selects the hardcoded default.
type ComplexityPolicy struct {
	PasswordMinLength       int
	PasswordMaxLength       int
	IncludeUppercase        bool
	IncludeLowercase        bool
	IncludeNumber           bool
	IncludeSpecialCharacter bool
}

// TenantConfig is the immutable per-tenant settings snapshot consulted by
// every engine operation. Updates replace the whole snapshot through
// [Engine.ReloadTenantConfig]; a snapshot is never mutated in place, so a
// request that captured one keeps a consistent view for its lifetime.
type TenantConfig struct {
	TenantID string
	OrgName  string

	NormalLoginEnabled     bool
	MFAEnabled             bool
	MFAEmail               bool
	MFAAuthenticator       bool
	AuthenticatorMandatory bool

	Complexity *ComplexityPolicy

	LogAdminActivity bool
	LogUserAuth      bool
}

type tenantConfigHolder struct {
	current atomic.Pointer[TenantConfig]
}

func newTenantConfigHolder(cfg TenantConfig) *tenantConfigHolder {
	h := &tenantConfigHolder{}
	h.replace(cfg)
	return h
}

func (h *tenantConfigHolder) snapshot() *TenantConfig {
	if h == nil {
		return nil
	}
	return h.current.Load()
}

func (h *tenantConfigHolder) replace(cfg TenantConfig) {
	if cfg.Complexity != nil {
		c := *cfg.Complexity
		cfg.Complexity = &c
	}
	h.current.Store(&cfg)
}

// LoadTenantConfig reads a tenant settings file (YAML, JSON, or TOML by
// extension) and returns the snapshot. Missing toggles default to a
// password-login-only tenant with both audit categories enabled.
func LoadTenantConfig(path string) (TenantConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("normal_login_enabled", true)
	v.SetDefault("mfa_enabled", false)
	v.SetDefault("mfa_email", true)
	v.SetDefault("mfa_authenticator", false)
	v.SetDefault("authenticator_mandatory", false)
	v.SetDefault("log_admin_activity", true)
	v.SetDefault("log_user_auth", true)

	if err := v.ReadInConfig(); err != nil {
		return TenantConfig{}, err
	}

	cfg := TenantConfig{
		TenantID:               v.GetString("tenant_id"),
		OrgName:                v.GetString("org_name"),
		NormalLoginEnabled:     v.GetBool("normal_login_enabled"),
		MFAEnabled:             v.GetBool("mfa_enabled"),
		MFAEmail:               v.GetBool("mfa_email"),
		MFAAuthenticator:       v.GetBool("mfa_authenticator"),
		AuthenticatorMandatory: v.GetBool("authenticator_mandatory"),
		LogAdminActivity:       v.GetBool("log_admin_activity"),
		LogUserAuth:            v.GetBool("log_user_auth"),
	}

	if v.IsSet("complexity") {
		cfg.Complexity = &ComplexityPolicy{
			PasswordMinLength:       v.GetInt("complexity.password_min_length"),
			PasswordMaxLength:       v.GetInt("complexity.password_max_length"),
			IncludeUppercase:        v.GetBool("complexity.include_uppercase"),
			IncludeLowercase:        v.GetBool("complexity.include_lowercase"),
			IncludeNumber:           v.GetBool("complexity.include_number"),
			IncludeSpecialCharacter: v.GetBool("complexity.include_special_character"),
		}
	}

	if err := cfg.Validate(); err != nil {
		return TenantConfig{}, err
	}

	return cfg, nil
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *TenantConfig) Validate() error {
	if c.OrgName == "" {
		return errors.New("TenantConfig OrgName is required")
	}
	if c.MFAEnabled && !c.MFAEmail && !c.MFAAuthenticator {
		return errors.New("TenantConfig MFAEnabled requires at least one factor")
	}
	if c.AuthenticatorMandatory && !c.MFAAuthenticator {
		return errors.New("TenantConfig AuthenticatorMandatory requires MFAAuthenticator")
	}
	if c.Complexity != nil {
		if c.Complexity.PasswordMinLength <= 0 {
			return errors.New("TenantConfig Complexity PasswordMinLength must be > 0")
		}
		if c.Complexity.PasswordMaxLength > 0 &&
			c.Complexity.PasswordMaxLength < c.Complexity.PasswordMinLength {
			return errors.New("TenantConfig Complexity PasswordMaxLength must be >= PasswordMinLength")
		}
	}
	return nil
}
