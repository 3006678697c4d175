package grcAuth

import (
	"errors"
	"time"
)

// Config defines a public type used by grcAuth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	OTP      OTPConfig
	Links    LinkConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by grcAuth APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod string // "hs256" (default), "ed25519" optional
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig defines a public type used by grcAuth APIs.
//
// PasswordConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PasswordConfig struct {
	BcryptCost  int
	ExpiryDays  int
	HistorySize int
}

/*
====================================
OTP CONFIG
====================================
*/

// OTPConfig defines a public type used by grcAuth APIs.
//
// OTPConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OTPConfig struct {
	Digits int
	TTL    time.Duration

	// UserMaxTries is the email-MFA attempt ceiling and SuperAdminMaxTries
	// the stricter super-admin one. A wrong code only increments the
	// counter; the record dies on the first attempt that finds the counter
	// already at the ceiling. The two flows were tuned separately and must
	// not be unified silently.
	UserMaxTries       int
	SuperAdminMaxTries int
}

/*
====================================
LINK CONFIG
====================================
*/

// LinkConfig defines a public type used by grcAuth APIs.
//
// LinkConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LinkConfig struct {
	InviteTTL time.Duration
	ResetTTL  time.Duration
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig defines a public type used by grcAuth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by grcAuth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

const (
	defaultBcryptCost         = 10
	defaultPasswordExpiryDays = 60
	defaultHistorySize        = 3
	defaultOTPDigits          = 6
	defaultOTPTTL             = 15 * time.Minute
	defaultUserOTPMaxTries    = 4
	defaultSuperOTPMaxTries   = 3
	defaultInviteLinkTTL      = 2 * 24 * time.Hour
	defaultResetLinkTTL       = 7 * 24 * time.Hour
	defaultRefreshTTL         = 7 * 24 * time.Hour
)

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig may return an error when input validation, dependency calls, or security checks fail.
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    defaultRefreshTTL,
			SigningMethod: "hs256",
		},
		Password: PasswordConfig{
			BcryptCost:  defaultBcryptCost,
			ExpiryDays:  defaultPasswordExpiryDays,
			HistorySize: defaultHistorySize,
		},
		OTP: OTPConfig{
			Digits:             defaultOTPDigits,
			TTL:                defaultOTPTTL,
			UserMaxTries:       defaultUserOTPMaxTries,
			SuperAdminMaxTries: defaultSuperOTPMaxTries,
		},
		Links: LinkConfig{
			InviteTTL: defaultInviteLinkTTL,
			ResetTTL:  defaultResetLinkTTL,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Token
	if c.Token.AccessTTL <= 0 {
		return errors.New("Token AccessTTL must be > 0")
	}
	if c.Token.RefreshTTL <= 0 {
		return errors.New("Token RefreshTTL must be > 0")
	}
	if c.Token.SigningMethod != "hs256" && c.Token.SigningMethod != "ed25519" {
		return errors.New("unsupported Token signing method")
	}
	if c.Token.SigningMethod == "hs256" && len(c.Token.PrivateKey) == 0 {
		return errors.New("hs256 requires PrivateKey")
	}
	if c.Token.SigningMethod == "ed25519" && len(c.Token.PrivateKey) == 0 {
		return errors.New("ed25519 requires PrivateKey")
	}
	if c.Token.SigningMethod == "ed25519" && len(c.Token.PublicKey) == 0 {
		return errors.New("ed25519 requires PublicKey")
	}

	// Password
	if c.Password.BcryptCost < 4 || c.Password.BcryptCost > 31 {
		return errors.New("Password BcryptCost must be between 4 and 31")
	}
	if c.Password.ExpiryDays <= 0 {
		return errors.New("Password ExpiryDays must be > 0")
	}
	if c.Password.HistorySize < 0 {
		return errors.New("Password HistorySize must be >= 0")
	}

	// OTP
	if c.OTP.Digits < 4 || c.OTP.Digits > 10 {
		return errors.New("OTP Digits must be between 4 and 10")
	}
	if c.OTP.TTL <= 0 {
		return errors.New("OTP TTL must be > 0")
	}
	if c.OTP.UserMaxTries <= 0 {
		return errors.New("OTP UserMaxTries must be > 0")
	}
	if c.OTP.SuperAdminMaxTries <= 0 {
		return errors.New("OTP SuperAdminMaxTries must be > 0")
	}

	// Links
	if c.Links.InviteTTL <= 0 {
		return errors.New("Links InviteTTL must be > 0")
	}
	if c.Links.ResetTTL <= 0 {
		return errors.New("Links ResetTTL must be > 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
