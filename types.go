package grcAuth

import (
	"context"
	"time"

	"github.com/MrEthical07/grcAuth/permission"
)

// Account is the full credential record returned by [Directory]. The same
// shape covers organization users (keyed by email) and super-admins (keyed
// by username); fields that do not apply to a variant stay zero.
type Account struct {
	ID             string
	TenantID       string
	Email          string
	Username       string
	DisplayName    string
	Avatar         string
	HashedPassword string
	PrevPasswords  []string
	PassExpiry     time.Time
	LastLogin      time.Time
	IsFirstLogin   bool
	SSOUser        bool
	Active         bool
	RoleID         string
}

// Role defines a public type used by grcAuth APIs.
//
// Role instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Role struct {
	ID          string
	Name        string
	Tier        permission.Tier
	Permissions map[string]permission.Flags
}

// CreateAccountInput is the input for [Directory.CreateAccount].
type CreateAccountInput struct {
	TenantID       string
	Email          string
	Username       string
	DisplayName    string
	RoleID         string
	HashedPassword string
	PassExpiry     time.Time
	IsFirstLogin   bool
	SSOUser        bool
	Active         bool
}

// PasswordUpdate carries the single persisting write of a password change:
// new hash, rotated history, and the next expiry. [Directory.UpdatePassword]
// must apply it atomically or not at all.
type PasswordUpdate struct {
	Hash          string
	PrevPasswords []string
	PassExpiry    time.Time
	IsFirstLogin  bool
}

// Directory is the primary interface that callers must implement to
// integrate grcAuth with their durable store. It covers account lookup and
// creation, the atomic password write, and TOTP secret management.
// Ephemeral OTP and link-token records are engine-owned and never pass
// through it.
type Directory interface {
	GetAccountByEmail(ctx context.Context, tenantID, email string) (*Account, error)
	GetAccountByUsername(ctx context.Context, tenantID, username string) (*Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*Account, error)
	CreateAccount(ctx context.Context, input CreateAccountInput) (*Account, error)
	UpdatePassword(ctx context.Context, accountID string, update PasswordUpdate) error
	UpdateProfile(ctx context.Context, accountID, displayName, avatar string) error
	UpdateLastLogin(ctx context.Context, accountID string, at time.Time) error
	UpdateAccountActive(ctx context.Context, accountID string, active bool) error
	GetRole(ctx context.Context, roleID string) (*Role, error)
	GetTOTPSecret(ctx context.Context, accountID string) (string, error)
	SaveTOTPSecret(ctx context.Context, accountID, secret string) error
}

// Mailer delivers out-of-band notifications (OTP codes, reset and invite
// links, change confirmations). Implementations own transport and retries.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// PermissionChecker answers whether an actor holds every named requirement.
// Used to gate administrative operations (invitations, bulk status changes).
type PermissionChecker interface {
	CheckRolePermissions(ctx context.Context, actorID string, requirements []string) (bool, error)
}

// Profile is the account projection returned to callers on successful
// authentication. It never carries the password hash or history.
type Profile struct {
	ID          string
	Name        string
	Email       string
	Avatar      string
	Role        string
	Permissions map[string]permission.Flags
}

// LoginResult is returned by [Engine.Login] and [Engine.SuperAdminLogin].
// It includes tokens when authentication completes, or MFA metadata when a
// second factor is still required.
type LoginResult struct {
	AccessToken  string
	RefreshToken string

	MFARequired      bool
	EmailMFA         bool
	AuthenticatorMFA bool
	UID              string

	Profile *Profile
}

// AuthenticatorSetup holds the base32 secret, otpauth:// URI, and rendered
// QR code returned by [Engine.SetupAuthenticator].
type AuthenticatorSetup struct {
	SecretBase32    string
	ProvisioningURI string
	QRCodePNG       []byte
}

// OTPDelivery is returned by the send-OTP operations. The destination is
// masked before it leaves the engine.
type OTPDelivery struct {
	MaskedEmail string
}

// LinkInfo is returned by the link-probe operations. BoundIdentity is the
// email or username the link was issued for.
type LinkInfo struct {
	BoundIdentity string
	Kind          LinkKind
	ExpiresAt     time.Time
}
