package grcAuth

import "errors"

var (
	// ErrLoginDisabled is an exported constant or variable used by the authentication engine.
	ErrLoginDisabled = errors.New("password login disabled for tenant")
	// ErrInvalidCredentials is an exported constant or variable used by the authentication engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotFound is an exported constant or variable used by the authentication engine.
	ErrAccountNotFound = errors.New("account not found")
	// ErrPasswordExpired is an exported constant or variable used by the authentication engine.
	ErrPasswordExpired = errors.New("password expired")
	// ErrSSOAccount is an exported constant or variable used by the authentication engine.
	ErrSSOAccount = errors.New("password flows disabled for sso account")
	// ErrFirstLoginIncomplete is an exported constant or variable used by the authentication engine.
	ErrFirstLoginIncomplete = errors.New("initial password setup incomplete")
	// ErrMFARequired is an exported constant or variable used by the authentication engine.
	ErrMFARequired = errors.New("mfa required")
	// ErrInvalidOTP is an exported constant or variable used by the authentication engine.
	ErrInvalidOTP = errors.New("invalid otp")
	// ErrOTPNotFound is an exported constant or variable used by the authentication engine.
	ErrOTPNotFound = errors.New("otp not found")
	// ErrOTPAttemptsExceeded is an exported constant or variable used by the authentication engine.
	ErrOTPAttemptsExceeded = errors.New("otp expired due to too many failed attempts")
	// ErrOTPUnavailable is an exported constant or variable used by the authentication engine.
	ErrOTPUnavailable = errors.New("otp backend unavailable")
	// ErrTOTPNotConfigured is an exported constant or variable used by the authentication engine.
	ErrTOTPNotConfigured = errors.New("authenticator not configured")
	// ErrTOTPAlreadyConfigured is an exported constant or variable used by the authentication engine.
	ErrTOTPAlreadyConfigured = errors.New("authenticator already configured")
	// ErrTOTPInvalid is an exported constant or variable used by the authentication engine.
	ErrTOTPInvalid = errors.New("invalid authenticator code")
	// ErrLinkNotFound is an exported constant or variable used by the authentication engine.
	ErrLinkNotFound = errors.New("link not found")
	// ErrLinkExpired is an exported constant or variable used by the authentication engine.
	ErrLinkExpired = errors.New("link expired")
	// ErrLinkUnavailable is an exported constant or variable used by the authentication engine.
	ErrLinkUnavailable = errors.New("link backend unavailable")
	// ErrPasswordPolicy is an exported constant or variable used by the authentication engine.
	ErrPasswordPolicy = errors.New("password validation failed")
	// ErrPasswordReuse is an exported constant or variable used by the authentication engine.
	ErrPasswordReuse = errors.New("password previously used")
	// ErrPasswordSameAsCurrent is an exported constant or variable used by the authentication engine.
	ErrPasswordSameAsCurrent = errors.New("new password cannot be the same as the current password")
	// ErrOldPasswordMismatch is an exported constant or variable used by the authentication engine.
	ErrOldPasswordMismatch = errors.New("old password does not match")
	// ErrRefreshInvalid is an exported constant or variable used by the authentication engine.
	ErrRefreshInvalid = errors.New("invalid refresh token")
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrAccountExists is an exported constant or variable used by the authentication engine.
	ErrAccountExists = errors.New("account already exists")
	// ErrRoleInvalid is an exported constant or variable used by the authentication engine.
	ErrRoleInvalid = errors.New("invalid role")
	// ErrPermissionDenied is an exported constant or variable used by the authentication engine.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrMailUnavailable is an exported constant or variable used by the authentication engine.
	ErrMailUnavailable = errors.New("mail backend unavailable")
	// ErrDirectoryUnavailable is an exported constant or variable used by the authentication engine.
	ErrDirectoryUnavailable = errors.New("directory backend unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
