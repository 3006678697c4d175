package grcAuth

import "errors"

// Result is the uniform envelope handed to transport adapters. Status=false
// carries a user-displayable Msg; ErrorCode is set only for server-fault
// classification and never exposes internals.
type Result struct {
	Status      bool           `json:"status"`
	Msg         string         `json:"msg,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	AccessToken string         `json:"accessToken,omitempty"`
	RefToken    string         `json:"refToken,omitempty"`
	UID         string         `json:"uId,omitempty"`
	ErrorCode   string         `json:"_errorCode,omitempty"`
}

// User-facing failure messages. Wording is part of the external contract:
// client UIs string-match several of these.
const (
	msgMFARequired       = "MFA also required"
	msgInvalidOTP        = "Invalid OTP"
	msgOTPExpired        = "OTP expired due to too many failed attempts"
	msgOTPNotFound       = "OTP not found"
	msgLinkExpired       = "Link expired"
	msgLinkNotFound      = "Invalid link"
	msgUserNotFound      = "User not found"
	msgIncorrectPassword = "Incorrect password"
	msgPasswordExpired   = "Password expired"
	msgLoginDisabled     = "Password login is disabled"
	msgSSOAccount        = "Password operations are not available for SSO accounts"
	msgFirstLogin        = "Initial password setup incomplete"
	msgRoleInvalid       = "Invalid role"
	msgPasswordPolicy    = "Password validation failed"
	msgPasswordReuse     = "You have used this password previously. Please use a different password."
	msgPasswordSame      = "New password cannot be the same as the current password"
	msgOldPassword       = "Old password does not match"
	msgInvalidTOTP       = "Invalid OTP"
	msgTOTPConfigured    = "Authenticator already configured"
	msgTOTPNotConfigured = "Authenticator not configured"
	msgRefreshInvalid    = "Invalid refresh token"
	msgPermissionDenied  = "Permission denied"
	msgAccountExists     = "User already exists"
	msgInternal          = "Error"
)

// ResultFromError converts an engine error into the uniform envelope.
// Expected failures map to their display message; anything unrecognized is
// surfaced as a generic fault with an internal code.
func ResultFromError(err error) Result {
	if err == nil {
		return Result{Status: true}
	}

	switch {
	case errors.Is(err, ErrMFARequired):
		return Result{Status: true, Msg: msgMFARequired}
	case errors.Is(err, ErrAccountNotFound):
		return Result{Status: false, Msg: msgUserNotFound}
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrOldPasswordMismatch):
		return Result{Status: false, Msg: msgIncorrectPassword}
	case errors.Is(err, ErrPasswordExpired):
		return Result{Status: false, Msg: msgPasswordExpired}
	case errors.Is(err, ErrLoginDisabled):
		return Result{Status: false, Msg: msgLoginDisabled}
	case errors.Is(err, ErrSSOAccount):
		return Result{Status: false, Msg: msgSSOAccount}
	case errors.Is(err, ErrFirstLoginIncomplete):
		return Result{Status: false, Msg: msgFirstLogin}
	case errors.Is(err, ErrRoleInvalid):
		return Result{Status: false, Msg: msgRoleInvalid}
	case errors.Is(err, ErrInvalidOTP), errors.Is(err, ErrTOTPInvalid):
		return Result{Status: false, Msg: msgInvalidOTP}
	case errors.Is(err, ErrOTPAttemptsExceeded):
		return Result{Status: false, Msg: msgOTPExpired}
	case errors.Is(err, ErrOTPNotFound):
		return Result{Status: false, Msg: msgOTPNotFound}
	case errors.Is(err, ErrLinkExpired):
		return Result{Status: false, Msg: msgLinkExpired}
	case errors.Is(err, ErrLinkNotFound):
		return Result{Status: false, Msg: msgLinkNotFound}
	case errors.Is(err, ErrPasswordSameAsCurrent):
		return Result{Status: false, Msg: msgPasswordSame}
	case errors.Is(err, ErrPasswordReuse):
		return Result{Status: false, Msg: msgPasswordReuse}
	case errors.Is(err, ErrPasswordPolicy):
		res := Result{Status: false, Msg: msgPasswordPolicy}
		var pe *PolicyError
		if errors.As(err, &pe) && len(pe.Violations) > 0 {
			res.Data = map[string]any{"violations": pe.Violations}
		}
		return res
	case errors.Is(err, ErrTOTPAlreadyConfigured):
		return Result{Status: false, Msg: msgTOTPConfigured}
	case errors.Is(err, ErrTOTPNotConfigured):
		return Result{Status: false, Msg: msgTOTPNotConfigured}
	case errors.Is(err, ErrRefreshInvalid), errors.Is(err, ErrTokenInvalid):
		return Result{Status: false, Msg: msgRefreshInvalid}
	case errors.Is(err, ErrPermissionDenied):
		return Result{Status: false, Msg: msgPermissionDenied}
	case errors.Is(err, ErrAccountExists):
		return Result{Status: false, Msg: msgAccountExists}
	default:
		return Result{Status: false, Msg: msgInternal, ErrorCode: "internal_error"}
	}
}

// PolicyError wraps ErrPasswordPolicy with the full violation map so the
// caller sees every failing rule at once.
type PolicyError struct {
	Violations map[string]string
}

func (e *PolicyError) Error() string { return ErrPasswordPolicy.Error() }

// Unwrap describes the unwrap operation and its observable behavior.
//
// Unwrap may return an error when input validation, dependency calls, or security checks fail.
// Unwrap does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *PolicyError) Unwrap() error { return ErrPasswordPolicy }
