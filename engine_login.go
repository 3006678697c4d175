package grcAuth

import (
	"context"
	"strings"
	"time"
)

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	tc := e.tenant.snapshot()
	if tc != nil && !tc.NormalLoginEnabled {
		e.metricInc(MetricLoginDisabled)
		return nil, ErrLoginDisabled
	}

	email = strings.TrimSpace(email)
	if email == "" || plainPassword == "" {
		e.metricInc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	acct, err := e.directory.GetAccountByEmail(ctx, tenantIDFromContext(ctx), email)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if acct == nil {
		e.metricInc(MetricLoginFailure)
		return nil, ErrAccountNotFound
	}
	if acct.SSOUser {
		return nil, ErrSSOAccount
	}
	if acct.IsFirstLogin {
		return nil, ErrFirstLoginIncomplete
	}

	match, err := e.hasher.Verify(plainPassword, acct.HashedPassword)
	if err != nil {
		return nil, err
	}
	if !match {
		e.metricInc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	if !acct.PassExpiry.IsZero() && time.Now().After(acct.PassExpiry) {
		e.metricInc(MetricPasswordExpiredLogin)
		return nil, ErrPasswordExpired
	}

	if tc != nil && tc.MFAEnabled {
		e.metricInc(MetricMFARequired)
		return e.mfaPendingResult(ctx, tc, acct), nil
	}

	return e.completeLogin(ctx, acct, auditActionLogin)
}

// SuperAdminLogin describes the superadminlogin operation and its observable behavior.
//
// SuperAdminLogin may return an error when input validation, dependency calls, or security checks fail.
// SuperAdminLogin does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SuperAdminLogin(ctx context.Context, username, plainPassword string) (*LoginResult, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	username = strings.TrimSpace(username)
	if username == "" || plainPassword == "" {
		e.metricInc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	acct, err := e.directory.GetAccountByUsername(ctx, tenantIDFromContext(ctx), username)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if acct == nil {
		e.metricInc(MetricLoginFailure)
		return nil, ErrAccountNotFound
	}
	if acct.IsFirstLogin {
		// credential bootstrap pending: the invite link flow must run first
		return nil, ErrFirstLoginIncomplete
	}

	match, err := e.hasher.Verify(plainPassword, acct.HashedPassword)
	if err != nil {
		return nil, err
	}
	if !match {
		e.metricInc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	if !acct.PassExpiry.IsZero() && time.Now().After(acct.PassExpiry) {
		e.metricInc(MetricPasswordExpiredLogin)
		return nil, ErrPasswordExpired
	}

	// Super-admin access always crosses a second factor; the tenant MFA
	// toggles only shape the organization-user flow.
	e.metricInc(MetricMFARequired)
	return &LoginResult{
		MFARequired: true,
		EmailMFA:    true,
		UID:         acct.ID,
	}, nil
}

// SSOLogin completes a session for an externally authenticated account. The
// identity provider already proved possession, so no password is checked;
// non-SSO accounts are refused to keep the two paths disjoint.
func (e *Engine) SSOLogin(ctx context.Context, email string) (*LoginResult, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	acct, err := e.directory.GetAccountByEmail(ctx, tenantIDFromContext(ctx), email)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if acct == nil {
		e.metricInc(MetricLoginFailure)
		return nil, ErrAccountNotFound
	}
	if !acct.SSOUser {
		e.metricInc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	return e.completeLogin(ctx, acct, auditActionLogin)
}

// CheckEmail describes the checkemail operation and its observable behavior.
//
// CheckEmail may return an error when input validation, dependency calls, or security checks fail.
// CheckEmail does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CheckEmail(ctx context.Context, email string) (bool, error) {
	if e == nil || e.directory == nil {
		return false, ErrEngineNotReady
	}
	acct, err := e.directory.GetAccountByEmail(ctx, tenantIDFromContext(ctx), email)
	if err != nil {
		return false, ErrDirectoryUnavailable
	}
	return acct != nil, nil
}

// CheckUsername describes the checkusername operation and its observable behavior.
//
// CheckUsername may return an error when input validation, dependency calls, or security checks fail.
// CheckUsername does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) CheckUsername(ctx context.Context, username string) (bool, error) {
	if e == nil || e.directory == nil {
		return false, ErrEngineNotReady
	}
	acct, err := e.directory.GetAccountByUsername(ctx, tenantIDFromContext(ctx), username)
	if err != nil {
		return false, ErrDirectoryUnavailable
	}
	return acct != nil, nil
}

// mfaPendingResult shapes the half-authenticated response: the caller gets
// the account id and the factor availability flags, never tokens.
func (e *Engine) mfaPendingResult(ctx context.Context, tc *TenantConfig, acct *Account) *LoginResult {
	result := &LoginResult{
		MFARequired: true,
		EmailMFA:    tc.MFAEmail,
		UID:         acct.ID,
	}

	if tc.MFAAuthenticator {
		secret, err := e.directory.GetTOTPSecret(ctx, acct.ID)
		if err != nil {
			e.logWarn("authenticator secret lookup failed", err)
		}
		result.AuthenticatorMFA = secret != "" || tc.AuthenticatorMandatory
	}

	return result
}

// completeLogin is the shared tail of every successful first- or second-
// factor path: record the login time, mint the token pair, project the
// profile, and emit the audit entry.
func (e *Engine) completeLogin(ctx context.Context, acct *Account, action string) (*LoginResult, error) {
	access, refresh, err := e.issueTokens(acct)
	if err != nil {
		return nil, err
	}

	e.touchLastLogin(ctx, acct.ID)

	tier, role := e.accountTier(ctx, acct)
	e.emitAudit(ctx, tier, acct.ID, acct.ID, action, "logged in")
	e.metricInc(MetricLoginSuccess)

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		UID:          acct.ID,
		Profile:      e.buildProfile(acct, role),
	}, nil
}
