package grcAuth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const otpMailSubject = "Your verification code"

// SendEmailOTP describes the sendemailotp operation and its observable behavior.
//
// SendEmailOTP may return an error when input validation, dependency calls, or security checks fail.
// SendEmailOTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SendEmailOTP(ctx context.Context, email string) (*OTPDelivery, error) {
	if e == nil || e.directory == nil || e.otpStore == nil {
		return nil, ErrEngineNotReady
	}

	acct, err := e.directory.GetAccountByEmail(ctx, tenantIDFromContext(ctx), email)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}

	return e.issueEmailOTP(ctx, acct)
}

// VerifyEmailMFA describes the verifyemailmfa operation and its observable behavior.
//
// VerifyEmailMFA may return an error when input validation, dependency calls, or security checks fail.
// VerifyEmailMFA does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) VerifyEmailMFA(ctx context.Context, email, code string) (*LoginResult, error) {
	if e == nil || e.directory == nil || e.otpStore == nil {
		return nil, ErrEngineNotReady
	}

	acct, err := e.directory.GetAccountByEmail(ctx, tenantIDFromContext(ctx), email)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}

	if err := e.secondFactorGate(acct); err != nil {
		return nil, err
	}

	if err := e.verifyOTP(ctx, acct.ID, code, e.config.OTP.UserMaxTries); err != nil {
		return nil, err
	}

	return e.completeLogin(ctx, acct, auditActionVerify)
}

// SendSuperAdminOTP describes the sendsuperadminotp operation and its observable behavior.
//
// SendSuperAdminOTP may return an error when input validation, dependency calls, or security checks fail.
// SendSuperAdminOTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SendSuperAdminOTP(ctx context.Context, username string) (*OTPDelivery, error) {
	if e == nil || e.directory == nil || e.otpStore == nil {
		return nil, ErrEngineNotReady
	}

	acct, err := e.directory.GetAccountByUsername(ctx, tenantIDFromContext(ctx), username)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}

	return e.issueEmailOTP(ctx, acct)
}

// VerifySuperAdminOTP describes the verifysuperadminotp operation and its observable behavior.
//
// VerifySuperAdminOTP may return an error when input validation, dependency calls, or security checks fail.
// VerifySuperAdminOTP does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) VerifySuperAdminOTP(ctx context.Context, username, code string) (*LoginResult, error) {
	if e == nil || e.directory == nil || e.otpStore == nil {
		return nil, ErrEngineNotReady
	}

	acct, err := e.directory.GetAccountByUsername(ctx, tenantIDFromContext(ctx), username)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}

	if err := e.secondFactorGate(acct); err != nil {
		return nil, err
	}

	if err := e.verifyOTP(ctx, acct.ID, code, e.config.OTP.SuperAdminMaxTries); err != nil {
		return nil, err
	}

	return e.completeLogin(ctx, acct, auditActionVerify)
}

// SetupAuthenticator provisions the account's authenticator-app factor:
// fresh shared secret, otpauth:// URI carrying the organization name, and a
// rendered QR code. An already-enrolled account is refused unless rotate is
// set, so a stray setup call cannot silently invalidate the active secret.
func (e *Engine) SetupAuthenticator(ctx context.Context, email string, rotate bool) (*AuthenticatorSetup, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	acct, err := e.directory.GetAccountByEmail(ctx, tenantIDFromContext(ctx), email)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}

	existing, err := e.directory.GetTOTPSecret(ctx, acct.ID)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if existing != "" && !rotate {
		return nil, ErrTOTPAlreadyConfigured
	}

	issuer := "grcAuth"
	if tc := e.tenant.snapshot(); tc != nil && tc.OrgName != "" {
		issuer = tc.OrgName
	}

	setup, err := buildAuthenticatorSetup(issuer, acct.Email)
	if err != nil {
		return nil, err
	}

	if err := e.directory.SaveTOTPSecret(ctx, acct.ID, setup.SecretBase32); err != nil {
		return nil, ErrDirectoryUnavailable
	}

	e.metricInc(MetricTOTPSetup)

	tier, _ := e.accountTier(ctx, acct)
	e.emitAudit(ctx, tier, acct.ID, acct.ID, auditActionUpdate, "authenticator enrolled")

	return setup, nil
}

// VerifyAuthenticator describes the verifyauthenticator operation and its observable behavior.
//
// VerifyAuthenticator may return an error when input validation, dependency calls, or security checks fail.
// VerifyAuthenticator does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) VerifyAuthenticator(ctx context.Context, email, code string) (*LoginResult, error) {
	if e == nil || e.directory == nil {
		return nil, ErrEngineNotReady
	}

	acct, err := e.directory.GetAccountByEmail(ctx, tenantIDFromContext(ctx), email)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}

	if err := e.secondFactorGate(acct); err != nil {
		return nil, err
	}

	secret, err := e.directory.GetTOTPSecret(ctx, acct.ID)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if secret == "" {
		return nil, ErrTOTPNotConfigured
	}

	if !validateAuthenticatorCode(code, secret) {
		e.metricInc(MetricTOTPFailure)
		return nil, ErrTOTPInvalid
	}

	e.metricInc(MetricTOTPSuccess)
	return e.completeLogin(ctx, acct, auditActionVerify)
}

// issueEmailOTP generates, stores, and mails a fresh code. Storage commits
// before the mail goes out, and a mail failure is hard here: an undeliverable
// code would only burn the challenge.
func (e *Engine) issueEmailOTP(ctx context.Context, acct *Account) (*OTPDelivery, error) {
	if acct.Email == "" {
		return nil, ErrAccountNotFound
	}
	if e.mailer == nil {
		return nil, ErrMailUnavailable
	}

	code, err := generateNumericCode(e.config.OTP.Digits)
	if err != nil {
		return nil, err
	}

	if err := e.otpStore.Issue(ctx, tenantIDFromContext(ctx), acct.ID, code, e.config.OTP.TTL); err != nil {
		return nil, ErrOTPUnavailable
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
		code, int(e.config.OTP.TTL.Minutes()))
	if err := e.mailer.SendMail(ctx, acct.Email, otpMailSubject, body); err != nil {
		e.metricInc(MetricMailFailure)
		return nil, ErrMailUnavailable
	}

	e.metricInc(MetricOTPIssued)

	return &OTPDelivery{
		MaskedEmail: maskEmail(acct.Email),
	}, nil
}

// secondFactorGate re-applies the credential-lifecycle checks at factor
// completion. The send/verify endpoints are reachable without a prior
// password check, so an expired or un-bootstrapped credential must be
// refused here as well, not just in Login.
func (e *Engine) secondFactorGate(acct *Account) error {
	if acct.IsFirstLogin {
		return ErrFirstLoginIncomplete
	}
	if !acct.PassExpiry.IsZero() && time.Now().After(acct.PassExpiry) {
		e.metricInc(MetricPasswordExpiredLogin)
		return ErrPasswordExpired
	}
	return nil
}

// verifyOTP maps the store's internal outcomes onto the public sentinels and
// keeps the counters honest.
func (e *Engine) verifyOTP(ctx context.Context, ownerID, code string, maxTries int) error {
	_, err := e.otpStore.Verify(ctx, tenantIDFromContext(ctx), ownerID, code, maxTries)
	switch {
	case err == nil:
		e.metricInc(MetricOTPVerified)
		return nil
	case errors.Is(err, errOTPMismatch):
		e.metricInc(MetricOTPMismatch)
		return ErrInvalidOTP
	case errors.Is(err, errOTPAttemptsExceeded):
		e.metricInc(MetricOTPAttemptsExceeded)
		return ErrOTPAttemptsExceeded
	case errors.Is(err, errOTPNotFound):
		return ErrOTPNotFound
	default:
		return ErrOTPUnavailable
	}
}
