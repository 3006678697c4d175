package grcAuth

import (
	"context"
	"fmt"
	"time"
)

const resetMailSubject = "Password recovery"

// ForgotPassword describes the forgotpassword operation and its observable behavior.
//
// ForgotPassword may return an error when input validation, dependency calls, or security checks fail.
// ForgotPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ForgotPassword(ctx context.Context, email string) error {
	if e == nil || e.directory == nil || e.linkStore == nil {
		return ErrEngineNotReady
	}

	acct, err := e.directory.GetAccountByEmail(ctx, tenantIDFromContext(ctx), email)
	if err != nil {
		return ErrDirectoryUnavailable
	}
	if acct == nil {
		return ErrAccountNotFound
	}
	if acct.SSOUser {
		return ErrSSOAccount
	}

	return e.issueResetLink(ctx, acct, acct.Email)
}

// SuperAdminForgotPassword describes the superadminforgotpassword operation and its observable behavior.
//
// SuperAdminForgotPassword may return an error when input validation, dependency calls, or security checks fail.
// SuperAdminForgotPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SuperAdminForgotPassword(ctx context.Context, username string) error {
	if e == nil || e.directory == nil || e.linkStore == nil {
		return ErrEngineNotReady
	}

	acct, err := e.directory.GetAccountByUsername(ctx, tenantIDFromContext(ctx), username)
	if err != nil {
		return ErrDirectoryUnavailable
	}
	if acct == nil {
		return ErrAccountNotFound
	}

	return e.issueResetLink(ctx, acct, acct.Username)
}

// ResetPassword describes the resetpassword operation and its observable behavior.
//
// ResetPassword may return an error when input validation, dependency calls, or security checks fail.
// ResetPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ResetPassword(ctx context.Context, token, newPassword string) error {
	return e.resetPasswordByLink(ctx, token, newPassword, false)
}

// SuperAdminResetPassword describes the superadminresetpassword operation and its observable behavior.
//
// SuperAdminResetPassword may return an error when input validation, dependency calls, or security checks fail.
// SuperAdminResetPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SuperAdminResetPassword(ctx context.Context, token, newPassword string) error {
	return e.resetPasswordByLink(ctx, token, newPassword, true)
}

// VerifyResetPasswordLink probes a reset link without spending it. An
// expired record is removed on this read.
func (e *Engine) VerifyResetPasswordLink(ctx context.Context, token string) (*LinkInfo, error) {
	return e.probeLink(ctx, token, LinkReset)
}

// ValidateAccessLink probes an invite link without spending it.
func (e *Engine) ValidateAccessLink(ctx context.Context, token string) (*LinkInfo, error) {
	return e.probeLink(ctx, token, LinkInvite)
}

// issueResetLink persists a recovery token bound to the account's lookup
// identity, mails it, and writes the password_recovery audit entry. Mail
// failure is hard: a link the holder never receives only blocks a later,
// deliverable one.
func (e *Engine) issueResetLink(ctx context.Context, acct *Account, boundIdentity string) error {
	if acct.Email == "" {
		return ErrAccountNotFound
	}
	if e.mailer == nil {
		return ErrMailUnavailable
	}

	tenantID := tenantIDFromContext(ctx)
	token, expiresAt, err := e.linkStore.Issue(ctx, tenantID, LinkReset, boundIdentity, e.config.Links.ResetTTL)
	if err != nil {
		return ErrLinkUnavailable
	}

	body := fmt.Sprintf("A password recovery was requested for your account. Use token %s before %s to set a new password.",
		token, expiresAt.UTC().Format(time.RFC1123))
	if err := e.mailer.SendMail(ctx, acct.Email, resetMailSubject, body); err != nil {
		e.metricInc(MetricMailFailure)
		if _, delErr := e.linkStore.Delete(ctx, tenantID, token); delErr != nil {
			e.logWarn("undeliverable reset link cleanup failed", delErr)
		}
		return ErrMailUnavailable
	}

	e.metricInc(MetricLinkIssued)
	e.metricInc(MetricResetRequest)

	tier, _ := e.accountTier(ctx, acct)
	e.emitAudit(ctx, tier, acct.ID, acct.ID, auditActionPasswordRecovery, "password recovery requested")

	return nil
}

// resetPasswordByLink consumes a reset link and applies the new password
// through the same policy, history, and atomic-write path as a normal
// change. The link record is deleted only after the write commits.
func (e *Engine) resetPasswordByLink(ctx context.Context, token, newPassword string, superAdmin bool) error {
	if e == nil || e.directory == nil || e.linkStore == nil {
		return ErrEngineNotReady
	}

	tenantID := tenantIDFromContext(ctx)
	record, err := e.linkStore.Consume(ctx, tenantID, token)
	if err != nil {
		e.metricInc(MetricResetFailure)
		return e.mapLinkError(err)
	}
	if record.Kind != LinkReset {
		e.metricInc(MetricResetFailure)
		return ErrLinkNotFound
	}

	acct, err := e.lookupBoundAccount(ctx, record.BoundIdentity, superAdmin)
	if err != nil {
		return err
	}

	if err := e.vetNewPassword(acct, newPassword); err != nil {
		e.metricInc(MetricResetFailure)
		return err
	}

	if err := e.persistNewPassword(ctx, acct, newPassword, false); err != nil {
		return err
	}

	if _, err := e.linkStore.Delete(ctx, tenantID, token); err != nil {
		e.logWarn("consumed link cleanup failed", err)
	}
	e.metricInc(MetricLinkConsumed)
	e.metricInc(MetricResetSuccess)

	if acct.Email != "" {
		e.sendMailSoft(ctx, acct.Email, "Your password was reset",
			"Your account password was just reset. If this was not you, contact your administrator immediately.")
	}

	tier, _ := e.accountTier(ctx, acct)
	e.emitAudit(ctx, tier, acct.ID, acct.ID, auditActionUpdate, "password reset completed")

	return nil
}

func (e *Engine) probeLink(ctx context.Context, token string, kind LinkKind) (*LinkInfo, error) {
	if e == nil || e.linkStore == nil {
		return nil, ErrEngineNotReady
	}

	record, err := e.linkStore.Consume(ctx, tenantIDFromContext(ctx), token)
	if err != nil {
		return nil, e.mapLinkError(err)
	}
	if record.Kind != kind {
		return nil, ErrLinkNotFound
	}

	return &LinkInfo{
		BoundIdentity: record.BoundIdentity,
		Kind:          record.Kind,
		ExpiresAt:     time.Unix(record.ExpiresAt, 0),
	}, nil
}
