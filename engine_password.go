package grcAuth

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/grcAuth/password"
)

// ChangePassword describes the changepassword operation and its observable behavior.
//
// ChangePassword may return an error when input validation, dependency calls, or security checks fail.
// ChangePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	if e == nil || e.directory == nil {
		return ErrEngineNotReady
	}

	acct, err := e.directory.GetAccountByID(ctx, accountID)
	if err != nil {
		return ErrDirectoryUnavailable
	}
	if acct == nil {
		return ErrAccountNotFound
	}
	if acct.SSOUser {
		return ErrSSOAccount
	}

	match, err := e.hasher.Verify(oldPassword, acct.HashedPassword)
	if err != nil {
		return err
	}
	if !match {
		e.metricInc(MetricPasswordChangeInvalidOld)
		return ErrOldPasswordMismatch
	}

	if err := e.vetNewPassword(acct, newPassword); err != nil {
		return err
	}

	if err := e.persistNewPassword(ctx, acct, newPassword, false); err != nil {
		return err
	}

	if acct.Email != "" {
		e.sendMailSoft(ctx, acct.Email, "Your password was changed",
			"Your account password was just changed. If this was not you, contact your administrator immediately.")
	}

	tier, _ := e.accountTier(ctx, acct)
	e.emitAudit(ctx, tier, acct.ID, acct.ID, auditActionUpdate, "password changed")
	e.metricInc(MetricPasswordChangeSuccess)

	return nil
}

// SetUserPassword finishes first-login onboarding: the invite link proves
// the identity, the new password goes through the same policy and history
// gates, and IsFirstLogin clears in the same write.
func (e *Engine) SetUserPassword(ctx context.Context, token, newPassword string) error {
	return e.setPasswordByLink(ctx, token, newPassword, false)
}

// SetSuperAdminPassword describes the setsuperadminpassword operation and its observable behavior.
//
// SetSuperAdminPassword may return an error when input validation, dependency calls, or security checks fail.
// SetSuperAdminPassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SetSuperAdminPassword(ctx context.Context, token, newPassword string) error {
	return e.setPasswordByLink(ctx, token, newPassword, true)
}

// PasswordComplexity surfaces the effective policy so signup and reset UIs
// can render the rules before submission. The link token form lets a not-yet
// authenticated holder of an invite or reset link ask the same question.
func (e *Engine) PasswordComplexity(ctx context.Context, linkToken string) (password.Policy, error) {
	if e == nil {
		return password.Policy{}, ErrEngineNotReady
	}

	if linkToken != "" && e.linkStore != nil {
		if _, err := e.linkStore.Consume(ctx, tenantIDFromContext(ctx), linkToken); err != nil {
			return password.Policy{}, e.mapLinkError(err)
		}
	}

	return e.effectivePolicy(), nil
}

// setPasswordByLink is the shared invite-link tail for both account
// variants. The link record stays alive until the directory write commits,
// so a failed write leaves the link usable for a retry.
func (e *Engine) setPasswordByLink(ctx context.Context, token, newPassword string, superAdmin bool) error {
	if e == nil || e.directory == nil || e.linkStore == nil {
		return ErrEngineNotReady
	}

	tenantID := tenantIDFromContext(ctx)
	record, err := e.linkStore.Consume(ctx, tenantID, token)
	if err != nil {
		return e.mapLinkError(err)
	}
	if record.Kind != LinkInvite {
		return ErrLinkNotFound
	}

	acct, err := e.lookupBoundAccount(ctx, record.BoundIdentity, superAdmin)
	if err != nil {
		return err
	}

	if err := e.vetNewPassword(acct, newPassword); err != nil {
		return err
	}

	if err := e.persistNewPassword(ctx, acct, newPassword, true); err != nil {
		return err
	}

	if _, err := e.linkStore.Delete(ctx, tenantID, token); err != nil {
		e.logWarn("consumed link cleanup failed", err)
	}
	e.metricInc(MetricLinkConsumed)

	tier, _ := e.accountTier(ctx, acct)
	e.emitAudit(ctx, tier, acct.ID, acct.ID, auditActionUpdate, "initial password set")

	return nil
}

// vetNewPassword runs the complexity policy and the reuse gates against the
// candidate. Violations come back all at once.
func (e *Engine) vetNewPassword(acct *Account, candidate string) error {
	result := password.Validate(candidate, e.effectivePolicy())
	if !result.Valid {
		e.metricInc(MetricPasswordPolicyRejected)
		return &PolicyError{Violations: result.Violations}
	}

	err := e.hasher.CheckHistory(candidate, acct.HashedPassword, acct.PrevPasswords)
	switch {
	case errors.Is(err, password.ErrSameAsCurrent):
		e.metricInc(MetricPasswordReuseRejected)
		return ErrPasswordSameAsCurrent
	case errors.Is(err, password.ErrPreviouslyUsed):
		e.metricInc(MetricPasswordReuseRejected)
		return ErrPasswordReuse
	case err != nil:
		return err
	}

	return nil
}

// persistNewPassword hashes the candidate and applies the single atomic
// write: new hash, rotated history, refreshed expiry, and (for first-login
// completion) the cleared flag.
func (e *Engine) persistNewPassword(ctx context.Context, acct *Account, candidate string, clearFirstLogin bool) error {
	hash, err := e.hasher.Hash(candidate)
	if err != nil {
		return err
	}

	update := PasswordUpdate{
		Hash:       hash,
		PassExpiry: time.Now().AddDate(0, 0, e.config.Password.ExpiryDays),
	}
	if acct.HashedPassword != "" {
		update.PrevPasswords = password.RotateHistory(acct.PrevPasswords, acct.HashedPassword, e.config.Password.HistorySize)
	} else {
		update.PrevPasswords = acct.PrevPasswords
	}
	if clearFirstLogin {
		update.IsFirstLogin = false
	} else {
		update.IsFirstLogin = acct.IsFirstLogin
	}

	if err := e.directory.UpdatePassword(ctx, acct.ID, update); err != nil {
		return ErrDirectoryUnavailable
	}

	return nil
}

// lookupBoundAccount resolves a link's bound identity: email for
// organization users, username for the super-admin variant.
func (e *Engine) lookupBoundAccount(ctx context.Context, identity string, superAdmin bool) (*Account, error) {
	var (
		acct *Account
		err  error
	)
	if superAdmin {
		acct, err = e.directory.GetAccountByUsername(ctx, tenantIDFromContext(ctx), identity)
	} else {
		acct, err = e.directory.GetAccountByEmail(ctx, tenantIDFromContext(ctx), identity)
	}
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	if acct == nil {
		return nil, ErrAccountNotFound
	}
	return acct, nil
}

func (e *Engine) mapLinkError(err error) error {
	switch {
	case errors.Is(err, errLinkExpired):
		e.metricInc(MetricLinkExpired)
		return ErrLinkExpired
	case errors.Is(err, errLinkNotFound):
		return ErrLinkNotFound
	default:
		return ErrLinkUnavailable
	}
}
