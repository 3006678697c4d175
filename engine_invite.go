package grcAuth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrEthical07/grcAuth/permission"
)

const inviteMailSubject = "You have been invited"

// Permission requirements gating the administrative operations.
var (
	permInviteUsers      = []string{"users.invite"}
	permManageUserStatus = []string{"users.manage_status"}
)

// InviteInput carries the account shell an administrator provisions ahead
// of the invitee's first login.
type InviteInput struct {
	Email       string
	DisplayName string
	RoleID      string
	SSOUser     bool
}

// InviteUser provisions an account shell and mails a first-login link bound
// to the invitee's email. The shell carries no credential; the link flow
// sets the first password and clears the first-login flag.
func (e *Engine) InviteUser(ctx context.Context, actorID string, input InviteInput) error {
	if e == nil || e.directory == nil || e.linkStore == nil {
		return ErrEngineNotReady
	}

	if err := e.requirePermissions(ctx, actorID, permInviteUsers); err != nil {
		return err
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		return ErrAccountNotFound
	}

	tenantID := tenantIDFromContext(ctx)

	existing, err := e.directory.GetAccountByEmail(ctx, tenantID, email)
	if err != nil {
		return ErrDirectoryUnavailable
	}
	if existing != nil {
		return ErrAccountExists
	}

	role, err := e.directory.GetRole(ctx, input.RoleID)
	if err != nil {
		return ErrDirectoryUnavailable
	}
	if role == nil {
		return ErrRoleInvalid
	}

	acct, err := e.directory.CreateAccount(ctx, CreateAccountInput{
		TenantID:     tenantID,
		Email:        email,
		DisplayName:  input.DisplayName,
		RoleID:       input.RoleID,
		IsFirstLogin: true,
		SSOUser:      input.SSOUser,
		Active:       true,
	})
	if err != nil {
		return ErrDirectoryUnavailable
	}
	e.metricInc(MetricAccountCreated)

	// SSO accounts authenticate upstream; no credential bootstrap link.
	if !input.SSOUser {
		token, expiresAt, err := e.linkStore.Issue(ctx, tenantID, LinkInvite, email, e.config.Links.InviteTTL)
		if err != nil {
			return ErrLinkUnavailable
		}
		e.metricInc(MetricLinkIssued)
		e.metricInc(MetricInviteIssued)

		body := fmt.Sprintf("You have been invited to join. Use token %s before %s to set your password.",
			token, expiresAt.UTC().Format(time.RFC1123))
		e.sendMailSoft(ctx, email, inviteMailSubject, body)
	}

	actorTier := e.actorTier(ctx, actorID)
	e.emitAudit(ctx, actorTier, actorID, acct.ID, auditActionCreate, "user invited")

	return nil
}

// SaveUserByLink completes onboarding for an invited account: the link
// proves the identity, the profile fields land, and the first password goes
// through the full policy and history gates. The link is deleted only after
// both writes commit.
func (e *Engine) SaveUserByLink(ctx context.Context, token, displayName, avatar, newPassword string) error {
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

	acct, err := e.lookupBoundAccount(ctx, record.BoundIdentity, false)
	if err != nil {
		return err
	}

	if err := e.vetNewPassword(acct, newPassword); err != nil {
		return err
	}

	if displayName != "" || avatar != "" {
		if err := e.directory.UpdateProfile(ctx, acct.ID, displayName, avatar); err != nil {
			return ErrDirectoryUnavailable
		}
	}

	if err := e.persistNewPassword(ctx, acct, newPassword, true); err != nil {
		return err
	}

	if _, err := e.linkStore.Delete(ctx, tenantID, token); err != nil {
		e.logWarn("consumed link cleanup failed", err)
	}
	e.metricInc(MetricLinkConsumed)

	tier, _ := e.accountTier(ctx, acct)
	e.emitAudit(ctx, tier, acct.ID, acct.ID, auditActionCreate, "invited user completed onboarding")

	return nil
}

// requirePermissions asks the collaborator whether the actor holds every
// named requirement. A missing checker denies administrative operations
// rather than silently allowing them.
func (e *Engine) requirePermissions(ctx context.Context, actorID string, requirements []string) error {
	if e.permission == nil {
		return ErrPermissionDenied
	}
	ok, err := e.permission.CheckRolePermissions(ctx, actorID, requirements)
	if err != nil {
		return ErrDirectoryUnavailable
	}
	if !ok {
		return ErrPermissionDenied
	}
	return nil
}

// actorTier resolves the audit tier for an administrative actor referenced
// only by id.
func (e *Engine) actorTier(ctx context.Context, actorID string) permission.Tier {
	actor, err := e.directory.GetAccountByID(ctx, actorID)
	if err != nil || actor == nil {
		e.logWarn("actor lookup failed for audit routing", err)
		return permission.TierNone
	}
	tier, _ := e.accountTier(ctx, actor)
	return tier
}
