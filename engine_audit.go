package grcAuth

import (
	"context"
	"time"

	"github.com/MrEthical07/grcAuth/permission"
)

// Audit categories. Consumers split streams by ObjectType, so both values
// are part of the external contract.
const (
	auditCategoryAdmin    = "superAdmin_Admin_Activity"
	auditCategoryUserAuth = "UserAuthentication"
)

const (
	auditActionLogin            = "login"
	auditActionVerify           = "verify"
	auditActionUpdate           = "update"
	auditActionDelete           = "delete"
	auditActionCreate           = "create"
	auditActionPasswordRecovery = "password_recovery"
)

// emitAudit routes an event to the stream matching the actor's resolved
// tier. Accounts in neither the admin tier nor the audited allow-list
// produce no entry.
func (e *Engine) emitAudit(
	ctx context.Context,
	tier permission.Tier,
	actorID string,
	objectID string,
	action string,
	description string,
) {
	if e == nil || e.audit == nil {
		return
	}

	tc := e.tenant.snapshot()

	var category string
	switch {
	case tier.IsAdminTier():
		if tc != nil && !tc.LogAdminActivity {
			return
		}
		category = auditCategoryAdmin
	case tier.IsAuditedTier():
		if tc != nil && !tc.LogUserAuth {
			return
		}
		category = auditCategoryUserAuth
	default:
		return
	}

	e.audit.Emit(ctx, AuditEvent{
		Timestamp:   time.Now().UTC(),
		ObjectType:  category,
		ObjectID:    objectID,
		ActorID:     actorID,
		TenantID:    tenantIDFromContext(ctx),
		IP:          clientIPFromContext(ctx),
		Action:      action,
		Description: description,
	})
}

// accountTier resolves the actor's capability tier. A directory failure
// degrades to TierNone (no audit entry) rather than failing the caller; the
// degradation is logged and counted.
func (e *Engine) accountTier(ctx context.Context, acct *Account) (permission.Tier, *Role) {
	if acct == nil {
		return permission.TierNone, nil
	}
	if acct.Username != "" && acct.RoleID == "" {
		// super-admin variant: keyed by username, no role record
		return permission.TierSuperAdmin, nil
	}
	if acct.RoleID == "" {
		return permission.TierNone, nil
	}

	role, err := e.directory.GetRole(ctx, acct.RoleID)
	if err != nil || role == nil {
		e.metricInc(MetricAuditEmitFailure)
		e.logWarn("role lookup failed for audit routing", err)
		return permission.TierNone, nil
	}

	return role.Tier, role
}
