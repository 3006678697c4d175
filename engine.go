package grcAuth

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MrEthical07/grcAuth/jwt"
	"github.com/MrEthical07/grcAuth/password"
)

// Engine defines a public type used by grcAuth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config Config
	tenant *tenantConfigHolder

	otpStore  *otpStore
	linkStore *linkStore

	audit   *auditDispatcher
	metrics *Metrics

	hasher     *password.Hasher
	jwtManager *jwt.Manager

	directory  Directory
	mailer     Mailer
	permission PermissionChecker
	logger     *logrus.Logger
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters: map[MetricID]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// ReloadTenantConfig replaces the whole tenant settings snapshot. In-flight
// operations keep the snapshot they captured at entry.
func (e *Engine) ReloadTenantConfig(cfg TenantConfig) error {
	if e == nil || e.tenant == nil {
		return ErrEngineNotReady
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.tenant.replace(cfg)
	return nil
}

// TenantSnapshot describes the tenantsnapshot operation and its observable behavior.
//
// TenantSnapshot may return an error when input validation, dependency calls, or security checks fail.
// TenantSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) TenantSnapshot() *TenantConfig {
	if e == nil || e.tenant == nil {
		return nil
	}
	return e.tenant.snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) logWarn(msg string, err error) {
	if e == nil || e.logger == nil {
		return
	}
	if err != nil {
		e.logger.WithError(err).Warn(msg)
		return
	}
	e.logger.Warn(msg)
}

// effectivePolicy maps the tenant complexity override onto the policy
// engine, falling back to the hardcoded default when none is configured.
func (e *Engine) effectivePolicy() password.Policy {
	tc := e.tenant.snapshot()
	if tc == nil || tc.Complexity == nil {
		return password.DefaultPolicy()
	}

	c := tc.Complexity
	return password.Policy{
		MinLength:        c.PasswordMinLength,
		MaxLength:        c.PasswordMaxLength,
		RequireUpper:     c.IncludeUppercase,
		RequireLower:     c.IncludeLowercase,
		RequireDigit:     c.IncludeNumber,
		RequireSpecial:   c.IncludeSpecialCharacter,
		ForbidWhitespace: true,
	}
}

// issueTokens mints the session + refresh pair for an authenticated account.
func (e *Engine) issueTokens(acct *Account) (string, string, error) {
	access, err := e.jwtManager.CreateSession(acct.ID, acct.DisplayName)
	if err != nil {
		return "", "", err
	}
	refresh, err := e.jwtManager.CreateRefresh(acct.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// touchLastLogin records the login time. A failure here is logged and
// absorbed: the caller already authenticated and tokens are on their way.
func (e *Engine) touchLastLogin(ctx context.Context, accountID string) {
	if err := e.directory.UpdateLastLogin(ctx, accountID, time.Now()); err != nil {
		e.logWarn("last login update failed", err)
	}
}

// buildProfile projects the account for callers. The hash and history never
// leave the engine.
func (e *Engine) buildProfile(acct *Account, role *Role) *Profile {
	p := &Profile{
		ID:     acct.ID,
		Name:   acct.DisplayName,
		Email:  acct.Email,
		Avatar: acct.Avatar,
	}
	if role != nil {
		p.Role = role.Name
		p.Permissions = role.Permissions
	}
	return p
}

// sendMailSoft pushes a notification through the mailer, absorbing failures
// after the primary state change has committed.
func (e *Engine) sendMailSoft(ctx context.Context, to, subject, body string) {
	if e.mailer == nil {
		return
	}
	if err := e.mailer.SendMail(ctx, to, subject, body); err != nil {
		e.metricInc(MetricMailFailure)
		e.logWarn("mail delivery failed", err)
	}
}
