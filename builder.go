package grcAuth

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/MrEthical07/grcAuth/jwt"
	"github.com/MrEthical07/grcAuth/password"
)

// Builder defines a public type used by grcAuth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	tenant TenantConfig
	redis  *redis.Client

	directory  Directory
	mailer     Mailer
	permission PermissionChecker
	auditSink  AuditSink
	logger     *logrus.Logger

	tenantSet bool
	built     bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithTenantConfig describes the withtenantconfig operation and its observable behavior.
//
// WithTenantConfig may return an error when input validation, dependency calls, or security checks fail.
// WithTenantConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTenantConfig(cfg TenantConfig) *Builder {
	b.tenant = cfg
	b.tenantSet = true
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis may return an error when input validation, dependency calls, or security checks fail.
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithDirectory describes the withdirectory operation and its observable behavior.
//
// WithDirectory may return an error when input validation, dependency calls, or security checks fail.
// WithDirectory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithDirectory(d Directory) *Builder {
	b.directory = d
	return b
}

// WithMailer describes the withmailer operation and its observable behavior.
//
// WithMailer may return an error when input validation, dependency calls, or security checks fail.
// WithMailer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMailer(m Mailer) *Builder {
	b.mailer = m
	return b
}

// WithPermissionChecker describes the withpermissionchecker operation and its observable behavior.
//
// WithPermissionChecker may return an error when input validation, dependency calls, or security checks fail.
// WithPermissionChecker does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithPermissionChecker(p PermissionChecker) *Builder {
	b.permission = p
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger may return an error when input validation, dependency calls, or security checks fail.
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(l *logrus.Logger) *Builder {
	b.logger = l
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.directory == nil {
		return nil, errors.New("directory required")
	}
	if !b.tenantSet {
		return nil, errors.New("tenant config required")
	}
	if err := b.tenant.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config: cloneConfig(cfg),
		tenant: newTenantConfigHolder(b.tenant),
	}

	engine.directory = b.directory
	engine.mailer = b.mailer
	engine.permission = b.permission
	engine.logger = b.logger

	engine.otpStore = newOTPStore(b.redis)
	engine.linkStore = newLinkStore(b.redis)
	engine.metrics = NewMetrics(cfg.Metrics)
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink, engine.metrics)

	h, err := password.NewHasher(cfg.Password.BcryptCost)
	if err != nil {
		return nil, err
	}
	engine.hasher = h

	jm, err := jwt.NewManager(jwt.Config{
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		SigningMethod: jwt.SigningMethod(cfg.Token.SigningMethod),
		PrivateKey:    cloneBytes(cfg.Token.PrivateKey),
		PublicKey:     cloneBytes(cfg.Token.PublicKey),
		Issuer:        cfg.Token.Issuer,
	})
	if err != nil {
		return nil, err
	}
	engine.jwtManager = jm

	b.built = true

	return engine, nil
}
