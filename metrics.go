package grcAuth

import "sync/atomic"

// MetricID defines a public type used by grcAuth APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricLoginSuccess is an exported constant or variable used by the authentication engine.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported constant or variable used by the authentication engine.
	MetricLoginFailure
	// MetricLoginDisabled is an exported constant or variable used by the authentication engine.
	MetricLoginDisabled
	// MetricPasswordExpiredLogin is an exported constant or variable used by the authentication engine.
	MetricPasswordExpiredLogin
	// MetricMFARequired is an exported constant or variable used by the authentication engine.
	MetricMFARequired
	// MetricOTPIssued is an exported constant or variable used by the authentication engine.
	MetricOTPIssued
	// MetricOTPVerified is an exported constant or variable used by the authentication engine.
	MetricOTPVerified
	// MetricOTPMismatch is an exported constant or variable used by the authentication engine.
	MetricOTPMismatch
	// MetricOTPAttemptsExceeded is an exported constant or variable used by the authentication engine.
	MetricOTPAttemptsExceeded
	// MetricTOTPSetup is an exported constant or variable used by the authentication engine.
	MetricTOTPSetup
	// MetricTOTPSuccess is an exported constant or variable used by the authentication engine.
	MetricTOTPSuccess
	// MetricTOTPFailure is an exported constant or variable used by the authentication engine.
	MetricTOTPFailure
	// MetricRefreshSuccess is an exported constant or variable used by the authentication engine.
	MetricRefreshSuccess
	// MetricRefreshFailure is an exported constant or variable used by the authentication engine.
	MetricRefreshFailure
	// MetricPasswordChangeSuccess is an exported constant or variable used by the authentication engine.
	MetricPasswordChangeSuccess
	// MetricPasswordChangeInvalidOld is an exported constant or variable used by the authentication engine.
	MetricPasswordChangeInvalidOld
	// MetricPasswordPolicyRejected is an exported constant or variable used by the authentication engine.
	MetricPasswordPolicyRejected
	// MetricPasswordReuseRejected is an exported constant or variable used by the authentication engine.
	MetricPasswordReuseRejected
	// MetricResetRequest is an exported constant or variable used by the authentication engine.
	MetricResetRequest
	// MetricResetSuccess is an exported constant or variable used by the authentication engine.
	MetricResetSuccess
	// MetricResetFailure is an exported constant or variable used by the authentication engine.
	MetricResetFailure
	// MetricLinkIssued is an exported constant or variable used by the authentication engine.
	MetricLinkIssued
	// MetricLinkConsumed is an exported constant or variable used by the authentication engine.
	MetricLinkConsumed
	// MetricLinkExpired is an exported constant or variable used by the authentication engine.
	MetricLinkExpired
	// MetricInviteIssued is an exported constant or variable used by the authentication engine.
	MetricInviteIssued
	// MetricAccountCreated is an exported constant or variable used by the authentication engine.
	MetricAccountCreated
	// MetricAccountStatusChanged is an exported constant or variable used by the authentication engine.
	MetricAccountStatusChanged
	// MetricAuditEmitFailure is an exported constant or variable used by the authentication engine.
	MetricAuditEmitFailure
	// MetricMailFailure is an exported constant or variable used by the authentication engine.
	MetricMailFailure
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics defines a public type used by grcAuth APIs.
//
// Metrics instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot defines a public type used by grcAuth APIs.
//
// MetricsSnapshot instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics may return an error when input validation, dependency calls, or security checks fail.
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
	}
}

// Enabled describes the enabled operation and its observable behavior.
//
// Enabled may return an error when input validation, dependency calls, or security checks fail.
// Enabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc describes the inc operation and its observable behavior.
//
// Inc may return an error when input validation, dependency calls, or security checks fail.
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value describes the value operation and its observable behavior.
//
// Value may return an error when input validation, dependency calls, or security checks fail.
// Value does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot may return an error when input validation, dependency calls, or security checks fail.
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters: map[MetricID]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, int(metricIDCount)),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	return s
}
