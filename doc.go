// Package grcAuth provides the authentication and credential-lifecycle engine
// for a multi-tenant GRC platform: organization-user and super-admin login,
// email-OTP and authenticator-app MFA, invitation and password-reset links,
// password complexity and history enforcement, and audit logging of
// security-relevant events.
//
// The package is designed for concurrent server workloads: Engine methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// grcAuth is the decision core, not the transport. It exposes [Engine], [Builder],
// [Config], and value types (Result, LoginResult, MetricsSnapshot, etc.). Durable
// storage of accounts, roles, and organizations stays behind the [Directory]
// interface; outbound mail stays behind [Mailer]; HTTP framing, routing, and
// rendering are the caller's concern.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or record encodings in its public API.
//   - Return password hashes, password history, OTP codes, or TOTP secrets in any
//     Result payload.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//
// # Ephemeral state contract
//
// One-time codes and link tokens live in Redis with per-key transactional updates:
// issuing an OTP atomically supersedes the previous one, attempt counters are
// incremented race-free, and concurrent consumptions of a single-use link resolve
// to exactly one winner. Everything durable flows through [Directory].
package grcAuth
