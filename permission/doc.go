// Package permission models role capabilities for audit routing and
// administrative gating.
//
// Roles resolve to a [Tier] exactly once, when the role record is loaded:
// admin-class roles land in [TierAdmin] or [TierSuperAdmin], the fixed set of
// audited business roles lands in [TierAudited], and everything else in
// [TierNone]. Callers compare tiers, never role-name strings, at decision
// time.
//
// # What this package must NOT do
//
//   - Perform I/O or look up role records (callers pass name and flags in).
//   - Import any other grcAuth package.
package permission
