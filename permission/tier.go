package permission

// Tier defines a public type used by grcAuth APIs.
//
// Tier instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Tier uint8

const (
	// TierNone is an exported constant or variable used by the authentication engine.
	TierNone Tier = iota
	// TierAudited is an exported constant or variable used by the authentication engine.
	TierAudited
	// TierAdmin is an exported constant or variable used by the authentication engine.
	TierAdmin
	// TierSuperAdmin is an exported constant or variable used by the authentication engine.
	TierSuperAdmin
)

// Flags defines a public type used by grcAuth APIs.
//
// Flags instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Flags struct {
	View       bool
	Edit       bool
	FullAccess bool
}

// auditedRoles is the fixed set of non-admin roles whose activity is written
// to the user-authentication audit stream. Roles outside this set and below
// admin tier produce no audit entries.
var auditedRoles = map[string]struct{}{
	"GRC Manager":   {},
	"GRC Custodian": {},
	"Auditor":       {},
	"Employee":      {},
}

// Resolve maps a role record to its capability tier. Called once at role
// load; the result travels with the role so no string comparison happens on
// the request path.
func Resolve(roleName string, admin, superAdmin bool) Tier {
	switch {
	case superAdmin:
		return TierSuperAdmin
	case admin || roleName == "admin":
		return TierAdmin
	default:
		if _, ok := auditedRoles[roleName]; ok {
			return TierAudited
		}
		return TierNone
	}
}

// IsAdminTier describes the isadmintier operation and its observable behavior.
//
// IsAdminTier may return an error when input validation, dependency calls, or security checks fail.
// IsAdminTier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (t Tier) IsAdminTier() bool {
	return t == TierAdmin || t == TierSuperAdmin
}

// IsAuditedTier describes the isauditedtier operation and its observable behavior.
//
// IsAuditedTier may return an error when input validation, dependency calls, or security checks fail.
// IsAuditedTier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (t Tier) IsAuditedTier() bool {
	return t == TierAudited
}

// HasAll reports whether every requirement appears in perms with at least
// view access. FullAccess satisfies any requirement.
func HasAll(perms map[string]Flags, requirements []string) bool {
	for _, req := range requirements {
		f, ok := perms[req]
		if !ok {
			return false
		}
		if !f.View && !f.Edit && !f.FullAccess {
			return false
		}
	}
	return true
}
