package rbac

import "strings"

const (
	RoleStudent   = "student"
	RoleCounselor = "counselor"
	RoleAdmin     = "admin"
)

// Permissions.
const (
	PermCalculate      = "aggregate:calculate"
	PermResultsSave    = "results:save"
	PermResultsViewOwn = "results:view-own"
	PermResultsViewAll = "results:view-all"
	PermResultsDelOwn  = "results:delete-own"
	PermResultsDelAny  = "results:delete-any"
	PermChangePassword = "user:change_password"
	PermUsersList      = "users:list"
	PermUsersBulk      = "users:bulk_upsert"
	PermEventsRead     = "events:read"
)

// Policy maps a role to the permission patterns it holds. A pattern is an
// exact permission, a "family:*" prefix, or "*".
type Policy map[string][]string

// DefaultPolicy is consulted by Require, RequireAny and Can.
var DefaultPolicy = Policy{
	RoleStudent: {
		PermCalculate,
		PermResultsSave,
		PermResultsViewOwn,
		PermResultsDelOwn,
		PermChangePassword,
	},
	RoleCounselor: {
		PermCalculate,
		PermResultsSave,
		"results:*",
		PermChangePassword,
		PermUsersList,
	},
	RoleAdmin: {
		"*",
	},
}

// Allows reports whether role holds perm.
func (p Policy) Allows(role, perm string) bool {
	for _, pattern := range p[role] {
		if pattern == "*" || pattern == perm {
			return true
		}
		if family, ok := strings.CutSuffix(pattern, "*"); ok && strings.HasPrefix(perm, family) {
			return true
		}
	}
	return false
}

// AllowsAny reports whether role holds at least one of perms.
func (p Policy) AllowsAny(role string, perms ...string) bool {
	for _, perm := range perms {
		if p.Allows(role, perm) {
			return true
		}
	}
	return false
}

// ValidRole reports whether role has an entry in the default policy.
func ValidRole(role string) bool {
	_, ok := DefaultPolicy[role]
	return ok
}
