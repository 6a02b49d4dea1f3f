// Copyright (c) 2026 Polyglot Labs. All rights reserved.

package sec

// # Principal Roles

// Role represents the authorization level carried by a bearer token.
type Role string

const (
	// Full access including destructive operations
	RoleAdmin Role = "ADMIN"

	// Can create and update translations
	RoleEditor Role = "EDITOR"

	// Read-only access to translations and tags
	RoleViewer Role = "VIEWER"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleEditor:
		return 20
	case RoleViewer:
		return 10
	default:
		return 0
	}
}
