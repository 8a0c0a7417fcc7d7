package auth

import "slices"

// Permission represents a named capability in the API.
type Permission string

// Permission constants.
const (
	PermThingsRead      Permission = "things:read"
	PermThingsManage    Permission = "things:manage"
	PermConsoleDispatch Permission = "console:dispatch"
	PermAuditRead       Permission = "audit:read"
)

// rolePermissions maps each role to its granted permissions.
var rolePermissions = map[Role][]Permission{
	RoleViewer: {
		PermThingsRead,
	},
	RoleOperator: {
		PermThingsRead,
		PermConsoleDispatch,
	},
	RoleAdmin: {
		PermThingsRead,
		PermConsoleDispatch,
		PermThingsManage,
		PermAuditRead,
	},
}

// HasPermission returns true if the given role has the specified permission.
func HasPermission(role Role, perm Permission) bool {
	return slices.Contains(rolePermissions[role], perm)
}

// PermissionsForRole returns all permissions granted to a role.
// Returns nil for unknown roles.
func PermissionsForRole(role Role) []Permission {
	return slices.Clone(rolePermissions[role])
}
