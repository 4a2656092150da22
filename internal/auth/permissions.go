package auth

import "errors"

// RBAC roles.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// Permissions per role.
var Permissions = map[string][]string{
	RoleAdmin: {
		"users:read",
		"users:write",
		"users:delete",
		"notifications:send",
		"payments:settings",
		"phone_registry:manage",
		"audit:read",
		"system:admin",
	},
	RoleManager: {
		"users:read",
		"notifications:send",
		"phone_registry:manage",
	},
	RoleUser: {
		"users:read:self",
		"users:write:self",
		"payments:verify",
	},
}

// HasPermission reports whether the role grants the permission.
func HasPermission(role, permission string) bool {
	permissions, exists := Permissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the claims belong to an administrator.
func IsAdmin(claims *Claims) bool {
	return claims.Role == RoleAdmin
}

// ValidateRole checks that a role value is known.
func ValidateRole(role string) error {
	switch role {
	case RoleAdmin, RoleManager, RoleUser:
		return nil
	default:
		return errors.New("invalid role")
	}
}
