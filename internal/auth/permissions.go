package auth

import "github.com/spec-kit/delivery-auth/internal/domain"

// Permission helpers for use inside services, where ownership or role checks
// happen after the route guards have already run.

// HasRole reports whether role is in the required set.
func HasRole(role domain.Role, required ...domain.Role) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role carries admin privileges.
func IsAdmin(role domain.Role) bool {
	return role == domain.RoleAdmin
}

// IsOwner reports whether the user owns the resource.
func IsOwner(userID, resourceOwnerID string) bool {
	return userID == resourceOwnerID
}

// IsOwnerOrAdmin reports whether the user owns the resource or is an admin.
func IsOwnerOrAdmin(userID string, role domain.Role, resourceOwnerID string) bool {
	return IsOwner(userID, resourceOwnerID) || IsAdmin(role)
}
