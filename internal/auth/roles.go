package auth

import "storefront_backend/internal/models"

// HasRole reports whether role is one of allowed.
func HasRole(role models.UserRole, allowed ...models.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CanAccessOwned reports whether the account may read a record owned by ownerID.
func CanAccessOwned(user *models.User, ownerID string) bool {
	return user.IsAdmin() || user.ID == ownerID
}
