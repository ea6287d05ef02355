package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	PermissionCardRead  = "card:read"
	PermissionCardWrite = "card:write"
	PermissionReadAdmin = "admin:read"
)

// Roles
const (
	RoleCardholder = "cardholder"
	RoleAdmin      = "admin"
)

// UserClaims identifies the caller. CardholderID is the issuing platform's
// cardholder id and scopes every card query.
type UserClaims struct {
	jwt.RegisteredClaims
	CardholderID string   `json:"cardholder_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionCardRead,
			PermissionCardWrite,
			PermissionReadAdmin,
		}
	case RoleCardholder:
		return []string{
			PermissionCardRead,
			PermissionCardWrite,
		}
	default:
		return []string{}
	}
}
