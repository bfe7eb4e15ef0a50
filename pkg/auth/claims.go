package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload issued to credit API callers. The registered
// Subject carries the username.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

// Username returns the authenticated username.
func (c Claims) Username() string {
	return c.Subject
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Role constants
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)
