package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/bibbank/credit-module/internal/domain/valueobject"
)

// User is an API account. Customers are linked to the Customer they act for;
// admins are not linked to any.
type User struct {
	id           string
	username     string
	passwordHash string
	role         valueobject.Role
	customerID   string
}

// NewUser validates the role/customer link.
func NewUser(username, passwordHash string, role valueobject.Role, customerID string) (User, error) {
	if strings.TrimSpace(username) == "" {
		return User{}, errors.New("username is required")
	}
	if passwordHash == "" {
		return User{}, errors.New("password hash is required")
	}
	switch {
	case role.IsZero():
		return User{}, errors.New("role is required")
	case role.IsAdmin() && customerID != "":
		return User{}, errors.New("admin users cannot be linked to a customer")
	case !role.IsAdmin() && customerID == "":
		return User{}, errors.New("customer users must be linked to a customer")
	}
	return User{
		id:           uuid.New().String(),
		username:     username,
		passwordHash: passwordHash,
		role:         role,
		customerID:   customerID,
	}, nil
}

// ReconstructUser rebuilds a User from persistence.
func ReconstructUser(id, username, passwordHash string, role valueobject.Role, customerID string) User {
	return User{
		id:           id,
		username:     username,
		passwordHash: passwordHash,
		role:         role,
		customerID:   customerID,
	}
}

func (u User) ID() string             { return u.id }
func (u User) Username() string       { return u.username }
func (u User) PasswordHash() string   { return u.passwordHash }
func (u User) Role() valueobject.Role { return u.role }

// CustomerID returns the linked customer, or "" for admins.
func (u User) CustomerID() string { return u.customerID }
