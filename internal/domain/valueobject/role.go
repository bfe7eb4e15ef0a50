package valueobject

import "fmt"

// Role is the authorization role attached to a user account.
type Role struct {
	value string
}

const (
	roleAdmin    = "ADMIN"
	roleCustomer = "CUSTOMER"
)

var (
	RoleAdmin    = Role{value: roleAdmin}
	RoleCustomer = Role{value: roleCustomer}
)

// NewRole parses a role name.
func NewRole(s string) (Role, error) {
	switch s {
	case roleAdmin:
		return RoleAdmin, nil
	case roleCustomer:
		return RoleCustomer, nil
	default:
		return Role{}, fmt.Errorf("invalid role: %q", s)
	}
}

func (r Role) String() string { return r.value }

// IsZero returns true if the role has not been initialised.
func (r Role) IsZero() bool { return r.value == "" }

// Equal returns true when both roles carry the same value.
func (r Role) Equal(other Role) bool { return r.value == other.value }

// IsAdmin reports whether the role bypasses ownership checks.
func (r Role) IsAdmin() bool { return r.value == roleAdmin }
