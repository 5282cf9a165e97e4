package domain

// Role controls which operations a user may perform.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RoleAccountant Role = "accountant"
	RoleUser       Role = "user"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleOwner, RoleManager, RoleAccountant, RoleUser}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleManager, RoleAccountant, RoleUser:
		return true
	}
	return false
}

// RoleSet is a fixed allow-list of roles.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Contains reports whether r is in the set.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Allow-lists shared by the route table.
var (
	Administrators  = NewRoleSet(RoleAdmin, RoleOwner)
	ClientViewers   = NewRoleSet(RoleAdmin, RoleOwner, RoleManager, RoleAccountant)
	TeamManagers    = NewRoleSet(RoleAdmin, RoleOwner, RoleManager)
	InvoiceManagers = NewRoleSet(RoleAdmin, RoleOwner, RoleAccountant)
)
