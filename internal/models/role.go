package models

// Role is an access label attached to a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleSuperUser Role = "supeUser"
)

// DefaultRoles are assigned to every newly registered user.
func DefaultRoles() []Role {
	return []Role{RoleUser}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperUser:
		return true
	}
	return false
}
