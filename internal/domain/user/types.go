package user

type Role string

const (
	RoleMember    Role = "MEMBER"
	RoleLibrarian Role = "LIBRARIAN"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleLibrarian, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsPrivileged reports whether the role may act on other users' loans and manage the catalog.
func (r Role) IsPrivileged() bool {
	return r == RoleLibrarian || r == RoleAdmin
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
