package entity

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	RoleCustom  Role = "custom"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

var roles = []Role{RoleCustom, RoleManager, RoleAdmin}

// ParseRole maps a stored or submitted value onto the enumeration.
func ParseRole(s string) (Role, error) {
	for _, r := range roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }

// Roles lists every role in declaration order.
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles)
	return out
}
