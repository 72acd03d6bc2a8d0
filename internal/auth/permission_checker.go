package auth

import "github.com/frahmantamala/leave-management/internal/user"

// RoleSet is a set of roles permitted to perform an operation.
type RoleSet map[user.Role]struct{}

func NewRoleSet(roles ...user.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Roles() []user.Role {
	out := make([]user.Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	return out
}

// RoleAllowed reports whether actual is one of required. An empty set allows
// nobody.
func RoleAllowed(required RoleSet, actual user.Role) bool {
	if !actual.Valid() {
		return false
	}
	_, ok := required[actual]
	return ok
}

var (
	EmployeeOnly = NewRoleSet(user.RoleEmployee)
	AdminOnly    = NewRoleSet(user.RoleAdmin)
	AnyRole      = NewRoleSet(user.RoleEmployee, user.RoleAdmin)
)
