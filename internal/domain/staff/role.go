package staff

import "errors"

var ErrInvalidRole = errors.New("invalid role")

// Role of a staff member using the administrative surfaces. Gym members
// booking a session are identified by employee id and carry no role.
type Role string

const (
	RoleViewer   Role = "viewer"
	RoleApprover Role = "approver"
	RoleAdmin    Role = "admin"
)

var roleRank = map[Role]int{
	RoleViewer:   1,
	RoleApprover: 2,
	RoleAdmin:    3,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r grants everything min grants.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleRank[r]
	want, okMin := roleRank[min]
	return ok && okMin && have >= want
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
