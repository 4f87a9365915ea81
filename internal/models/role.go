package models

// Role is a staff role with a total ordering by rank. A user with an empty
// role set is a plain member.
type Role int

const (
	RoleCoach  Role = 10
	RoleMaster Role = 50
	RoleAdmin  Role = 99
)

// AllRoles lists every staff role, lowest rank first.
var AllRoles = []Role{RoleCoach, RoleMaster, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleCoach, RoleMaster, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	switch r {
	case RoleCoach:
		return "coach"
	case RoleMaster:
		return "master"
	case RoleAdmin:
		return "admin"
	}
	return "member"
}

// HighestRank returns the highest role among roles, or 0 for a plain member.
func HighestRank(roles []Role) Role {
	var max Role
	for _, r := range roles {
		if r > max {
			max = r
		}
	}
	return max
}

// HasRole reports whether roles contains any of the wanted roles.
func HasRole(roles []Role, wanted ...Role) bool {
	for _, r := range roles {
		for _, w := range wanted {
			if r == w {
				return true
			}
		}
	}
	return false
}

// CanGrant reports whether a user with the given roles may set the target
// user's roles to newRoles. The granter's highest rank must strictly exceed
// both the target's current highest rank and every rank being granted.
func CanGrant(granter, targetCurrent, newRoles []Role) bool {
	g := HighestRank(granter)
	if g == 0 {
		return false
	}
	if HighestRank(targetCurrent) >= g {
		return false
	}
	return HighestRank(newRoles) < g
}
