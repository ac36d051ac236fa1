package domain

// Role is the hidden allegiance assigned to a player when the game starts.
// Role is private information: snapshots only reveal it to its owner.
type Role string

const (
	// RoleSheriff leads the guild; always seated first, always exactly one.
	RoleSheriff Role = "sheriff"
	// RoleDeputy wins with the sheriff.
	RoleDeputy Role = "deputy"
	// RoleOutlaw wins when the sheriff dies.
	RoleOutlaw Role = "outlaw"
	// RoleRenegade wins by surviving to a heads-up against the sheriff.
	RoleRenegade Role = "renegade"
)

// roleLabels carries the localized display names. Internal logic compares
// the symbolic Role values only, never these strings.
var roleLabels = map[Role]string{
	RoleSheriff:  "상단주",
	RoleDeputy:   "원로원",
	RoleOutlaw:   "적도 세력",
	RoleRenegade: "야망가",
}

// Label returns the localized display name for the role.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// StartingWealth returns the starting (and maximum) wealth for the role.
func (r Role) StartingWealth() int {
	switch r {
	case RoleSheriff:
		return 5
	case RoleDeputy:
		return 4
	case RoleOutlaw:
		return 3
	case RoleRenegade:
		return 4
	default:
		return 4
	}
}

// RolesForPlayerCount returns the role multiset for the given headcount,
// sheriff first. Headcounts outside 4..7 fall back to the 4-player base
// set padded with outlaws.
func RolesForPlayerCount(count int) []Role {
	switch count {
	case 4:
		return []Role{RoleSheriff, RoleDeputy, RoleOutlaw, RoleRenegade}
	case 5:
		return []Role{RoleSheriff, RoleDeputy, RoleOutlaw, RoleOutlaw, RoleRenegade}
	case 6:
		return []Role{RoleSheriff, RoleDeputy, RoleDeputy, RoleOutlaw, RoleOutlaw, RoleRenegade}
	case 7:
		return []Role{RoleSheriff, RoleDeputy, RoleDeputy, RoleOutlaw, RoleOutlaw, RoleOutlaw, RoleRenegade}
	default:
		roles := []Role{RoleSheriff, RoleDeputy, RoleOutlaw, RoleRenegade}
		for len(roles) < count {
			roles = append(roles, RoleOutlaw)
		}
		return roles[:count]
	}
}
