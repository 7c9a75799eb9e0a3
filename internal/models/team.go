package models

// Team is a player's allegiance in the teams/treasury variant.
type Team int

const (
	TeamUnassigned Team = iota
	TeamA
	TeamB
)

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	default:
		return "unassigned"
	}
}

// Other returns the opposite allegiance.
func (t Team) Other() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	default:
		return TeamUnassigned
	}
}

// SameTeam reports whether two players share an assigned allegiance.
// Unassigned players are never on anyone's team.
func SameTeam(a, b *Player) bool {
	if a.Team == TeamUnassigned || b.Team == TeamUnassigned {
		return false
	}
	return a.Team == b.Team
}
