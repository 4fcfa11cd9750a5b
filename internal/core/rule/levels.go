package rule

import "strconv"

// Role-tagged escalation levels for milestone ladders. Metric ladders
// use numeric tier tags instead ("1".."9"). This is the canonical
// enumeration - presentation layers import it rather than keeping their
// own severity maps.
const (
	LevelManager  = "manager"
	LevelDirector = "director"
	LevelAdmin    = "admin"
	LevelOwner    = "owner"
)

var roleRanks = map[string]int{
	LevelManager:  1,
	LevelDirector: 2,
	LevelAdmin:    3,
	LevelOwner:    4,
}

// LevelRank maps a level tag to its severity rank. Role tags rank
// manager < director < admin < owner; numeric tags rank as their value.
// Returns false for tags that are neither.
func LevelRank(tag string) (int, bool) {
	if rank, ok := roleRanks[tag]; ok {
		return rank, true
	}
	n, err := strconv.Atoi(tag)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ValidLevelTag reports whether tag is a recognized level identifier.
func ValidLevelTag(tag string) bool {
	_, ok := LevelRank(tag)
	return ok
}
