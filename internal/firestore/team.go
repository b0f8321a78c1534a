package firestore

import (
	"strings"
)

// TEAMS_COLLECTION is the path to the teams collection in Firestore.
const TEAMS_COLLECTION = "teams"

// Team represents a franchise in the league.
type Team struct {
	// City is the natural key of the team. Schedule entries refer to teams by city.
	// Examples include:
	// - Hershey
	// - Grand Rapids
	City string `firestore:"city" json:"city" yaml:"city"`

	// Abbreviation is a short, capitalized abbreviation of the team's name, like "HER".
	Abbreviation string `firestore:"abbreviation" json:"abbreviation" yaml:"abbreviation"`

	// Logo is a link to the team logo.
	Logo string `firestore:"logo" json:"logo,omitempty" yaml:"logo,omitempty"`

	ArenaName    string `firestore:"arenaName" json:"arenaName,omitempty" yaml:"arenaName,omitempty"`
	ArenaAddress string `firestore:"arenaAddress" json:"arenaAddress,omitempty" yaml:"arenaAddress,omitempty"`

	// TimeZone is the IANA zone of the team's arena, used to interpret GameTime.
	TimeZone string `firestore:"timeZone" json:"timeZone,omitempty" yaml:"timeZone,omitempty"`

	HeadCoachName string `firestore:"headCoachName" json:"headCoachName,omitempty" yaml:"headCoachName,omitempty"`
	HeadCoachPic  string `firestore:"headCoachPic" json:"headCoachPic,omitempty" yaml:"headCoachPic,omitempty"`

	EquipmentManagerName  string `firestore:"equipmentManagerName" json:"equipmentManagerName,omitempty" yaml:"equipmentManagerName,omitempty"`
	EquipmentManagerPhone string `firestore:"equipmentManagerPhone" json:"equipmentManagerPhone,omitempty" yaml:"equipmentManagerPhone,omitempty"`
}

func (t Team) String() string {
	var sb strings.Builder
	sb.WriteString("Team\n")
	ss := make([]string, 0)
	ss = append(ss, treeString("City", 0, false, t.City))
	ss = append(ss, treeString("Abbreviation", 0, false, t.Abbreviation))
	ss = append(ss, treeString("Logo", 0, false, t.Logo))
	ss = append(ss, treeString("ArenaName", 0, false, t.ArenaName))
	ss = append(ss, treeString("ArenaAddress", 0, false, t.ArenaAddress))
	ss = append(ss, treeString("TimeZone", 0, false, t.TimeZone))
	ss = append(ss, treeString("HeadCoachName", 0, false, t.HeadCoachName))
	ss = append(ss, treeString("EquipmentManagerName", 0, false, t.EquipmentManagerName))
	ss = append(ss, treeString("EquipmentManagerPhone", 0, true, t.EquipmentManagerPhone))
	sb.WriteString(strings.Join(ss, "\n"))
	return sb.String()
}

// TeamsByCity is a type for quick lookups of teams by city.
type TeamsByCity map[string]Team

// NewTeamsByCity indexes teams by city. Later duplicates replace earlier ones.
func NewTeamsByCity(teams []Team) TeamsByCity {
	byCity := make(TeamsByCity, len(teams))
	for _, t := range teams {
		byCity[t.City] = t
	}
	return byCity
}

// Lookup returns a pointer to a copy of the team for city, or nil if none exists.
func (m TeamsByCity) Lookup(city string) *Team {
	t, ok := m[city]
	if !ok {
		return nil
	}
	return &t
}
