package firestore

import (
	"fmt"
	"strings"
	"time"
)

// SCHEDULE_COLLECTION is the path to the schedule collection in Firestore.
const SCHEDULE_COLLECTION = "schedule"

// GameDateFormat is the layout of the text stored in the `gameDate` field.
const GameDateFormat = "01/02/2006"

// Slot names one of the four official positions on a game.
type Slot string

const (
	Referee1     Slot = "referee1"
	Referee2     Slot = "referee2"
	Linesperson1 Slot = "linesperson1"
	Linesperson2 Slot = "linesperson2"
)

// Slots lists every official slot in display order.
var Slots = []Slot{Referee1, Referee2, Linesperson1, Linesperson2}

// Valid reports whether s is one of the four known slots.
func (s Slot) Valid() bool {
	switch s {
	case Referee1, Referee2, Linesperson1, Linesperson2:
		return true
	}
	return false
}

// UnmarshalText implements the TextUnmarshaler interface
func (s *Slot) UnmarshalText(text []byte) error {
	v := Slot(strings.ToLower(string(text)))
	if !v.Valid() {
		return fmt.Errorf("unknown official slot \"%s\"", text)
	}
	*s = v
	return nil
}

// ScheduleEntry is one scheduled game.
type ScheduleEntry struct {
	// ID is the Firestore document ID. It is not stored in the document itself.
	ID string `firestore:"-" json:"id" yaml:"id"`

	// GameID is the league's human-readable game code.
	// Examples include:
	// - 12-345
	// - EX-7 (exhibition)
	GameID string `firestore:"gameID" json:"gameID" yaml:"gameID"`

	// GameDate is the calendar date of the game in MM/DD/YYYY format.
	GameDate string `firestore:"gameDate" json:"gameDate" yaml:"gameDate"`

	// GameTime is free text, usually a local start time like "7:05 PM".
	GameTime string `firestore:"gameTime" json:"gameTime" yaml:"gameTime"`

	// AwayTeam is the city of the visiting team. It matches Team.City.
	AwayTeam string `firestore:"awayTeam" json:"awayTeam" yaml:"awayTeam"`

	// HomeTeam is the city of the home team. It matches Team.City.
	HomeTeam string `firestore:"homeTeam" json:"homeTeam" yaml:"homeTeam"`

	// The official slots hold the assigned official's roster name, or the empty string if unfilled.
	Referee1     string `firestore:"referee1" json:"referee1,omitempty" yaml:"referee1,omitempty"`
	Referee2     string `firestore:"referee2" json:"referee2,omitempty" yaml:"referee2,omitempty"`
	Linesperson1 string `firestore:"linesperson1" json:"linesperson1,omitempty" yaml:"linesperson1,omitempty"`
	Linesperson2 string `firestore:"linesperson2" json:"linesperson2,omitempty" yaml:"linesperson2,omitempty"`
}

// Official returns the name assigned to slot.
func (e ScheduleEntry) Official(slot Slot) string {
	switch slot {
	case Referee1:
		return e.Referee1
	case Referee2:
		return e.Referee2
	case Linesperson1:
		return e.Linesperson1
	case Linesperson2:
		return e.Linesperson2
	}
	return ""
}

// SetOfficial assigns name to slot. Unknown slots are ignored.
func (e *ScheduleEntry) SetOfficial(slot Slot, name string) {
	switch slot {
	case Referee1:
		e.Referee1 = name
	case Referee2:
		e.Referee2 = name
	case Linesperson1:
		e.Linesperson1 = name
	case Linesperson2:
		e.Linesperson2 = name
	}
}

// Officials returns the non-empty official names on the entry in slot order.
func (e ScheduleEntry) Officials() []string {
	out := make([]string, 0, len(Slots))
	for _, s := range Slots {
		if n := e.Official(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Date parses GameDate.
func (e ScheduleEntry) Date() (time.Time, error) {
	return time.Parse(GameDateFormat, e.GameDate)
}

func (e ScheduleEntry) String() string {
	var sb strings.Builder
	sb.WriteString("ScheduleEntry\n")
	ss := make([]string, 0)
	ss = append(ss, treeString("ID", 0, false, e.ID))
	ss = append(ss, treeString("GameID", 0, false, e.GameID))
	ss = append(ss, treeString("GameDate", 0, false, e.GameDate))
	ss = append(ss, treeString("GameTime", 0, false, e.GameTime))
	ss = append(ss, treeString("AwayTeam", 0, false, e.AwayTeam))
	ss = append(ss, treeString("HomeTeam", 0, false, e.HomeTeam))
	ss = append(ss, treeStringMap("Officials", 0, true, e.slotMap()))
	sb.WriteString(strings.Join(ss, "\n"))
	return sb.String()
}

func (e ScheduleEntry) slotMap() map[string]string {
	m := make(map[string]string, len(Slots))
	for _, s := range Slots {
		m[string(s)] = e.Official(s)
	}
	return m
}
