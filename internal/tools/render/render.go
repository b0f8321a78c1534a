// Package render draws games and crews as terminal tables.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/reallyasi9/stripes/internal/agenda"
	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/firestore"
)

// Official is how the official in slot is shown: the roster name when matched,
// the stored name with a marker when it matched more than one member, or "-" when the slot is empty.
func Official(v aggregate.GameView, slot firestore.Slot) string {
	name := v.Official(slot)
	if name == "" {
		return "-"
	}
	for _, s := range v.Ambiguous {
		if s == slot {
			return name + " (?)"
		}
	}
	if m := v.Officials[slot]; m != nil && m.FullName() != "" {
		return m.FullName()
	}
	return name
}

func pair(v aggregate.GameView, a, b firestore.Slot) string {
	return Official(v, a) + "\n" + Official(v, b)
}

// Games writes one row per game in the order given.
func Games(w io.Writer, games []aggregate.GameView) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Date", "Time", "Game", "Away", "Home", "Referees", "Linespersons"})
	for _, g := range games {
		t.AppendRow(table.Row{
			g.ID,
			g.GameDate,
			g.GameTime,
			g.GameID,
			g.AwayTeam,
			g.HomeTeam,
			pair(g, firestore.Referee1, firestore.Referee2),
			pair(g, firestore.Linesperson1, firestore.Linesperson2),
		})
		t.AppendSeparator()
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// Calendar writes games grouped under their day.
func Calendar(w io.Writer, days []agenda.Day) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Day", "Time", "Matchup", "Referees"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	for _, d := range days {
		for _, g := range d.Games {
			t.AppendRow(table.Row{
				d.Date,
				g.GameTime,
				fmt.Sprintf("%s @ %s", g.AwayTeam, g.HomeTeam),
				pair(g, firestore.Referee1, firestore.Referee2),
			})
		}
		t.AppendSeparator()
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// Game writes the details of one game: matchup, teams, crew, and report links.
func Game(w io.Writer, v aggregate.GameView, links agenda.Links) {
	fmt.Fprintf(w, "%s @ %s\n%s %s (game %s)\n\n", v.AwayTeam, v.HomeTeam, v.GameDate, v.GameTime, v.GameID)

	teams := table.NewWriter()
	teams.SetOutputMirror(w)
	teams.AppendHeader(table.Row{"", "Away", "Home"})
	away, home := teamOrEmpty(v.AwayTeamData), teamOrEmpty(v.HomeTeamData)
	teams.AppendRows([]table.Row{
		{"Team", v.AwayTeam, v.HomeTeam},
		{"Arena", away.ArenaName, home.ArenaName},
		{"Address", away.ArenaAddress, home.ArenaAddress},
		{"Time zone", away.TimeZone, home.TimeZone},
		{"Head coach", away.HeadCoachName, home.HeadCoachName},
		{"Equipment manager", contact(away.EquipmentManagerName, away.EquipmentManagerPhone), contact(home.EquipmentManagerName, home.EquipmentManagerPhone)},
	})
	teams.SetStyle(table.StyleLight)
	teams.Render()
	fmt.Fprintln(w)

	Crew(w, v)
	fmt.Fprintln(w)

	if u, err := links.GameCenterURL(v.GameID); err == nil {
		fmt.Fprintf(w, "Game center: %s\n", u)
	}
	if u, err := links.GamesheetURL(v.GameID); err == nil {
		fmt.Fprintf(w, "Gamesheet:   %s\n", u)
	}
}

// Crew writes the four officials of a game with their contact details.
func Crew(w io.Writer, v aggregate.GameView) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Slot", "Official", "Email", "Phone"})
	for _, slot := range firestore.Slots {
		row := table.Row{string(slot), Official(v, slot), "", ""}
		if m := v.Officials[slot]; m != nil {
			row[2] = m.Email
			row[3] = m.PhoneNumber
		}
		t.AppendRow(row)
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// Links writes the external reference links.
func Links(w io.Writer, links []agenda.Link) {
	for _, l := range links {
		fmt.Fprintf(w, "%s: %s\n", l.Name, l.URL)
	}
}

// Member writes one roster record.
func Member(w io.Writer, m firestore.RosterMember, role firestore.Role) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRows([]table.Row{
		{"Name", m.FullName()},
		{"Listed as", m.MatchName()},
		{"Email", m.Email},
		{"Phone", m.PhoneNumber},
		{"Role", strings.ToUpper(string(role))},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func teamOrEmpty(t *firestore.Team) firestore.Team {
	if t == nil {
		return firestore.Team{}
	}
	return *t
}

func contact(name, phone string) string {
	if phone == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, phone)
}
