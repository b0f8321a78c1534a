package render

import (
	"bytes"
	"testing"

	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/stretchr/testify/assert"
)

func TestOfficial(t *testing.T) {
	v := aggregate.GameView{
		ScheduleEntry: firestore.ScheduleEntry{Referee1: "Doe, Jane", Referee2: "Twin, Tom", Linesperson1: "Ghost, Casper"},
		Officials: map[firestore.Slot]*firestore.RosterMember{
			firestore.Referee1: {FirstName: "Jane", LastName: "Doe", LastFirstFullName: "Doe, Jane"},
		},
		Ambiguous: []firestore.Slot{firestore.Referee2},
	}
	tests := []struct {
		slot firestore.Slot
		want string
	}{
		{firestore.Referee1, "Jane Doe"},
		{firestore.Referee2, "Twin, Tom (?)"},
		{firestore.Linesperson1, "Ghost, Casper"},
		{firestore.Linesperson2, "-"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Official(v, tt.slot), string(tt.slot))
	}
}

func TestCrew(t *testing.T) {
	v := aggregate.GameView{
		ScheduleEntry: firestore.ScheduleEntry{Referee1: "Doe, Jane"},
		Officials: map[firestore.Slot]*firestore.RosterMember{
			firestore.Referee1: {FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", PhoneNumber: "555-0100"},
		},
	}
	var buf bytes.Buffer
	Crew(&buf, v)
	assert.Contains(t, buf.String(), "jane@example.com")
	assert.Contains(t, buf.String(), "555-0100")
	assert.Contains(t, buf.String(), string(firestore.Linesperson2))
}
