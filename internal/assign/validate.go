// Package assign validates and commits changes to the officials assigned to a game.
package assign

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reallyasi9/stripes/internal/firestore"
)

var (
	// ErrMissingOfficials means a slot would be left unfilled.
	ErrMissingOfficials = errors.New("missing officials")

	// ErrDuplicateOfficial means one official would fill more than one slot.
	ErrDuplicateOfficial = errors.New("duplicate official")
)

// ValidationError describes why a change set was rejected.
// It matches ErrMissingOfficials or ErrDuplicateOfficial with errors.Is.
type ValidationError struct {
	Kind  error
	Slots []firestore.Slot
	Name  string
}

func (e *ValidationError) Error() string {
	ss := make([]string, len(e.Slots))
	for i, s := range e.Slots {
		ss[i] = string(s)
	}
	if e.Name != "" {
		return fmt.Sprintf("%s: %s assigned to %s", e.Kind, e.Name, strings.Join(ss, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(ss, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// ChangeSet holds pending slot changes. A slot present in the map is changed;
// the empty string clears it.
type ChangeSet map[firestore.Slot]string

// Propose returns a copy of cs with slot set to name. cs is not modified.
func Propose(cs ChangeSet, slot firestore.Slot, name string) ChangeSet {
	out := make(ChangeSet, len(cs)+1)
	for k, v := range cs {
		out[k] = v
	}
	out[slot] = name
	return out
}

// Apply returns entry with the changes in cs applied.
func Apply(entry firestore.ScheduleEntry, cs ChangeSet) firestore.ScheduleEntry {
	for slot, name := range cs {
		entry.SetOfficial(slot, name)
	}
	return entry
}

// Diff returns the subset of cs that differs from entry.
func Diff(entry firestore.ScheduleEntry, cs ChangeSet) ChangeSet {
	out := make(ChangeSet)
	for slot, name := range cs {
		if entry.Official(slot) != name {
			out[slot] = name
		}
	}
	return out
}

// Validate checks the entry as it would be after cs.
// Every slot must be filled, then no name may appear twice. The first failure is returned.
func Validate(entry firestore.ScheduleEntry, cs ChangeSet) error {
	for slot := range cs {
		if !slot.Valid() {
			return fmt.Errorf("Validate: unknown slot \"%s\"", slot)
		}
	}
	eff := Apply(entry, cs)

	var missing []firestore.Slot
	for _, slot := range firestore.Slots {
		if eff.Official(slot) == "" {
			missing = append(missing, slot)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Kind: ErrMissingOfficials, Slots: missing}
	}

	first := make(map[string]firestore.Slot, len(firestore.Slots))
	for _, slot := range firestore.Slots {
		name := eff.Official(slot)
		if prev, ok := first[name]; ok {
			return &ValidationError{Kind: ErrDuplicateOfficial, Slots: []firestore.Slot{prev, slot}, Name: name}
		}
		first[name] = slot
	}
	return nil
}

// checkCollision reports a DuplicateOfficial error if name already fills a slot other than slot.
func checkCollision(eff firestore.ScheduleEntry, slot firestore.Slot, name string) error {
	if name == "" {
		return nil
	}
	for _, other := range firestore.Slots {
		if other != slot && eff.Official(other) == name {
			return &ValidationError{Kind: ErrDuplicateOfficial, Slots: []firestore.Slot{other, slot}, Name: name}
		}
	}
	return nil
}
