package assign

import (
	"errors"
	"fmt"

	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/firestore"
)

// ErrUnlinkedMember means a roster member has no stored lastFirstFullName, so schedule slots cannot refer to them.
var ErrUnlinkedMember = errors.New("roster member has no schedule name")

// Editor accumulates changes to one game without writing anything.
type Editor struct {
	entry   firestore.ScheduleEntry
	pending ChangeSet
	photos  map[firestore.Slot]string
}

// NewEditor starts editing the game in v.
func NewEditor(v aggregate.GameView) *Editor {
	e := &Editor{
		entry:   v.ScheduleEntry,
		pending: make(ChangeSet),
		photos:  make(map[firestore.Slot]string, len(firestore.Slots)),
	}
	for slot, m := range v.Officials {
		if m != nil {
			e.photos[slot] = m.RosterPhoto
		}
	}
	return e
}

// Entry is the game as stored when editing began.
func (e *Editor) Entry() firestore.ScheduleEntry {
	return e.entry
}

// Effective is the game with pending changes applied.
func (e *Editor) Effective() firestore.ScheduleEntry {
	return Apply(e.entry, e.pending)
}

// Pending returns a copy of the pending changes.
func (e *Editor) Pending() ChangeSet {
	out := make(ChangeSet, len(e.pending))
	for k, v := range e.pending {
		out[k] = v
	}
	return out
}

// Photo returns the photo currently shown for slot, or "" if none.
func (e *Editor) Photo(slot firestore.Slot) string {
	return e.photos[slot]
}

// Remove clears slot and its photo.
func (e *Editor) Remove(slot firestore.Slot) {
	e.pending = Propose(e.pending, slot, "")
	delete(e.photos, slot)
}

// Select puts m in slot. It fails, changing nothing, if m has no stored schedule name
// or already fills one of the other slots.
func (e *Editor) Select(slot firestore.Slot, m firestore.RosterMember) error {
	if m.LastFirstFullName == "" {
		return fmt.Errorf("Select: %s: %w", m.ID, ErrUnlinkedMember)
	}
	name := m.LastFirstFullName
	if err := checkCollision(e.Effective(), slot, name); err != nil {
		return err
	}
	e.pending = Propose(e.pending, slot, name)
	if m.RosterPhoto != "" {
		e.photos[slot] = m.RosterPhoto
	} else {
		delete(e.photos, slot)
	}
	return nil
}

// Reset discards pending changes and restores the original photos.
func (e *Editor) Reset(v aggregate.GameView) {
	*e = *NewEditor(v)
}

// Changed reports whether any pending change differs from the stored game.
func (e *Editor) Changed() bool {
	return len(Diff(e.entry, e.pending)) > 0
}
