package assign

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/reallyasi9/stripes/internal/aggregate"
	"github.com/reallyasi9/stripes/internal/auth"
	"github.com/reallyasi9/stripes/internal/cache"
	"github.com/reallyasi9/stripes/internal/firestore"
	"github.com/rs/zerolog"
)

// Store is what the service reads from and writes to the remote document store.
type Store interface {
	ScheduleEntry(ctx context.Context, id string) (firestore.ScheduleEntry, error)
	UpdateSchedule(ctx context.Context, id string, slots map[firestore.Slot]string) error
	RosterByUID(ctx context.Context, uid string) ([]firestore.RosterMember, error)
	UpdateRosterProfile(ctx context.Context, id string, email, phone string) error
}

// Service commits validated changes.
type Service struct {
	store Store
	cache cache.Cache
	log   zerolog.Logger
}

// NewService creates a Service.
func NewService(store Store, c cache.Cache, log zerolog.Logger) *Service {
	return &Service{store: store, cache: c, log: log}
}

// Commit validates cs against the current game and writes the slots that differ.
// A cached view of the game is checked first, so a change set it rejects makes no store calls.
// Otherwise the stored game is read back and cs is validated and diffed against it before writing.
// Nothing is written when validation fails or nothing differs.
func (s *Service) Commit(ctx context.Context, id string, cs ChangeSet) error {
	if cached, ok := s.cached(id); ok {
		if err := Validate(cached, cs); err != nil {
			return err
		}
	}
	_, err := s.commit(ctx, id, cs)
	return err
}

// CommitEntry is Commit for a caller that already holds the game being changed.
// entry is used only for the early check. The write is validated against the stored game.
func (s *Service) CommitEntry(ctx context.Context, entry firestore.ScheduleEntry, cs ChangeSet) error {
	if err := Validate(entry, cs); err != nil {
		return err
	}
	_, err := s.commit(ctx, entry.ID, cs)
	return err
}

// CommitEditor commits the editor's pending changes. On success the editor starts over
// from the stored game with nothing pending.
func (s *Service) CommitEditor(ctx context.Context, e *Editor) error {
	if err := Validate(e.entry, e.pending); err != nil {
		return err
	}
	committed, err := s.commit(ctx, e.entry.ID, e.pending)
	if err != nil {
		return err
	}
	e.entry = committed
	e.pending = make(ChangeSet)
	return nil
}

// commit reads the stored game, validates cs against it, and writes the slots that differ.
// It returns the game as stored afterwards.
func (s *Service) commit(ctx context.Context, id string, cs ChangeSet) (firestore.ScheduleEntry, error) {
	stored, err := s.store.ScheduleEntry(ctx, id)
	if err != nil {
		return stored, fmt.Errorf("Commit: %w", err)
	}
	if err := Validate(stored, cs); err != nil {
		return stored, err
	}
	committed := Apply(stored, cs)
	changed := Diff(stored, cs)
	if len(changed) == 0 {
		s.log.Debug().Str("schedule", id).Msg("no changes to commit")
	} else {
		if err := s.store.UpdateSchedule(ctx, id, changed); err != nil {
			return stored, fmt.Errorf("Commit: %w", err)
		}
		s.log.Info().Str("schedule", id).Interface("changes", changed).Msg("officials reassigned")
	}
	s.refreshCache(committed)
	return committed, nil
}

func (s *Service) cached(id string) (firestore.ScheduleEntry, bool) {
	var v aggregate.GameView
	ok, err := cache.GetJSON(s.cache, cache.GameKey(id), &v)
	if err != nil {
		s.log.Warn().Err(err).Str("schedule", id).Msg("ignoring unreadable cached game")
		return firestore.ScheduleEntry{}, false
	}
	return v.ScheduleEntry, ok && v.ID == id
}

// refreshCache brings every cached view of the game in line with entry.
// New officials are resolved from the cached roster; without one they stay nil until the next fetch.
func (s *Service) refreshCache(entry firestore.ScheduleEntry) {
	var members []firestore.RosterMember
	if _, err := cache.GetJSON(s.cache, cache.RosterKey, &members); err != nil {
		s.log.Warn().Err(err).Msg("ignoring unreadable cached roster")
	}
	byName := firestore.NewRosterByName(members)
	slots := slotsOf(entry)

	var v aggregate.GameView
	if ok, _ := cache.GetJSON(s.cache, cache.GameKey(entry.ID), &v); ok {
		v = patch(v, Diff(v.ScheduleEntry, slots), byName)
		v.ScheduleEntry = entry
		if err := cache.PutJSON(s.cache, cache.GameKey(entry.ID), v); err != nil {
			s.log.Warn().Err(err).Str("schedule", entry.ID).Msg("unable to update cached game")
		}
	}

	var all map[string]aggregate.GameView
	if ok, _ := cache.GetJSON(s.cache, cache.AdminGamesKey, &all); ok {
		if v, found := all[entry.ID]; found {
			v = patch(v, Diff(v.ScheduleEntry, slots), byName)
			v.ScheduleEntry = entry
			all[entry.ID] = v
			if err := cache.PutJSON(s.cache, cache.AdminGamesKey, all); err != nil {
				s.log.Warn().Err(err).Msg("unable to update cached admin games")
			}
		}
	}
}

// slotsOf is every slot of entry as a change set.
func slotsOf(entry firestore.ScheduleEntry) ChangeSet {
	cs := make(ChangeSet, len(firestore.Slots))
	for _, slot := range firestore.Slots {
		cs[slot] = entry.Official(slot)
	}
	return cs
}

func patch(v aggregate.GameView, changed ChangeSet, byName firestore.RosterByName) aggregate.GameView {
	v.ScheduleEntry = Apply(v.ScheduleEntry, changed)
	if v.Officials == nil {
		v.Officials = make(map[firestore.Slot]*firestore.RosterMember, len(firestore.Slots))
	}
	var ambiguous []firestore.Slot
	for _, slot := range v.Ambiguous {
		if _, ok := changed[slot]; !ok {
			ambiguous = append(ambiguous, slot)
		}
	}
	for slot, name := range changed {
		if name == "" {
			v.Officials[slot] = nil
			continue
		}
		m, err := byName.Lookup(name)
		if err != nil {
			ambiguous = append(ambiguous, slot)
		}
		v.Officials[slot] = m
	}
	v.Ambiguous = ambiguous
	return v
}

// UpdateProfile writes the principal's own email and phone number.
func (s *Service) UpdateProfile(ctx context.Context, p auth.Principal, email, phone string) error {
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("UpdateProfile: invalid email \"%s\": %w", email, err)
		}
	}
	members, err := s.store.RosterByUID(ctx, p.UID)
	if err != nil {
		return fmt.Errorf("UpdateProfile: %w", err)
	}
	if len(members) == 0 {
		return firestore.NotFoundError(fmt.Sprintf("no roster member for principal \"%s\"", p.UID))
	}
	if err := s.store.UpdateRosterProfile(ctx, members[0].ID, email, phone); err != nil {
		return fmt.Errorf("UpdateProfile: %w", err)
	}
	s.log.Info().Str("uid", p.UID).Msg("profile updated")
	return nil
}
