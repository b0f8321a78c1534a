// Package memstore keeps schedule, team, and roster documents in memory.
// It honours the same query contract as the Firestore client, including live schedule queries.
package memstore

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-memdb"
	"github.com/reallyasi9/stripes/internal/firestore"
	"gopkg.in/yaml.v3"
)

const idIndex = "id"

func slotIndex(s firestore.Slot) string {
	return "slot_" + string(s)
}

func schema() *memdb.DBSchema {
	scheduleIndexes := map[string]*memdb.IndexSchema{
		idIndex: {
			Name:    idIndex,
			Unique:  true,
			Indexer: &memdb.StringFieldIndex{Field: "ID"},
		},
	}
	for _, s := range firestore.Slots {
		scheduleIndexes[slotIndex(s)] = &memdb.IndexSchema{
			Name:         slotIndex(s),
			AllowMissing: true,
			Indexer:      &memdb.StringFieldIndex{Field: slotField(s)},
		}
	}
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			firestore.SCHEDULE_COLLECTION: {
				Name:    firestore.SCHEDULE_COLLECTION,
				Indexes: scheduleIndexes,
			},
			firestore.TEAMS_COLLECTION: {
				Name: firestore.TEAMS_COLLECTION,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {
						Name:    idIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "City"},
					},
				},
			},
			firestore.ROSTER_COLLECTION: {
				Name: firestore.ROSTER_COLLECTION,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {
						Name:    idIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"uid": {
						Name:         "uid",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "UID"},
					},
					"name": {
						Name:         "name",
						AllowMissing: true,
						Indexer:      &memdb.StringFieldIndex{Field: "LastFirstFullName"},
					},
				},
			},
		},
	}
}

func slotField(s firestore.Slot) string {
	switch s {
	case firestore.Referee1:
		return "Referee1"
	case firestore.Referee2:
		return "Referee2"
	case firestore.Linesperson1:
		return "Linesperson1"
	}
	return "Linesperson2"
}

// Fixture is a set of documents to load into a Store.
type Fixture struct {
	Schedule []firestore.ScheduleEntry `yaml:"schedule"`
	Teams    []firestore.Team          `yaml:"teams"`
	Roster   []firestore.RosterMember  `yaml:"roster"`
}

// LoadFixture reads a YAML fixture file.
func LoadFixture(path string) (Fixture, error) {
	var f Fixture
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("LoadFixture: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("LoadFixture: failed to parse %s: %w", path, err)
	}
	return f, nil
}

// Store is an in-memory document store.
type Store struct {
	db *memdb.MemDB

	mu       sync.Mutex
	observer firestore.ReadObserver
	fail     error
	writes   int
}

// New creates an empty Store.
func New() *Store {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		// the schema is static, so this only fails on a programming error
		panic(fmt.Errorf("memstore: invalid schema: %w", err))
	}
	return &Store{db: db}
}

// NewFromFixture creates a Store holding the fixture's documents.
func NewFromFixture(f Fixture) (*Store, error) {
	s := New()
	if err := s.Load(f); err != nil {
		return nil, err
	}
	return s, nil
}

// Load inserts or replaces documents. Load is not counted as a write.
func (s *Store) Load(f Fixture) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	for i := range f.Schedule {
		e := f.Schedule[i]
		if e.ID == "" {
			return fmt.Errorf("Load: schedule entry %d has no ID", i)
		}
		if err := txn.Insert(firestore.SCHEDULE_COLLECTION, &e); err != nil {
			return fmt.Errorf("Load: failed to insert schedule entry %s: %w", e.ID, err)
		}
	}
	for i := range f.Teams {
		t := f.Teams[i]
		if err := txn.Insert(firestore.TEAMS_COLLECTION, &t); err != nil {
			return fmt.Errorf("Load: failed to insert team %s: %w", t.City, err)
		}
	}
	for i := range f.Roster {
		m := f.Roster[i]
		if m.ID == "" {
			m.ID = m.UID
		}
		if m.ID == "" {
			return fmt.Errorf("Load: roster member %d has no ID", i)
		}
		if err := txn.Insert(firestore.ROSTER_COLLECTION, &m); err != nil {
			return fmt.Errorf("Load: failed to insert roster member %s: %w", m.ID, err)
		}
	}
	txn.Commit()
	return nil
}

// SetObserver installs o as the read observer.
func (s *Store) SetObserver(o firestore.ReadObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = o
}

// Fail makes every subsequent operation return err wrapped as store-unavailable. A nil err clears the failure.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Writes returns the number of successful update calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *Store) check(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return fmt.Errorf("%s: %w: %w", op, firestore.ErrStoreUnavailable, s.fail)
	}
	return nil
}

func (s *Store) observe(n int) {
	s.mu.Lock()
	o := s.observer
	s.mu.Unlock()
	if o == nil {
		return
	}
	if n < 1 {
		n = 1
	}
	o.ObserveReads(n)
}

func collect[T any](it memdb.ResultIterator) []T {
	out := make([]T, 0)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		out = append(out, *obj.(*T))
	}
	return out
}

// ScheduleByOfficial returns every schedule entry with name in the given slot.
func (s *Store) ScheduleByOfficial(ctx context.Context, slot firestore.Slot, name string) ([]firestore.ScheduleEntry, error) {
	if err := s.check("ScheduleByOfficial"); err != nil {
		return nil, err
	}
	if !slot.Valid() {
		return nil, fmt.Errorf("ScheduleByOfficial: unknown slot \"%s\"", slot)
	}
	txn := s.db.Txn(false)
	it, err := txn.Get(firestore.SCHEDULE_COLLECTION, slotIndex(slot), name)
	if err != nil {
		return nil, fmt.Errorf("ScheduleByOfficial: %w", err)
	}
	out := collect[firestore.ScheduleEntry](it)
	s.observe(len(out))
	return out, nil
}

// Schedule returns every schedule entry.
func (s *Store) Schedule(ctx context.Context) ([]firestore.ScheduleEntry, error) {
	if err := s.check("Schedule"); err != nil {
		return nil, err
	}
	out, _, err := s.schedule()
	if err != nil {
		return nil, err
	}
	s.observe(len(out))
	return out, nil
}

func (s *Store) schedule() ([]firestore.ScheduleEntry, <-chan struct{}, error) {
	txn := s.db.Txn(false)
	it, err := txn.Get(firestore.SCHEDULE_COLLECTION, idIndex)
	if err != nil {
		return nil, nil, fmt.Errorf("Schedule: %w", err)
	}
	return collect[firestore.ScheduleEntry](it), it.WatchCh(), nil
}

// ScheduleEntry gets one schedule entry by document ID.
func (s *Store) ScheduleEntry(ctx context.Context, id string) (firestore.ScheduleEntry, error) {
	var e firestore.ScheduleEntry
	if err := s.check("ScheduleEntry"); err != nil {
		return e, err
	}
	txn := s.db.Txn(false)
	obj, err := txn.First(firestore.SCHEDULE_COLLECTION, idIndex, id)
	if err != nil {
		return e, fmt.Errorf("ScheduleEntry: %w", err)
	}
	s.observe(1)
	if obj == nil {
		return e, firestore.NotFoundError(fmt.Sprintf("no schedule entry with ID \"%s\"", id))
	}
	return *obj.(*firestore.ScheduleEntry), nil
}

// TeamsByCity returns the teams whose city is one of cities.
func (s *Store) TeamsByCity(ctx context.Context, cities []string) ([]firestore.Team, error) {
	if len(cities) == 0 {
		return nil, nil
	}
	if err := s.check("TeamsByCity"); err != nil {
		return nil, err
	}
	if len(cities) > firestore.MaxInFilter {
		return nil, fmt.Errorf("TeamsByCity: %d cities exceeds the filter limit of %d", len(cities), firestore.MaxInFilter)
	}
	txn := s.db.Txn(false)
	out := make([]firestore.Team, 0, len(cities))
	for _, c := range dedup(cities) {
		obj, err := txn.First(firestore.TEAMS_COLLECTION, idIndex, c)
		if err != nil {
			return nil, fmt.Errorf("TeamsByCity: %w", err)
		}
		if obj != nil {
			out = append(out, *obj.(*firestore.Team))
		}
	}
	s.observe(len(out))
	return out, nil
}

// RosterByMatchName returns the roster members whose lastFirstFullName is one of names.
func (s *Store) RosterByMatchName(ctx context.Context, names []string) ([]firestore.RosterMember, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if err := s.check("RosterByMatchName"); err != nil {
		return nil, err
	}
	if len(names) > firestore.MaxInFilter {
		return nil, fmt.Errorf("RosterByMatchName: %d names exceeds the filter limit of %d", len(names), firestore.MaxInFilter)
	}
	txn := s.db.Txn(false)
	out := make([]firestore.RosterMember, 0, len(names))
	for _, n := range dedup(names) {
		it, err := txn.Get(firestore.ROSTER_COLLECTION, "name", n)
		if err != nil {
			return nil, fmt.Errorf("RosterByMatchName: %w", err)
		}
		out = append(out, collect[firestore.RosterMember](it)...)
	}
	s.observe(len(out))
	return out, nil
}

// RosterByUID returns the roster members linked to uid.
func (s *Store) RosterByUID(ctx context.Context, uid string) ([]firestore.RosterMember, error) {
	if err := s.check("RosterByUID"); err != nil {
		return nil, err
	}
	txn := s.db.Txn(false)
	it, err := txn.Get(firestore.ROSTER_COLLECTION, "uid", uid)
	if err != nil {
		return nil, fmt.Errorf("RosterByUID: %w", err)
	}
	out := collect[firestore.RosterMember](it)
	s.observe(len(out))
	return out, nil
}

// Roster returns every roster member.
func (s *Store) Roster(ctx context.Context) ([]firestore.RosterMember, error) {
	if err := s.check("Roster"); err != nil {
		return nil, err
	}
	txn := s.db.Txn(false)
	it, err := txn.Get(firestore.ROSTER_COLLECTION, idIndex)
	if err != nil {
		return nil, fmt.Errorf("Roster: %w", err)
	}
	out := collect[firestore.RosterMember](it)
	s.observe(len(out))
	return out, nil
}

// UpdateSchedule writes only the given slots of one schedule entry.
func (s *Store) UpdateSchedule(ctx context.Context, id string, slots map[firestore.Slot]string) error {
	if len(slots) == 0 {
		return nil
	}
	if err := s.check("UpdateSchedule"); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()
	obj, err := txn.First(firestore.SCHEDULE_COLLECTION, idIndex, id)
	if err != nil {
		return fmt.Errorf("UpdateSchedule: %w", err)
	}
	if obj == nil {
		return firestore.NotFoundError(fmt.Sprintf("no schedule entry with ID \"%s\"", id))
	}
	// objects in memdb are immutable once inserted
	e := *obj.(*firestore.ScheduleEntry)
	for slot, name := range slots {
		e.SetOfficial(slot, name)
	}
	if err := txn.Insert(firestore.SCHEDULE_COLLECTION, &e); err != nil {
		return fmt.Errorf("UpdateSchedule: %w", err)
	}
	txn.Commit()
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return nil
}

// UpdateRosterProfile writes the contact fields of one roster member.
func (s *Store) UpdateRosterProfile(ctx context.Context, id string, email, phone string) error {
	if err := s.check("UpdateRosterProfile"); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()
	obj, err := txn.First(firestore.ROSTER_COLLECTION, idIndex, id)
	if err != nil {
		return fmt.Errorf("UpdateRosterProfile: %w", err)
	}
	if obj == nil {
		return firestore.NotFoundError(fmt.Sprintf("no roster member with ID \"%s\"", id))
	}
	m := *obj.(*firestore.RosterMember)
	m.Email = email
	m.PhoneNumber = phone
	if err := txn.Insert(firestore.ROSTER_COLLECTION, &m); err != nil {
		return fmt.Errorf("UpdateRosterProfile: %w", err)
	}
	txn.Commit()
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return nil
}

// WatchSchedule delivers the whole schedule to fn now and after every change.
// It blocks until ctx is done or fn returns an error.
func (s *Store) WatchSchedule(ctx context.Context, fn func([]firestore.ScheduleEntry) error) error {
	for {
		if err := s.check("WatchSchedule"); err != nil {
			return err
		}
		entries, watch, err := s.schedule()
		if err != nil {
			return err
		}
		s.observe(len(entries))
		if err := fn(entries); err != nil {
			return err
		}
		ws := memdb.NewWatchSet()
		ws.Add(watch)
		if err := ws.WatchCtx(ctx); err != nil {
			return ctx.Err()
		}
	}
}

func dedup(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
