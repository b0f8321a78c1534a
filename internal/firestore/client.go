package firestore

import (
	"context"
	"errors"
	"fmt"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MaxInFilter is the largest number of values Firestore accepts in one "in" filter.
const MaxInFilter = 30

// ReadObserver is told how many documents each remote read returned.
type ReadObserver interface {
	ObserveReads(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveReads(int) {}

// Client reads and writes schedule, team, and roster documents in Firestore.
type Client struct {
	fs       *fs.Client
	observer ReadObserver
}

// NewClient connects to Firestore in the given project.
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*Client, error) {
	c, err := fs.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewClient: unable to create firestore client for project %s: %w", projectID, err)
	}
	return Wrap(c), nil
}

// Wrap uses an existing Firestore client.
func Wrap(c *fs.Client) *Client {
	return &Client{fs: c, observer: nopObserver{}}
}

// SetObserver installs o as the read observer. A nil observer disables counting.
func (c *Client) SetObserver(o ReadObserver) {
	if o == nil {
		o = nopObserver{}
	}
	c.observer = o
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.fs.Close()
}

// observe records a query result. Firestore bills at least one read per query, even an empty one.
func (c *Client) observe(n int) {
	if n < 1 {
		n = 1
	}
	c.observer.ObserveReads(n)
}

func (c *Client) query(ctx context.Context, q fs.Query) ([]*fs.DocumentSnapshot, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	c.observe(len(snaps))
	return snaps, nil
}

// ScheduleByOfficial returns every schedule entry with name in the given slot.
func (c *Client) ScheduleByOfficial(ctx context.Context, slot Slot, name string) ([]ScheduleEntry, error) {
	if !slot.Valid() {
		return nil, fmt.Errorf("ScheduleByOfficial: unknown slot \"%s\"", slot)
	}
	snaps, err := c.query(ctx, c.fs.Collection(SCHEDULE_COLLECTION).Where(string(slot), "==", name))
	if err != nil {
		return nil, unavailable(fmt.Sprintf("ScheduleByOfficial %s==%s", slot, name), err)
	}
	return decodeAll[ScheduleEntry](snaps)
}

// Schedule returns the entire schedule collection.
func (c *Client) Schedule(ctx context.Context) ([]ScheduleEntry, error) {
	snaps, err := c.query(ctx, c.fs.Collection(SCHEDULE_COLLECTION).Query)
	if err != nil {
		return nil, unavailable("Schedule", err)
	}
	return decodeAll[ScheduleEntry](snaps)
}

// ScheduleEntry gets one schedule entry by document ID.
func (c *Client) ScheduleEntry(ctx context.Context, id string) (ScheduleEntry, error) {
	var e ScheduleEntry
	snap, err := c.fs.Collection(SCHEDULE_COLLECTION).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		c.observe(1)
		return e, NotFoundError(fmt.Sprintf("no schedule entry with ID \"%s\"", id))
	}
	if err != nil {
		return e, unavailable("ScheduleEntry "+id, err)
	}
	c.observe(1)
	entries, err := decodeAll[ScheduleEntry]([]*fs.DocumentSnapshot{snap})
	if err != nil {
		return e, err
	}
	return entries[0], nil
}

// TeamsByCity returns the teams whose city is one of cities.
// At most MaxInFilter cities may be given.
func (c *Client) TeamsByCity(ctx context.Context, cities []string) ([]Team, error) {
	if len(cities) == 0 {
		return nil, nil
	}
	if len(cities) > MaxInFilter {
		return nil, fmt.Errorf("TeamsByCity: %d cities exceeds the filter limit of %d", len(cities), MaxInFilter)
	}
	snaps, err := c.query(ctx, c.fs.Collection(TEAMS_COLLECTION).Where("city", "in", cities))
	if err != nil {
		return nil, unavailable("TeamsByCity", err)
	}
	return decodeAll[Team](snaps)
}

// RosterByMatchName returns the roster members whose lastFirstFullName is one of names.
// At most MaxInFilter names may be given.
func (c *Client) RosterByMatchName(ctx context.Context, names []string) ([]RosterMember, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if len(names) > MaxInFilter {
		return nil, fmt.Errorf("RosterByMatchName: %d names exceeds the filter limit of %d", len(names), MaxInFilter)
	}
	snaps, err := c.query(ctx, c.fs.Collection(ROSTER_COLLECTION).Where("lastFirstFullName", "in", names))
	if err != nil {
		return nil, unavailable("RosterByMatchName", err)
	}
	return decodeAll[RosterMember](snaps)
}

// RosterByUID returns the roster members linked to an authentication principal.
// Normally this is zero or one member.
func (c *Client) RosterByUID(ctx context.Context, uid string) ([]RosterMember, error) {
	snaps, err := c.query(ctx, c.fs.Collection(ROSTER_COLLECTION).Where("uid", "==", uid))
	if err != nil {
		return nil, unavailable("RosterByUID "+uid, err)
	}
	return decodeAll[RosterMember](snaps)
}

// Roster returns every roster member.
func (c *Client) Roster(ctx context.Context) ([]RosterMember, error) {
	snaps, err := c.query(ctx, c.fs.Collection(ROSTER_COLLECTION).Query)
	if err != nil {
		return nil, unavailable("Roster", err)
	}
	return decodeAll[RosterMember](snaps)
}

// UpdateSchedule writes only the given slots of one schedule entry.
// An empty name writes null to the slot.
func (c *Client) UpdateSchedule(ctx context.Context, id string, slots map[Slot]string) error {
	if len(slots) == 0 {
		return nil
	}
	updates := make([]fs.Update, 0, len(slots))
	for _, s := range Slots {
		name, ok := slots[s]
		if !ok {
			continue
		}
		var v interface{}
		if name != "" {
			v = name
		}
		updates = append(updates, fs.Update{Path: string(s), Value: v})
	}
	_, err := c.fs.Collection(SCHEDULE_COLLECTION).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return NotFoundError(fmt.Sprintf("no schedule entry with ID \"%s\"", id))
	}
	if err != nil {
		return unavailable("UpdateSchedule "+id, err)
	}
	return nil
}

// UpdateRosterProfile writes the contact fields of one roster member.
func (c *Client) UpdateRosterProfile(ctx context.Context, id string, email, phone string) error {
	_, err := c.fs.Collection(ROSTER_COLLECTION).Doc(id).Update(ctx, []fs.Update{
		{Path: "email", Value: email},
		{Path: "phoneNumber", Value: phone},
	})
	if status.Code(err) == codes.NotFound {
		return NotFoundError(fmt.Sprintf("no roster member with ID \"%s\"", id))
	}
	if err != nil {
		return unavailable("UpdateRosterProfile "+id, err)
	}
	return nil
}

// WatchSchedule delivers the whole schedule collection to fn every time it changes.
// It blocks until ctx is done or fn returns an error.
func (c *Client) WatchSchedule(ctx context.Context, fn func([]ScheduleEntry) error) error {
	it := c.fs.Collection(SCHEDULE_COLLECTION).Snapshots(ctx)
	defer it.Stop()
	for {
		qs, err := it.Next()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
			return context.Canceled
		}
		if err != nil {
			return unavailable("WatchSchedule", err)
		}
		snaps, err := qs.Documents.GetAll()
		if err != nil {
			return unavailable("WatchSchedule", err)
		}
		c.observe(len(qs.Changes))
		entries, err := decodeAll[ScheduleEntry](snaps)
		if err != nil {
			return err
		}
		if err := fn(entries); err != nil {
			return err
		}
	}
}
