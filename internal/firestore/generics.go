package firestore

import (
	"fmt"

	fs "cloud.google.com/go/firestore"
)

type document interface {
	ScheduleEntry | Team | RosterMember
}

// decodeAll converts document snapshots into typed values so long as they are all of the same type.
// Document IDs are copied into the ID field of types that carry one.
func decodeAll[T document](snaps []*fs.DocumentSnapshot) ([]T, error) {
	out := make([]T, len(snaps))
	for i, snap := range snaps {
		var val T
		if err := snap.DataTo(&val); err != nil {
			return nil, fmt.Errorf("decodeAll: unable to create type %T from doc %s: %w", val, snap.Ref.Path, err)
		}
		setID(&val, snap.Ref.ID)
		out[i] = val
	}
	return out, nil
}

func setID(v any, id string) {
	switch d := v.(type) {
	case *ScheduleEntry:
		d.ID = id
	case *RosterMember:
		d.ID = id
	}
}
