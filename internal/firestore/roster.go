package firestore

import (
	"fmt"
	"strings"
)

// ROSTER_COLLECTION is the path to the roster collection in Firestore.
const ROSTER_COLLECTION = "roster"

// Role is the access level of a roster member.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Normalize returns RoleAdmin only for an exact "admin" value. Everything else is RoleUser.
func (r Role) Normalize() Role {
	if r == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// RosterMember represents an official in the datastore.
type RosterMember struct {
	// ID is the Firestore document ID. It is not stored in the document itself.
	ID string `firestore:"-" json:"id" yaml:"id"`

	// UID links the member to an authentication principal.
	UID string `firestore:"uid" json:"uid" yaml:"uid"`

	Email       string `firestore:"email" json:"email,omitempty" yaml:"email,omitempty"`
	PhoneNumber string `firestore:"phoneNumber" json:"phoneNumber,omitempty" yaml:"phoneNumber,omitempty"`
	FirstName   string `firestore:"firstName" json:"firstName" yaml:"firstName"`
	LastName    string `firestore:"lastName" json:"lastName" yaml:"lastName"`

	// LastFirstFullName is the "Last, First" name stored on the member and written into schedule slots.
	// Schedule joins match on this field exactly.
	LastFirstFullName string `firestore:"lastFirstFullName" json:"lastFirstFullName" yaml:"lastFirstFullName"`

	// RosterPhoto is a link to the member's photo.
	RosterPhoto string `firestore:"rosterPhoto" json:"rosterPhoto,omitempty" yaml:"rosterPhoto,omitempty"`

	// Role is "admin" or empty.
	Role Role `firestore:"role,omitempty" json:"role,omitempty" yaml:"role,omitempty"`
}

// FullName is the member's name in "First Last" order.
func (m RosterMember) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// MatchName is the name schedule slots use to refer to the member.
// It falls back to a "Last, First" rendering when the stored field is missing. The fallback is for
// display only: roster queries match the stored field, so it is never written into a slot.
func (m RosterMember) MatchName() string {
	if m.LastFirstFullName != "" {
		return m.LastFirstFullName
	}
	if m.LastName == "" {
		return m.FirstName
	}
	if m.FirstName == "" {
		return m.LastName
	}
	return fmt.Sprintf("%s, %s", m.LastName, m.FirstName)
}

func (m RosterMember) String() string {
	var sb strings.Builder
	sb.WriteString("RosterMember\n")
	ss := make([]string, 0)
	ss = append(ss, treeString("ID", 0, false, m.ID))
	ss = append(ss, treeString("UID", 0, false, m.UID))
	ss = append(ss, treeString("Name", 0, false, m.MatchName()))
	ss = append(ss, treeString("Email", 0, false, m.Email))
	ss = append(ss, treeString("PhoneNumber", 0, false, m.PhoneNumber))
	ss = append(ss, treeString("RosterPhoto", 0, false, m.RosterPhoto))
	ss = append(ss, treeString("Role", 0, true, string(m.Role.Normalize())))
	sb.WriteString(strings.Join(ss, "\n"))
	return sb.String()
}

// RosterByName is a type for quick lookups of roster members by match name.
// A name maps to more than one member when the roster holds duplicate names.
type RosterByName map[string][]RosterMember

// NewRosterByName indexes members by MatchName.
func NewRosterByName(members []RosterMember) RosterByName {
	byName := make(RosterByName, len(members))
	for _, m := range members {
		n := m.MatchName()
		byName[n] = append(byName[n], m)
	}
	return byName
}

// Lookup returns the unique member with the given name.
// It returns (nil, nil) when no member matches and an AmbiguousMatchError when more than one does.
func (r RosterByName) Lookup(name string) (*RosterMember, error) {
	ms := r[name]
	switch len(ms) {
	case 0:
		return nil, nil
	case 1:
		m := ms[0]
		return &m, nil
	}
	ids := make([]string, len(ms))
	for i, m := range ms {
		ids[i] = m.ID
	}
	return nil, AmbiguousMatchError{Name: name, IDs: ids}
}
