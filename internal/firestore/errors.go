package firestore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStoreUnavailable wraps any failure talking to the remote store.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrAmbiguousMatch is matched by AmbiguousMatchError.
var ErrAmbiguousMatch = errors.New("ambiguous roster match")

// NotFoundError reports a document that does not exist.
type NotFoundError string

func (e NotFoundError) Error() string {
	return string(e)
}

// AmbiguousMatchError reports a name that matches more than one roster member.
type AmbiguousMatchError struct {
	Name string
	IDs  []string
}

func (e AmbiguousMatchError) Error() string {
	return fmt.Sprintf("name \"%s\" matches %d roster members (%s)", e.Name, len(e.IDs), strings.Join(e.IDs, ", "))
}

func (e AmbiguousMatchError) Is(target error) bool {
	return target == ErrAmbiguousMatch
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
