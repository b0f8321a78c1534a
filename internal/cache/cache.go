// Package cache stores serialized view data on the local machine so screens can paint
// before fresh data arrives from Firestore.
package cache

import (
	"encoding/json"
	"fmt"
)

// Well-known keys.
const (
	RosterKey     = "roster"
	AdminGamesKey = "adminGames"
	ReadCountKey  = "firestoreReadCount"
)

// GameKey is the key of one cached game.
func GameKey(scheduleID string) string {
	return "game_" + scheduleID
}

// GamesKey is the key of the cached game list of one official.
func GamesKey(name string) string {
	return "games_" + name
}

// Cache is a string-keyed blob store. A missing key is not an error.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, blob []byte) error
}

// GetJSON decodes the blob at key into v. It reports false if the key is missing.
func GetJSON(c Cache, key string, v any) (bool, error) {
	blob, ok, err := c.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(blob, v); err != nil {
		return false, fmt.Errorf("GetJSON: unable to decode %s: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes v and stores it at key.
func PutJSON(c Cache, key string, v any) error {
	blob, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("PutJSON: unable to encode %s: %w", key, err)
	}
	return c.Put(key, blob)
}
