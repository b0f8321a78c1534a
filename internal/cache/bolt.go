package cache

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/segmentio/fasthash/jody"
	bolt "go.etcd.io/bbolt"
)

var (
	blobBucket   = []byte("blobs")
	digestBucket = []byte("digests")
)

// Bolt is a Cache persisted in a single bbolt file.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens or creates the cache file at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("OpenBolt: unable to open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(blobBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(digestBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("OpenBolt: unable to create buckets: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Close releases the file lock.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Get(key string) ([]byte, bool, error) {
	var out []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(blobBucket).Get([]byte(key))
		if v != nil {
			// v is only valid for the life of the transaction
			out = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("Get %s: %w", key, err)
	}
	return out, out != nil, nil
}

// Put stores blob at key. Blobs identical to the stored one are not rewritten.
func (b *Bolt) Put(key string, blob []byte) error {
	digest := make([]byte, 8)
	binary.BigEndian.PutUint64(digest, jody.HashString64(string(blob)))
	err := b.db.Update(func(tx *bolt.Tx) error {
		digests := tx.Bucket(digestBucket)
		if old := digests.Get([]byte(key)); old != nil && string(old) == string(digest) {
			return nil
		}
		if err := tx.Bucket(blobBucket).Put([]byte(key), blob); err != nil {
			return err
		}
		return digests.Put([]byte(key), digest)
	})
	if err != nil {
		return fmt.Errorf("Put %s: %w", key, err)
	}
	return nil
}
