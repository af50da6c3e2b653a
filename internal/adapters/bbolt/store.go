// Package bbolt implements the ports.KVStore interface using bbolt (embedded B+ tree).
// All keys live in one top-level bucket per profile, so several people (or a
// test profile) can share a database file without seeing each other's state.
// Writes are transactional: a crash mid-write cannot corrupt previously
// committed data.
package bbolt

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultProfile is the bucket used when none is given.
const DefaultProfile = "default"

// ErrLocked is returned by NewStore when another process holds the database.
var ErrLocked = errors.New("database is locked")

// Store implements ports.KVStore backed by bbolt.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// NewStore opens (or creates) a bbolt database at the given path and scopes
// all reads and writes to the given profile bucket.
func NewStore(path, profile string) (*Store, error) {
	if profile == "" {
		profile = DefaultProfile
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, fmt.Errorf("bbolt open %s: %w (%v)", path, ErrLocked, err)
		}
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db, bucket: []byte(profile)}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// Get returns the value at key. ok is false if the profile or key is absent.
func (s *Store) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		// string() copies out of the mmap; bbolt slices are only valid within tx
		if v := b.Get([]byte(key)); v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("bbolt get %q: %w", key, err)
	}
	return value, found, nil
}

// Set stores value at key, overwriting any prior value.
func (s *Store) Set(key, value string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(s.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("bbolt set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Idempotent: deleting a nonexistent key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	})
}

// Keys lists the keys stored for the profile, in byte order.
func (s *Store) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// DeleteProfile removes every key for the profile.
// Idempotent: deleting a nonexistent profile is not an error.
func (s *Store) DeleteProfile() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(s.bucket); errors.Is(err, bolt.ErrBucketNotFound) {
			return nil // idempotent
		} else {
			return err
		}
	})
}
