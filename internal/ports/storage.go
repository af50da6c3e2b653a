// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// KVStore is the durable key-value store the tracker persists into.
// Values are opaque text; the store does not interpret them.
//
// No transactional guarantees are assumed across keys: each Set is atomic on
// its own and the last write wins. The bbolt adapter commits every Set in its
// own transaction, so a crash mid-write cannot corrupt a previously committed
// value.
type KVStore interface {
	// Get returns the value stored at key. ok is false when the key has never
	// been written (or was deleted). err is reserved for I/O failures.
	Get(key string) (value string, ok bool, err error)

	// Set stores value at key, overwriting any prior value.
	Set(key, value string) error
}
