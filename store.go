package tokensession

import "time"

// Store defines the interface for key-value storage backends.
// A Store persists raw bytes under a string key. Implementations may keep
// data in memory, in a local database file, in a cache server or in any
// other durable storage system.
type Store interface {
	// Get retrieves the data stored under key. It returns the raw data,
	// a boolean indicating whether the key was found (and not expired),
	// and an error if the lookup failed.
	Get(key string) (data []byte, found bool, err error)

	// Set stores data under key until expiresAt. A zero expiresAt means
	// the entry never expires. An existing entry is overwritten.
	Set(key string, data []byte, expiresAt time.Time) error

	// Delete removes the entry stored under key. It should not return an
	// error if the key does not exist.
	Delete(key string) error
}
