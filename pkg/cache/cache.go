package cache

import "time"

// Cache is the interface for caching resolved swap routes and token
// metadata between scan cycles.
type Cache interface {
	// Get retrieves a value. Returns (value, true) if found.
	Get(key string) (interface{}, bool)

	// Set stores a value with a TTL.
	Set(key string, value interface{}, ttl time.Duration) bool

	// Delete removes a value.
	Delete(key string)

	// Close releases cache resources.
	Close()
}
