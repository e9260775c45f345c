// Package cache stores raw vendor feed bodies keyed by a hash of their URL.
//
// A Store only persists and returns entries; freshness is decided by the
// caller through Entry.Fresh so the same store can back different TTLs.
package cache

import (
	"crypto/sha1" //nolint:gosec // cache key only, not a security boundary
	"encoding/hex"
	"errors"
	"time"
)

// DefaultTTL is the freshness window of a cached feed.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned by Store.Get when no entry exists for a key.
var ErrNotFound = errors.New("cache entry not found")

// Entry is one cached feed body.
type Entry struct {
	Key       string
	Body      []byte
	FetchedAt time.Time
}

// Fresh reports whether the entry may still be served at now given ttl.
// An entry exactly ttl old is still fresh.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) <= ttl
}

// Store persists cache entries. Implementations must be safe for concurrent
// use; concurrent Puts to the same key resolve to the last writer and never
// leave a partially written entry behind.
type Store interface {
	Get(key string) (Entry, error)
	Put(entry Entry) error
}

// Key returns the cache key for url: the lowercase hex SHA-1 of the URL.
func Key(url string) string {
	sum := sha1.Sum([]byte(url)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:])
}
