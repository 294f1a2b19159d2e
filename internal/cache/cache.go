// Package cache implements the content-hash-addressed page cache used by
// the claims fetcher. Keys are derived from (provider, url); entries are
// write-once raw response bodies, so redundant concurrent writes are
// idempotent.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache is a write-once byte store keyed by content hash.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// Key derives the cache key for a provider/url pair: the first 24 hex chars
// of the sha256 of "provider:url".
func Key(provider, url string) string {
	sum := sha256.Sum256([]byte(provider + ":" + url))
	return hex.EncodeToString(sum[:])[:24]
}
