package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that were already processed. It backs both
// event handler deduplication and the Idempotency-Key request header.
type IdempotencyStore interface {
	// MarkProcessed records key with a TTL.
	// Returns true if the key was newly marked, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key so that a failed attempt can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// DefaultKeyTTL is how long a processed key is remembered when the caller
// does not say otherwise
const DefaultKeyTTL = 24 * time.Hour
