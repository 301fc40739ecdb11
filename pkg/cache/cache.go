package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads under string keys.
//
// Implementations must be safe for concurrent use. A miss is reported as
// (nil, false, nil); errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Default time-to-live per entry kind. A zero TTL never expires.
const (
	// TTLLayout applies to computed layouts. Layouts are a pure function of
	// their input, so they only expire to bound disk usage.
	TTLLayout = 30 * 24 * time.Hour

	// TTLArtifact applies to rendered SVG, DOT, PNG and PDF output.
	TTLArtifact = 7 * 24 * time.Hour
)

// Clear drops every entry of c if the backend supports it.
// It reports false when c does not implement [Clearer].
func Clear(ctx context.Context, c Cache) (bool, error) {
	cl, ok := c.(Clearer)
	if !ok {
		return false, nil
	}
	return true, cl.Clear(ctx)
}
