// Package session owns the "is logged in" marker. The browser only carries
// an opaque id in a cookie; the marker itself lives in a Store.
package session

import (
	"context"
	"time"
)

// Store records which session ids currently carry the marker.
type Store interface {
	// Put writes the marker for id, replacing any existing one.
	Put(ctx context.Context, id string, ttl time.Duration) error

	// Has reports whether the marker for id is present and unexpired.
	Has(ctx context.Context, id string) (bool, error)

	// Delete removes the marker. Deleting an absent marker is not an error.
	Delete(ctx context.Context, id string) error
}

// markerKey is the fixed storage key for a session's marker.
func markerKey(id string) string {
	return "user:" + id
}
