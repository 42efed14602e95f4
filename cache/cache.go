// Package cache defines the shared key-value store consumed by the CSRF
// state set, the download link set and the session records. Members of
// ordered sets carry an epoch-seconds expiry score; callers compare the
// score against the wall clock themselves rather than relying on any
// store-side TTL sweep.
package cache

import "context"

type Cache interface {
	// AddScored inserts member into an ordered set with an epoch-seconds
	// expiry score. Idempotent per member.
	AddScored(ctx context.Context, set, member string, score int64) error

	// ScoreOf returns the score of member, or false if absent.
	ScoreOf(ctx context.Context, set, member string) (int64, bool, error)

	// Remove deletes member from the set.
	Remove(ctx context.Context, set, member string) error

	// Get returns the value stored under key, or false if absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error
}
