package memo

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// NoTimeout is the timeout sentinel for entries that never expire.
// Any timeout <= 0 behaves the same way.
const NoTimeout time.Duration = -1

// TimedEntry is one memoized result and the moment it was computed.
// Entries are replaced on recomputation, never mutated.
type TimedEntry[V any] struct {
	value     V
	createdAt time.Time
}

// NewTimedEntry captures value as computed at now.
func NewTimedEntry[V any](value V, now time.Time) TimedEntry[V] {
	return TimedEntry[V]{
		value:     value,
		createdAt: now,
	}
}

// Get returns the stored value.
func (e TimedEntry[V]) Get() V {
	return e.value
}

// CreatedAt returns the moment the value was stored.
func (e TimedEntry[V]) CreatedAt() time.Time {
	return e.createdAt
}

// Lifespan returns the window in which the entry is fresh under timeout.
// ok is false when timeout is the no-expiry sentinel.
func (e TimedEntry[V]) Lifespan(timeout time.Duration) (span timespan.TimeSpan, ok bool) {
	if timeout <= 0 {
		return span, false
	}
	return timespan.BetweenTimes(e.createdAt, e.createdAt.Add(timeout)), true
}

// IsExpired reports whether the entry is stale at now.
// An entry is stale from createdAt+timeout onwards; with timeout <= 0 it never is.
func (e TimedEntry[V]) IsExpired(timeout time.Duration, now time.Time) bool {
	span, ok := e.Lifespan(timeout)
	if !ok {
		return false
	}
	return !now.Before(span.End())
}
