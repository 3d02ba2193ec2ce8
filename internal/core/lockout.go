package core

import "time"

// Lock state is derived from the stored timestamp, never from a separate
// status column: locked iff locked_until is set and still in the future.

func lockedAt(lockedUntil *time.Time, now time.Time) bool {
	return lockedUntil != nil && now.Before(*lockedUntil)
}
