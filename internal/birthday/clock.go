package birthday

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Stores use it for creation timestamps; handlers use it for "today".
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
