package clock

import "time"

// Clock supplies the current time to anything that needs to reason about
// due dates or overdue windows. Implementations must be monotonically
// non-decreasing.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
