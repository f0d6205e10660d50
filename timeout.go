package termevent

import "time"

// pollTimeout tracks how much of a poll budget is left across loop
// iterations. A negative timeout never elapses.
type pollTimeout struct {
	start   time.Time
	timeout time.Duration
}

func newPollTimeout(timeout time.Duration) pollTimeout {
	return pollTimeout{start: time.Now(), timeout: timeout}
}

// elapsed reports whether the budget is used up.
func (t pollTimeout) elapsed() bool {
	if t.timeout < 0 {
		return false
	}
	return time.Since(t.start) >= t.timeout
}

// leftover returns the remaining budget, zero once elapsed, or a negative
// duration for "block indefinitely".
func (t pollTimeout) leftover() time.Duration {
	if t.timeout < 0 {
		return -1
	}
	left := t.timeout - time.Since(t.start)
	if left < 0 {
		return 0
	}
	return left
}
