package app

import "time"

// questionClock is the single-shot deadline armed for each question. Stopping
// it is best-effort: a callback that already fired still has to pass the
// session's resolved guard, which is the actual source of truth for
// exactly-once resolution.
type questionClock struct {
	timer *time.Timer
}

func armClock(d time.Duration, fn func()) *questionClock {
	return &questionClock{timer: time.AfterFunc(d, fn)}
}

// cancel is safe on nil clocks, after expiry, and when called repeatedly.
func (c *questionClock) cancel() {
	if c != nil && c.timer != nil {
		c.timer.Stop()
	}
}
