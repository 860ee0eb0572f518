package engine

import "time"

// Clock supplies "now" to the outermost callers. Engine computations take an
// explicit as-of time instead of reading the wall clock internally; the
// clock only exists so collaborators (the HTTP layer, the validator default)
// have one injectable source.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock returns a clock pinned to one instant, for tests.
type FixedClock struct {
	FixedNow time.Time
}

func (c *FixedClock) Now() time.Time { return c.FixedNow }

func (c *FixedClock) SetNow(now time.Time) { c.FixedNow = now }
