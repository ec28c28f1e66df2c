package heights

import "time"

// Clock derives the environment height from wall time: one block per
// interval since genesis. The counter is monotonic as long as the host
// clock is.
type Clock struct {
	genesis  time.Time
	interval time.Duration
	now      func() time.Time
}

func NewClock(genesis time.Time, interval time.Duration) *Clock {
	if interval <= 0 {
		interval = time.Second
	}
	return &Clock{genesis: genesis, interval: interval, now: time.Now}
}

func (c *Clock) Current() uint64 {
	elapsed := c.now().Sub(c.genesis)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / c.interval)
}

// Fixed is a pinned height, handy for tests and tooling.
type Fixed uint64

func (f Fixed) Current() uint64 { return uint64(f) }
