package game

import "time"

// TickLimiter paces the engine loop to a fixed tick rate.
type TickLimiter struct {
	rate int
	next time.Time
}

// NewTickLimiter creates a limiter for rate ticks per second. A rate of zero
// or less disables limiting.
func NewTickLimiter(rate int) *TickLimiter {
	return &TickLimiter{rate: rate}
}

// Wait blocks until the next tick is due. Uses a hybrid sleep/spin approach
// for precision at high rates.
func (f *TickLimiter) Wait() {
	if f.rate <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(f.rate)

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		// busy-wait for the final few microseconds
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// resync after a hitch instead of bursting to catch up
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
