package usage

import "time"

// Clock abstracts wall time and suspension so admission waits can be
// driven deterministically in tests. The production ledger uses the
// system clock.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep suspends the calling goroutine for d.
	Sleep(d time.Duration)
}

// systemClock is the real time.Now/time.Sleep pair.
type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }
