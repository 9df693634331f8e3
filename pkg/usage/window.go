package usage

import (
	"time"
)

// DefaultWaitMargin is the safety margin added to capacity waits so a
// caller waking at the computed instant lands strictly past the oldest
// event's expiry rather than racing it.
const DefaultWaitMargin = time.Second

// SlidingWindow is a rolling time-bounded accounting primitive over
// timestamped weighted events.
//
// Every recorded event carries a weight: request admissions weigh 1,
// token consumption events weigh the token count. The window only ever
// counts events younger than its horizon; older events are pruned on
// every access, so memory stays proportional to the events recorded in
// the last horizon, never to all-time volume.
//
// # Algorithm
//
//  1. Record appends (timestamp, weight) in arrival order
//  2. Prune drops every event whose age has reached the horizon
//  3. Sum prunes, then totals the surviving weights
//
// Events are kept as an ordered slice rather than fixed-granularity
// buckets because capacity waits are computed from the exact age of the
// oldest surviving event (see WaitUntilCapacity); bucketing would
// truncate that age and overshoot or undershoot the wait.
//
// # Thread Safety
//
// SlidingWindow is NOT safe for concurrent use. The usage Ledger owns
// both of its windows and serializes all access under its own mutex;
// standalone users must provide their own synchronization.
type SlidingWindow struct {
	horizon time.Duration // Events at least this old are pruned
	margin  time.Duration // Safety margin added to capacity waits
	events  []event       // Oldest first; insertion order == time order
}

// event is a single timestamped weight.
type event struct {
	at     time.Time
	weight int64
}

// NewSlidingWindow creates a sliding window with the given horizon and
// the default one-second wait margin.
//
// Example:
//
//	// Rolling minute for request admissions
//	w := NewSlidingWindow(time.Minute)
//	w.Record(1, time.Now())
func NewSlidingWindow(horizon time.Duration) *SlidingWindow {
	return &SlidingWindow{
		horizon: horizon,
		margin:  DefaultWaitMargin,
	}
}

// Record appends an event of the given weight observed at now.
// Timestamps must be non-decreasing across calls; the ledger guarantees
// this by reading its clock under the lock.
func (w *SlidingWindow) Record(weight int64, now time.Time) {
	w.events = append(w.events, event{at: now, weight: weight})
}

// Prune drops every event whose age has reached the horizon. An event
// recorded at t survives exactly while now - t < horizon; at
// now - t >= horizon it is dropped.
func (w *SlidingWindow) Prune(now time.Time) {
	cutoff := now.Add(-w.horizon)

	i := 0
	for i < len(w.events) && !w.events[i].at.After(cutoff) {
		i++
	}
	if i == 0 {
		return
	}

	// Shift survivors to the front so the backing array does not pin
	// expired entries.
	n := copy(w.events, w.events[i:])
	w.events = w.events[:n]
}

// Sum prunes, then returns the total weight recorded inside the live
// window.
func (w *SlidingWindow) Sum(now time.Time) int64 {
	w.Prune(now)
	return w.sum()
}

// Count prunes, then returns the number of events inside the live
// window. For windows whose events all weigh 1 this equals Sum.
func (w *SlidingWindow) Count(now time.Time) int {
	w.Prune(now)
	return len(w.events)
}

// WaitUntilCapacity reports how long a caller must wait before an
// additional unit of weight fits under limit.
//
// If the pruned window's total weight is below limit it returns 0
// immediately. Otherwise the wait runs until the oldest surviving event
// leaves the horizon, plus the safety margin:
//
//	horizon - (now - oldest.timestamp) + margin
//
// The result is never negative.
func (w *SlidingWindow) WaitUntilCapacity(limit int64, now time.Time) time.Duration {
	w.Prune(now)

	if len(w.events) == 0 || w.sum() < limit {
		return 0
	}

	wait := w.horizon - now.Sub(w.events[0].at) + w.margin
	if wait < 0 {
		return 0
	}
	return wait
}

// Oldest returns the timestamp of the oldest retained event, if any.
// Callers should Prune first if they need the oldest *live* event.
func (w *SlidingWindow) Oldest() (time.Time, bool) {
	if len(w.events) == 0 {
		return time.Time{}, false
	}
	return w.events[0].at, true
}

// Len returns the number of retained events without pruning.
func (w *SlidingWindow) Len() int {
	return len(w.events)
}

// Reset drops all events.
func (w *SlidingWindow) Reset() {
	w.events = w.events[:0]
}

// sum totals the retained weights without pruning.
func (w *SlidingWindow) sum() int64 {
	var total int64
	for i := range w.events {
		total += w.events[i].weight
	}
	return total
}
