package usage

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

// Ledger is the process-wide usage ledger and rate limiter for the
// external generative endpoint. It enforces two independent rolling
// budgets (requests per minute, tokens per minute), attributes
// consumption to components, estimates spend, and periodically hands a
// snapshot of its statistics to a persister.
//
// Exactly one Ledger is constructed per process and injected into every
// caller; tests build isolated instances instead of sharing a global.
// The admission protocol is:
//
//	ledger.Admit()                         // may block
//	resp, err := callGenerativeEndpoint()
//	ledger.Record(component, in, out, err == nil)
//
// # Thread Safety
//
// All windows, totals and per-component counters live behind one mutex.
// Contention is acceptable because the call volume is bounded by the
// very limits being enforced. Under the default hold-lock wait policy a
// thread waiting out the request budget keeps the mutex, serializing
// every other ledger call for the wait duration; see WaitPolicy for the
// alternative.
type Ledger struct {
	mu sync.Mutex

	clock  Clock
	logger *slog.Logger

	requests *SlidingWindow
	tokens   *SlidingWindow

	rpmLimit     int64
	softTPMLimit int64

	totalRequests     uint64
	totalTokens       uint64
	totalInputTokens  uint64
	totalOutputTokens uint64

	registry   map[Component]struct{}
	components map[Component]*ComponentStats

	costs         CostModel
	snapshotEvery uint64
	persister     Persister
	waitPolicy    WaitPolicy
	metrics       *Metrics
}

// NewLedger constructs a ledger from cfg. Zero-valued fields take their
// defaults; invalid fields make construction fail with an error
// wrapping ErrInvalidConfig. This is the ledger's only fatal path.
func NewLedger(cfg Config) (*Ledger, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	registry := make(map[Component]struct{}, len(cfg.Components))
	for _, c := range cfg.Components {
		registry[c] = struct{}{}
	}

	l := &Ledger{
		clock:        cfg.Clock,
		logger:       cfg.Logger.With("component", "usage.ledger"),
		requests:     NewSlidingWindow(time.Minute),
		tokens:       NewSlidingWindow(time.Minute),
		rpmLimit:     int64(cfg.RPMLimit),
		softTPMLimit: int64(math.Ceil(softTPMFraction * float64(cfg.TPMLimit))),
		registry:     registry,
		components:   make(map[Component]*ComponentStats),
		costs: CostModel{
			PerMillionInput:  cfg.CostPerMillionInput,
			PerMillionOutput: cfg.CostPerMillionOutput,
		},
		snapshotEvery: uint64(cfg.SnapshotEveryNRequests),
		persister:     cfg.Persister,
		waitPolicy:    cfg.WaitPolicy,
		metrics:       cfg.Metrics,
	}

	l.logger.Info("usage ledger initialized",
		"rpm_limit", cfg.RPMLimit,
		"tpm_limit", cfg.TPMLimit,
		"wait_policy", string(cfg.WaitPolicy),
	)

	return l, nil
}

// Admit reserves permission to make one external call, blocking the
// caller until the rolling request budget has a free slot.
//
// The sequence is: prune both windows; if the live request count has
// reached the rpm limit, wait until the oldest request leaves the
// window (plus a one-second margin) and prune again; independently, if
// the live token weight has reached 90% of the tpm limit, wait once
// from the oldest token event's age. The token check is evaluated a
// single time per call and is not re-verified after its wait — a burst
// landing right after the wait can still push past the soft threshold.
// That is a deliberate trade-off: the token budget gets an
// early-warning wait, not a hard guarantee. Finally a request event of
// weight 1 is recorded.
//
// Admit exposes no cancellation and returns no error. The wait is
// bounded in practice: windows drain within their horizon, so no
// admission waits longer than roughly the horizon plus margin per
// budget.
func (l *Ledger) Admit() {
	switch l.waitPolicy {
	case WaitPolicyReleaseLock:
		l.admitReleaseLock()
	default:
		l.admitHoldLock()
	}
}

// admitHoldLock sleeps while holding the mutex, reproducing the
// reference single-flight behavior.
func (l *Ledger) admitHoldLock() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.tokens.Prune(now)

	if wait := l.requests.WaitUntilCapacity(l.rpmLimit, now); wait > 0 {
		l.logger.Info("request budget exhausted, waiting",
			"wait", wait.Round(100*time.Millisecond),
		)
		l.observeWait("rpm", wait)
		l.clock.Sleep(wait)
		now = l.clock.Now()
		l.requests.Prune(now)
	}

	if wait := l.tokens.WaitUntilCapacity(l.softTPMLimit, now); wait > 0 {
		l.logger.Warn("token budget near limit, waiting",
			"wait", wait.Round(100*time.Millisecond),
		)
		l.observeWait("tpm", wait)
		l.clock.Sleep(wait)
		now = l.clock.Now()
	}

	l.requests.Record(1, now)
}

// admitReleaseLock sleeps with the mutex released. The request window
// is re-validated on every wake; the token soft check still fires at
// most once per admission.
func (l *Ledger) admitReleaseLock() {
	tokenChecked := false

	l.mu.Lock()
	for {
		now := l.clock.Now()
		l.tokens.Prune(now)

		if wait := l.requests.WaitUntilCapacity(l.rpmLimit, now); wait > 0 {
			l.logger.Info("request budget exhausted, waiting",
				"wait", wait.Round(100*time.Millisecond),
			)
			l.observeWait("rpm", wait)
			l.mu.Unlock()
			l.clock.Sleep(wait)
			l.mu.Lock()
			continue
		}

		if !tokenChecked {
			tokenChecked = true
			if wait := l.tokens.WaitUntilCapacity(l.softTPMLimit, now); wait > 0 {
				l.logger.Warn("token budget near limit, waiting",
					"wait", wait.Round(100*time.Millisecond),
				)
				l.observeWait("tpm", wait)
				l.mu.Unlock()
				l.clock.Sleep(wait)
				l.mu.Lock()
				continue
			}
		}

		l.requests.Record(1, now)
		l.mu.Unlock()
		return
	}
}

// Record attributes one completed external call to the ledger. It never
// blocks beyond the mutex and never fails observably.
//
// On success the totals grow by the reported token counts, a token
// event of the combined weight enters the token window, and the
// component's calls/tokens counters update when it is registered. On
// failure only the registered component's error counter moves; totals
// and windows stay untouched, so a failed-but-billed upstream call is
// not reflected in cost tracking.
//
// Unregistered component identifiers count toward totals but never
// receive a breakdown entry.
//
// Each time the successful-request total becomes a multiple of the
// snapshot cadence, a snapshot is captured and handed to the persister;
// a failed write is logged and swallowed.
func (l *Ledger) Record(component Component, inputTokens, outputTokens uint64, success bool) {
	l.mu.Lock()

	if !success {
		if l.isRegistered(component) {
			l.componentLocked(component).Errors++
		}
		l.mu.Unlock()

		if l.metrics != nil {
			l.metrics.RecordCall(string(component), false)
		}
		return
	}

	now := l.clock.Now()
	combined := inputTokens + outputTokens

	l.totalRequests++
	l.totalInputTokens += inputTokens
	l.totalOutputTokens += outputTokens
	l.totalTokens += combined
	l.tokens.Record(int64(combined), now)

	if l.isRegistered(component) {
		cs := l.componentLocked(component)
		cs.Calls++
		cs.Tokens += combined
	}

	var snap *Snapshot
	if l.persister != nil && l.totalRequests%l.snapshotEvery == 0 {
		snap = &Snapshot{TakenAt: now, Stats: l.statsLocked(now)}
	}

	var liveRPM, liveTPM int64
	if l.metrics != nil {
		liveRPM = l.requests.Sum(now)
		liveTPM = l.tokens.Sum(now)
	}
	l.mu.Unlock()

	if l.metrics != nil {
		l.metrics.RecordCall(string(component), true)
		l.metrics.RecordTokens(string(component), inputTokens, outputTokens)
		l.metrics.RecordCost(l.costs.Cost(inputTokens, outputTokens))
		l.metrics.UpdateWindows(liveRPM, liveTPM)
	}

	if snap != nil {
		l.persist(snap)
	}
}

// Stats returns an immutable snapshot of the ledger's accounting. The
// breakdown map is freshly allocated and holds value copies; CurrentRPM
// and CurrentTPM are computed from the live windows at call time. Stats
// never mutates totals (pruning the windows is a benign, idempotent
// side effect).
func (l *Ledger) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statsLocked(l.clock.Now())
}

// statsLocked assembles a Stats value. Caller must hold l.mu.
func (l *Ledger) statsLocked(now time.Time) Stats {
	breakdown := make(map[Component]ComponentStats, len(l.components))
	for name, cs := range l.components {
		breakdown[name] = *cs
	}

	return Stats{
		TotalRequests:      l.totalRequests,
		TotalTokens:        l.totalTokens,
		TotalInputTokens:   l.totalInputTokens,
		TotalOutputTokens:  l.totalOutputTokens,
		EstimatedCost:      l.costs.Cost(l.totalInputTokens, l.totalOutputTokens),
		ComponentBreakdown: breakdown,
		CurrentRPM:         l.requests.Sum(now),
		CurrentTPM:         l.tokens.Sum(now),
	}
}

// Costs returns the ledger's cost model.
func (l *Ledger) Costs() CostModel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.costs
}

// SetCosts replaces the per-million rates. Totals are unaffected; only
// future EstimatedCost computations change. Used by config hot-reload.
func (l *Ledger) SetCosts(m CostModel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.costs = m
}

// isRegistered reports whether component is in the registry. Caller
// must hold l.mu.
func (l *Ledger) isRegistered(component Component) bool {
	_, ok := l.registry[component]
	return ok
}

// componentLocked returns the counters for a registered component,
// creating the entry on first touch. Caller must hold l.mu.
func (l *Ledger) componentLocked(component Component) *ComponentStats {
	cs, ok := l.components[component]
	if !ok {
		cs = &ComponentStats{}
		l.components[component] = cs
	}
	return cs
}

// persist hands a snapshot to the persister. Failures are logged and
// swallowed; in-memory accounting is authoritative regardless.
func (l *Ledger) persist(snap *Snapshot) {
	err := l.persister.Persist(snap)
	if err != nil {
		l.logger.Warn("failed to persist usage snapshot", "error", err)
	}
	if l.metrics != nil {
		l.metrics.RecordSnapshot(err == nil)
	}
}

// observeWait records an admission wait. Caller may hold l.mu;
// Prometheus counter updates do not block.
func (l *Ledger) observeWait(reason string, wait time.Duration) {
	if l.metrics != nil {
		l.metrics.RecordWait(reason, wait)
	}
}
