package usage

import (
	"errors"
	"time"
)

// Component identifies a logical caller of the generative endpoint.
// Usage and errors are attributed to components in the per-component
// breakdown; only identifiers present in the ledger's registry get a
// breakdown entry (see Ledger.Record).
type Component string

const (
	// ComponentCollector is the campaign data collector.
	ComponentCollector Component = "collector"

	// ComponentInsightAgent is the performance insight agent.
	ComponentInsightAgent Component = "insight_agent"

	// ComponentOptimizer is the bid optimizer.
	ComponentOptimizer Component = "optimizer"

	// ComponentAnalyzer is the aggregate statistics analyzer.
	ComponentAnalyzer Component = "analyzer"

	// ComponentCopywriter is the ad copy generator.
	ComponentCopywriter Component = "copywriter"
)

// DefaultComponents returns the default component registry.
func DefaultComponents() []Component {
	return []Component{
		ComponentCollector,
		ComponentInsightAgent,
		ComponentOptimizer,
		ComponentAnalyzer,
		ComponentCopywriter,
	}
}

// WaitPolicy selects how Admit suspends the caller while a budget
// drains.
type WaitPolicy string

const (
	// WaitPolicyHoldLock sleeps while holding the ledger mutex. A
	// waiter therefore serializes every other Admit, Record and Stats
	// call for the wait duration. This is the reference behavior: the
	// ledger exists to single-flight a low-volume external call, not
	// to admit concurrently at high throughput.
	WaitPolicyHoldLock WaitPolicy = "hold_lock"

	// WaitPolicyReleaseLock releases the ledger mutex during the
	// sleep and re-validates the request window on wake. Record and
	// Stats proceed while a waiter sleeps; observable wait timing may
	// differ from the hold-lock policy under contention, but the
	// request budget guarantee is identical.
	WaitPolicyReleaseLock WaitPolicy = "release_lock"
)

// ComponentStats holds per-component accounting counters.
type ComponentStats struct {
	// Calls is the number of successful calls attributed to the
	// component.
	Calls uint64 `json:"calls"`

	// Tokens is the combined input+output token count across those
	// calls.
	Tokens uint64 `json:"tokens"`

	// Errors is the number of failed calls reported for the
	// component.
	Errors uint64 `json:"errors"`
}

// Stats is an immutable point-in-time view of ledger accounting. The
// breakdown map and its values are copies; mutating them never touches
// ledger state.
type Stats struct {
	// TotalRequests counts successful recorded calls.
	TotalRequests uint64 `json:"total_requests"`

	// TotalTokens is the all-time combined token count.
	TotalTokens uint64 `json:"total_tokens"`

	// TotalInputTokens is the all-time prompt-side token count.
	TotalInputTokens uint64 `json:"total_input_tokens"`

	// TotalOutputTokens is the all-time completion-side token count.
	TotalOutputTokens uint64 `json:"total_output_tokens"`

	// EstimatedCost is the cost model applied to the all-time totals,
	// in USD.
	EstimatedCost float64 `json:"estimated_cost"`

	// ComponentBreakdown maps registered components that have recorded
	// usage or errors to their counters.
	ComponentBreakdown map[Component]ComponentStats `json:"component_breakdown"`

	// CurrentRPM is the request count inside the live rolling minute,
	// computed fresh at call time.
	CurrentRPM int64 `json:"current_rpm"`

	// CurrentTPM is the token weight inside the live rolling minute.
	CurrentTPM int64 `json:"current_tpm"`
}

// Snapshot is the persisted form of ledger statistics: a timestamp and
// the full Stats output. Each write fully replaces the previous
// snapshot; the sink is a point-in-time dump, not an append log.
type Snapshot struct {
	TakenAt time.Time `json:"timestamp"`
	Stats   Stats     `json:"stats"`
}

var (
	// ErrInvalidConfig indicates the ledger configuration failed
	// validation. Construction is the only fatal path; Admit, Record
	// and Stats never return errors.
	ErrInvalidConfig = errors.New("invalid usage ledger configuration")
)
