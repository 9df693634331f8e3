package usage

import (
	"fmt"
	"log/slog"
)

// Defaults for the ledger configuration. The request and token limits
// match the free-tier quota of the generative endpoint the service
// ships against; both are plain configuration, not vendor constants.
const (
	// DefaultRPMLimit is the rolling-minute request budget.
	DefaultRPMLimit = 15

	// DefaultTPMLimit is the rolling-minute token budget.
	DefaultTPMLimit = 1_000_000

	// DefaultCostPerMillionInput is the USD price per million prompt
	// tokens.
	DefaultCostPerMillionInput = 0.075

	// DefaultCostPerMillionOutput is the USD price per million
	// completion tokens.
	DefaultCostPerMillionOutput = 0.30

	// DefaultSnapshotEveryNRequests is the snapshot cadence: a write
	// triggers each time the successful-request total reaches a
	// multiple of this value.
	DefaultSnapshotEveryNRequests = 10

	// softTPMFraction is the fraction of the token budget at which
	// Admit starts issuing its early-warning wait.
	softTPMFraction = 0.9
)

// Config configures a Ledger. The zero value of any field falls back
// to its default; negative limits, rates or cadences fail validation.
type Config struct {
	// RPMLimit is the rolling-minute request budget.
	// Default: 15
	RPMLimit int

	// TPMLimit is the rolling-minute token budget. Admission applies a
	// soft 90% threshold to this value; see Ledger.Admit.
	// Default: 1_000_000
	TPMLimit int

	// CostPerMillionInput is the USD price per million prompt tokens.
	// Default: 0.075
	CostPerMillionInput float64

	// CostPerMillionOutput is the USD price per million completion
	// tokens.
	// Default: 0.30
	CostPerMillionOutput float64

	// SnapshotEveryNRequests is the snapshot cadence.
	// Default: 10
	SnapshotEveryNRequests int

	// SnapshotPath is the snapshot file location. When set and no
	// Persister is injected, a FilePersister is created for it. Empty
	// path with no Persister disables snapshots.
	SnapshotPath string

	// WaitPolicy selects hold-lock (default) or release-lock
	// admission waits.
	WaitPolicy WaitPolicy

	// Components is the registry of identifiers eligible for
	// per-component breakdown entries. Empty means the default set.
	Components []Component

	// Clock overrides the system clock; tests inject fakes here.
	Clock Clock

	// Logger receives admission waits and swallowed persistence
	// failures. Defaults to slog.Default.
	Logger *slog.Logger

	// Persister overrides snapshot storage. Takes precedence over
	// SnapshotPath.
	Persister Persister

	// Metrics, when non-nil, receives per-call observations. A nil
	// value disables instrumentation entirely.
	Metrics *Metrics
}

// DefaultConfig returns a Config populated with every default.
func DefaultConfig() Config {
	return Config{
		RPMLimit:               DefaultRPMLimit,
		TPMLimit:               DefaultTPMLimit,
		CostPerMillionInput:    DefaultCostPerMillionInput,
		CostPerMillionOutput:   DefaultCostPerMillionOutput,
		SnapshotEveryNRequests: DefaultSnapshotEveryNRequests,
		WaitPolicy:             WaitPolicyHoldLock,
		Components:             DefaultComponents(),
	}
}

// withDefaults returns a copy of cfg with zero values filled in.
func (c Config) withDefaults() Config {
	if c.RPMLimit == 0 {
		c.RPMLimit = DefaultRPMLimit
	}
	if c.TPMLimit == 0 {
		c.TPMLimit = DefaultTPMLimit
	}
	if c.CostPerMillionInput == 0 {
		c.CostPerMillionInput = DefaultCostPerMillionInput
	}
	if c.CostPerMillionOutput == 0 {
		c.CostPerMillionOutput = DefaultCostPerMillionOutput
	}
	if c.SnapshotEveryNRequests == 0 {
		c.SnapshotEveryNRequests = DefaultSnapshotEveryNRequests
	}
	if c.WaitPolicy == "" {
		c.WaitPolicy = WaitPolicyHoldLock
	}
	if len(c.Components) == 0 {
		c.Components = DefaultComponents()
	}
	if c.Clock == nil {
		c.Clock = systemClock{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Persister == nil && c.SnapshotPath != "" {
		c.Persister = NewFilePersister(c.SnapshotPath)
	}
	return c
}

// validate rejects configurations the ledger cannot run with.
// Misconfiguration is fatal at construction; nothing else in the
// ledger's lifetime surfaces an error.
func (c Config) validate() error {
	if c.RPMLimit <= 0 {
		return fmt.Errorf("%w: rpm limit must be positive (got %d)", ErrInvalidConfig, c.RPMLimit)
	}
	if c.TPMLimit <= 0 {
		return fmt.Errorf("%w: tpm limit must be positive (got %d)", ErrInvalidConfig, c.TPMLimit)
	}
	if c.CostPerMillionInput < 0 {
		return fmt.Errorf("%w: input token rate must not be negative (got %g)", ErrInvalidConfig, c.CostPerMillionInput)
	}
	if c.CostPerMillionOutput < 0 {
		return fmt.Errorf("%w: output token rate must not be negative (got %g)", ErrInvalidConfig, c.CostPerMillionOutput)
	}
	if c.SnapshotEveryNRequests <= 0 {
		return fmt.Errorf("%w: snapshot cadence must be positive (got %d)", ErrInvalidConfig, c.SnapshotEveryNRequests)
	}
	switch c.WaitPolicy {
	case WaitPolicyHoldLock, WaitPolicyReleaseLock:
	default:
		return fmt.Errorf("%w: unknown wait policy %q", ErrInvalidConfig, c.WaitPolicy)
	}
	return nil
}
