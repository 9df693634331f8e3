package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"meridian-hq/crosswind/pkg/store"
)

// PlatformSource fetches campaign metrics from one advertising platform.
// Implementations must be safe for concurrent use.
type PlatformSource interface {
	// Platform returns the platform identifier ("google_ads", "meta", ...).
	Platform() string

	// Fetch returns metric records observed during the trailing window.
	Fetch(ctx context.Context, window time.Duration) ([]*store.MetricRecord, error)
}

// Collector fans over configured platform sources and persists what they
// return. One platform failing does not stop the others; the failure is
// logged and the run continues.
type Collector struct {
	sources []PlatformSource
	store   store.Store
	logger  *slog.Logger
}

// New creates a collector over the given sources.
func New(st store.Store, sources []PlatformSource, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		sources: sources,
		store:   st,
		logger:  logger.With("component", "collector"),
	}
}

// CollectAll fetches from every source and inserts the results into the
// store. It returns per-platform inserted counts. Per-source failures are
// tolerated; an error is returned only when every source fails.
func (c *Collector) CollectAll(ctx context.Context, window time.Duration) (map[string]int, error) {
	counts := make(map[string]int, len(c.sources))
	var failures []error

	for _, source := range c.sources {
		platform := source.Platform()

		records, err := source.Fetch(ctx, window)
		if err != nil {
			c.logger.Error("failed to collect from platform", "platform", platform, "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", platform, err))
			continue
		}

		n, err := c.store.InsertMetrics(ctx, records)
		if err != nil {
			c.logger.Error("failed to store collected metrics", "platform", platform, "error", err)
			failures = append(failures, fmt.Errorf("%s: %w", platform, err))
			continue
		}

		counts[platform] = n
		c.logger.Info("collected campaigns", "platform", platform, "count", n)
	}

	if len(c.sources) > 0 && len(failures) == len(c.sources) {
		return counts, fmt.Errorf("all platforms failed: %w", errors.Join(failures...))
	}

	return counts, nil
}

// Sources returns the configured platform identifiers.
func (c *Collector) Sources() []string {
	platforms := make([]string, 0, len(c.sources))
	for _, source := range c.sources {
		platforms = append(platforms, source.Platform())
	}
	return platforms
}
