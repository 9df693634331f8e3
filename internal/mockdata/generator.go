// Package mockdata generates synthetic campaign metrics.
//
// Real ad-platform integrations are out of scope; mock platform sources
// stand in behind the collector's PlatformSource interface and draw their
// numbers here. A fixed seed makes a whole pipeline run reproducible, which
// the dry-run command and the integration tests rely on.
package mockdata

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"meridian-hq/crosswind/pkg/store"
)

// platformLabels maps platform identifiers to display names used in
// generated campaign names.
var platformLabels = map[string]string{
	"google_ads": "Google Ads",
	"meta":       "Meta",
	"linkedin":   "LinkedIn",
}

// Generator produces synthetic campaign metric records with realistic
// distributions:
//
//   - impressions: 1,000-50,000
//   - CTR: 1-5% of impressions
//   - conversion rate: 2-10% of clicks
//   - CPC: $0.50-$5.00
//   - revenue: $50-$500 per conversion
//   - budget limit: 1.2-2.0x the daily spend
//
// A Generator is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator. A zero seed draws one from the clock,
// any other value makes the output reproducible.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Campaigns generates count metric records for one platform. Timestamps are
// spread over the 24 hours leading up to now. Derived rates are left for the
// store's Finalize pass.
func (g *Generator) Campaigns(platform string, count int, now time.Time) []*store.MetricRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	records := make([]*store.MetricRecord, 0, count)
	for i := 0; i < count; i++ {
		impressions := g.intRange(1000, 50000)
		clicks := int64(float64(impressions) * g.uniform(0.01, 0.05))
		conversions := int64(float64(clicks) * g.uniform(0.02, 0.10))

		dailySpend := float64(clicks) * g.uniform(0.50, 5.00)
		revenue := float64(conversions) * g.uniform(50, 500)

		var cpc float64
		if clicks > 0 {
			cpc = dailySpend / float64(clicks)
		}

		records = append(records, &store.MetricRecord{
			CampaignID:       fmt.Sprintf("%s_camp_%03d", platform, i+1),
			CampaignName:     fmt.Sprintf("%s Campaign %03d", displayName(platform), i+1),
			Platform:         platform,
			Timestamp:        now.Add(-time.Duration(g.rng.Intn(25)) * time.Hour),
			Impressions:      impressions,
			Clicks:           clicks,
			Conversions:      conversions,
			DailySpend:       dailySpend,
			DailyBudgetLimit: dailySpend * g.uniform(1.2, 2.0),
			Revenue:          revenue,
			CPC:              cpc,
		})
	}

	return records
}

// intRange returns a random integer in [lo, hi].
func (g *Generator) intRange(lo, hi int64) int64 {
	return lo + g.rng.Int63n(hi-lo+1)
}

// uniform returns a random float in [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// displayName returns a human label for a platform identifier.
func displayName(platform string) string {
	if label, ok := platformLabels[platform]; ok {
		return label
	}
	return platform
}
