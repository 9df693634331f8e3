package optimizer

import (
	"math"
	"time"

	"meridian-hq/crosswind/pkg/store"
)

// BudgetReallocation distributes totalBudget across the given campaigns
// in proportion to a performance score weighting ROAS against the
// target, damped by spend volume so tiny campaigns cannot dominate.
// Returns nil when there is nothing to allocate.
func (o *Optimizer) BudgetReallocation(metrics []*store.MetricRecord, totalBudget float64) *BudgetPlan {
	if len(metrics) == 0 {
		return nil
	}

	cfg := o.tuning()
	scores := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		volumeWeight := math.Min(m.DailySpend/100, 1.0)
		performanceWeight := m.ROAS / cfg.TargetROAS
		scores[m.CampaignID] = performanceWeight * (0.7 + 0.3*volumeWeight)
	}

	var totalScore float64
	for _, score := range scores {
		totalScore += score
	}
	if totalScore == 0 {
		return nil
	}

	allocations := make(map[string]BudgetAllocation, len(scores))
	for campaignID, score := range scores {
		allocation := (score / totalScore) * totalBudget

		var current float64
		for _, m := range metrics {
			if m.CampaignID == campaignID {
				current = m.DailySpend
				break
			}
		}

		changePercent := 0.0
		if current > 0 {
			changePercent = round1((allocation - current) / current * 100)
		}

		allocations[campaignID] = BudgetAllocation{
			CurrentBudget:     round2(current),
			RecommendedBudget: round2(allocation),
			Change:            round2(allocation - current),
			ChangePercent:     changePercent,
			PerformanceScore:  round2(score),
		}
	}

	return &BudgetPlan{
		TotalBudget: totalBudget,
		Allocations: allocations,
		Timestamp:   time.Now().UTC(),
	}
}
