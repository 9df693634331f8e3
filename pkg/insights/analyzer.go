package insights

import "meridian-hq/crosswind/pkg/store"

// Analyze aggregates campaign metrics into window-level statistics.
// Empty input yields a zero-valued Statistics, not nil.
func Analyze(metrics []*store.MetricRecord) *Statistics {
	stats := &Statistics{
		PlatformBreakdown: make(map[string]PlatformStats),
		TotalCampaigns:    len(metrics),
	}
	if len(metrics) == 0 {
		return stats
	}

	var sumCTR, sumROAS float64
	platformCTR := make(map[string]float64)

	for _, m := range metrics {
		stats.TotalSpend += m.DailySpend
		stats.TotalRevenue += m.Revenue
		sumCTR += m.CTR
		sumROAS += m.ROAS

		p := stats.PlatformBreakdown[m.Platform]
		p.Spend += m.DailySpend
		p.Revenue += m.Revenue
		p.Campaigns++
		stats.PlatformBreakdown[m.Platform] = p
		platformCTR[m.Platform] += m.CTR
	}

	if stats.TotalSpend > 0 {
		stats.OverallROAS = stats.TotalRevenue / stats.TotalSpend
	}
	stats.AvgCTR = sumCTR / float64(len(metrics))
	stats.AvgROAS = sumROAS / float64(len(metrics))

	for platform, p := range stats.PlatformBreakdown {
		p.AvgCTR = platformCTR[platform] / float64(p.Campaigns)
		stats.PlatformBreakdown[platform] = p
	}

	return stats
}
