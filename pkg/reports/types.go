package reports

import (
	"time"

	"meridian-hq/crosswind/pkg/insights"
	"meridian-hq/crosswind/pkg/optimizer"
	"meridian-hq/crosswind/pkg/store"
)

// Data is everything a report can draw on. Insights and Metrics drive
// the core sections; adjustments and the budget plan render as their
// own sections when present.
type Data struct {
	Insights    *insights.Report
	Metrics     []*store.MetricRecord
	Adjustments []*optimizer.Adjustment
	BudgetPlan  *optimizer.BudgetPlan
}

// KPIs are the headline numbers of a reporting period.
type KPIs struct {
	TotalCampaigns int     `json:"total_campaigns"`
	TotalSpend     float64 `json:"total_spend"`
	AvgROAS        float64 `json:"avg_roas"`
	AvgCTR         float64 `json:"avg_ctr"`
}

// Period bounds the metrics a report covers.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PlatformTotals aggregates one platform's period performance.
type PlatformTotals struct {
	Count   int     `json:"count"`
	Spend   float64 `json:"spend"`
	Revenue float64 `json:"revenue"`
	ROAS    float64 `json:"roas"`
}

// AlertsSummary counts the campaigns sitting in alert territory,
// grouped by condition.
type AlertsSummary struct {
	TotalAlerts int                 `json:"total_alerts"`
	ByType      map[string][]string `json:"by_type"`
}

// Summary is the machine-readable companion to the HTML report.
type Summary struct {
	ReportID           string                    `json:"report_id"`
	GeneratedAt        time.Time                 `json:"generated_at"`
	Period             Period                    `json:"period"`
	ExecutiveSummary   string                    `json:"executive_summary"`
	KPIs               KPIs                      `json:"kpis"`
	TopRecommendations []string                  `json:"top_recommendations"`
	PlatformBreakdown  map[string]PlatformTotals `json:"platform_breakdown"`
	AlertsSummary      AlertsSummary             `json:"alerts_summary"`
}
