package insights

import "time"

// PlatformStats aggregates performance for one advertising platform.
type PlatformStats struct {
	Spend     float64 `json:"spend"`
	Revenue   float64 `json:"revenue"`
	AvgCTR    float64 `json:"avg_ctr"`
	Campaigns int     `json:"campaigns"`
}

// Statistics aggregates performance across every campaign in a window.
type Statistics struct {
	TotalSpend        float64                  `json:"total_spend"`
	TotalRevenue      float64                  `json:"total_revenue"`
	OverallROAS       float64                  `json:"overall_roas"`
	AvgCTR            float64                  `json:"avg_ctr"`
	AvgROAS           float64                  `json:"avg_roas"`
	PlatformBreakdown map[string]PlatformStats `json:"platform_breakdown"`
	TotalCampaigns    int                      `json:"total_campaigns"`
}

// Report is a performance insight report. GeneratedBy records whether
// the narrative came from the model or the template fallback.
type Report struct {
	ReportID         string            `json:"report_id"`
	Timestamp        time.Time         `json:"timestamp"`
	PeriodStart      time.Time         `json:"period_start"`
	PeriodEnd        time.Time         `json:"period_end"`
	Summary          string            `json:"summary"`
	KeyMetrics       *Statistics       `json:"key_metrics"`
	Recommendations  []string          `json:"recommendations"`
	PlatformInsights map[string]string `json:"platform_insights"`
	Patterns         []string          `json:"patterns"`
	GeneratedBy      string            `json:"generated_by"`
}

// Report generation sources.
const (
	SourceModel    = "model"
	SourceTemplate = "template"
)
