package optimizer

import "time"

// Adjustment is a recommended bid change for one campaign.
type Adjustment struct {
	CampaignID        string    `json:"campaign_id"`
	Platform          string    `json:"platform"`
	CurrentBid        float64   `json:"current_bid"`
	NewBid            float64   `json:"new_bid"`
	AdjustmentPercent float64   `json:"adjustment_percent"`
	Reasons           []string  `json:"reasons"`
	CurrentROAS       float64   `json:"current_roas"`
	TargetROAS        float64   `json:"target_roas"`
	Timestamp         time.Time `json:"timestamp"`
}

// BudgetAllocation is the recommended budget for one campaign within a
// reallocation plan.
type BudgetAllocation struct {
	CurrentBudget     float64 `json:"current_budget"`
	RecommendedBudget float64 `json:"recommended_budget"`
	Change            float64 `json:"change"`
	ChangePercent     float64 `json:"change_percent"`
	PerformanceScore  float64 `json:"performance_score"`
}

// BudgetPlan distributes a total budget across campaigns in proportion
// to their performance scores.
type BudgetPlan struct {
	TotalBudget float64                     `json:"total_budget"`
	Allocations map[string]BudgetAllocation `json:"allocations"`
	Timestamp   time.Time                   `json:"timestamp"`
}
