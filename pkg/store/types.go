package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MetricRecord is one day-level performance observation for a campaign on a
// single advertising platform. Raw counters come from the platform; the
// derived rates are computed by Finalize before the record is stored.
type MetricRecord struct {
	// Identity
	ID           string `json:"id"`
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Platform     string `json:"platform"`

	// Observation time
	Timestamp time.Time `json:"timestamp"`

	// Raw performance counters
	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
	Conversions int64 `json:"conversions"`

	// Budget tracking
	DailySpend       float64 `json:"daily_spend"`
	DailyBudgetLimit float64 `json:"daily_budget_limit"`
	Revenue          float64 `json:"revenue"`
	CPC              float64 `json:"cpc"`

	// Derived rates, set by Finalize
	CTR               float64 `json:"ctr"`
	ROAS              float64 `json:"roas"`
	BudgetUtilization float64 `json:"budget_utilization"`
}

// Finalize assigns an ID when missing and computes the derived rates:
// CTR as clicks/impressions×100, ROAS as revenue/spend, and budget
// utilization as spend/limit×100. Divisions by zero yield zero.
func (r *MetricRecord) Finalize() {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	if r.Impressions > 0 {
		r.CTR = float64(r.Clicks) / float64(r.Impressions) * 100
	} else {
		r.CTR = 0
	}

	if r.DailySpend > 0 {
		r.ROAS = r.Revenue / r.DailySpend
	} else {
		r.ROAS = 0
	}

	if r.DailyBudgetLimit > 0 {
		r.BudgetUtilization = r.DailySpend / r.DailyBudgetLimit * 100
	} else {
		r.BudgetUtilization = 0
	}
}

// validPlatforms is the set of advertising platforms a record may carry.
var validPlatforms = map[string]struct{}{
	"google_ads": {},
	"meta":       {},
	"linkedin":   {},
}

// IsValidPlatform reports whether name is a recognized advertising platform.
func IsValidPlatform(name string) bool {
	_, ok := validPlatforms[name]
	return ok
}

// Validate checks the record's raw fields before storage.
func (r *MetricRecord) Validate() error {
	if r.CampaignID == "" {
		return fmt.Errorf("campaign_id cannot be empty")
	}
	if !IsValidPlatform(r.Platform) {
		return fmt.Errorf("unknown platform %q", r.Platform)
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("timestamp cannot be zero")
	}
	if r.Impressions < 0 || r.Clicks < 0 || r.Conversions < 0 {
		return fmt.Errorf("performance counters cannot be negative")
	}
	if r.DailySpend < 0 || r.DailyBudgetLimit < 0 || r.Revenue < 0 || r.CPC < 0 {
		return fmt.Errorf("budget values cannot be negative")
	}
	return nil
}

// Campaign identifies one campaign known to the store.
type Campaign struct {
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Platform     string `json:"platform"`
}

// Store is the persistence interface for campaign metrics. Implementations
// must be safe for concurrent use.
type Store interface {
	// InsertMetrics finalizes, validates, and persists a batch of records.
	// It returns the number of records written. A validation failure
	// rejects the whole batch.
	InsertMetrics(ctx context.Context, records []*MetricRecord) (int, error)

	// RecentMetrics returns records observed after since, newest first.
	RecentMetrics(ctx context.Context, since time.Time) ([]*MetricRecord, error)

	// CampaignHistory returns one campaign's records from the trailing
	// number of days, oldest first.
	CampaignHistory(ctx context.Context, campaignID string, days int) ([]*MetricRecord, error)

	// Platforms returns the distinct platforms present in the store.
	Platforms(ctx context.Context) ([]string, error)

	// ListCampaigns returns the distinct campaigns present in the store.
	ListCampaigns(ctx context.Context) ([]Campaign, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
