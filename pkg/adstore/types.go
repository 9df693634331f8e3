package adstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meridian-hq/crosswind/pkg/store"
)

// StoredAd is one ad creative kept in the library together with the
// performance it achieved. The pipeline files an ad for every campaign
// that clears the high-performer bar; callers may also store creatives
// of their own.
type StoredAd struct {
	ID          string    `json:"ad_id"`
	CampaignID  string    `json:"campaign_id"`
	Platform    string    `json:"platform"`
	Headline    string    `json:"headline"`
	Description string    `json:"description"`
	CTA         string    `json:"cta"`
	CTR         float64   `json:"ctr"`
	Conversions int64     `json:"conversions"`
	ROAS        float64   `json:"roas"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the ad before storage.
func (a *StoredAd) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("ad_id cannot be empty")
	}
	if a.CampaignID == "" {
		return fmt.Errorf("campaign_id cannot be empty")
	}
	if !store.IsValidPlatform(a.Platform) {
		return fmt.Errorf("unknown platform %q", a.Platform)
	}
	return nil
}

// searchText is the lowercased text body similarity matching runs over.
func (a *StoredAd) searchText() string {
	return strings.ToLower(a.Headline + " " + a.Description + " " + a.CTA)
}

// ScoredAd is a stored ad together with its similarity to a query.
type ScoredAd struct {
	StoredAd
	Score float64 `json:"similarity_score"`
}

// PerformanceFloor restricts FindSimilar to ads that meet minimum
// performance. Zero values disable the corresponding minimum.
type PerformanceFloor struct {
	MinCTR  float64
	MinROAS float64
}

// WordCount is one entry in a frequency ranking.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// PlatformPatterns summarizes the top performers found on one platform.
type PlatformPatterns struct {
	Count   int     `json:"count"`
	AvgCTR  float64 `json:"avg_ctr"`
	AvgROAS float64 `json:"avg_roas"`
}

// Patterns is what pattern analysis extracts from the library's top
// performing ads.
type Patterns struct {
	TotalAdsAnalyzed  int                         `json:"total_ads_analyzed"`
	AverageCTR        float64                     `json:"average_ctr"`
	AverageROAS       float64                     `json:"average_roas"`
	TopHeadlineWords  []WordCount                 `json:"top_headline_words"`
	TopCTAs           []WordCount                 `json:"top_ctas"`
	PlatformBreakdown map[string]PlatformPatterns `json:"platform_breakdown"`
}

const (
	// DefaultSimilarLimit caps FindSimilar results when the caller
	// passes a non-positive limit.
	DefaultSimilarLimit = 5

	// DefaultTopLimit caps TopPerformers results when the caller
	// passes a non-positive limit.
	DefaultTopLimit = 10

	// patternSampleSize is how many top performers pattern analysis
	// draws conclusions from.
	patternSampleSize = 20
)

// Library is the storage interface for the ad performance library.
// Implementations must be safe for concurrent use.
type Library interface {
	// StoreAd validates and persists an ad, replacing any previous
	// ad with the same ID.
	StoreAd(ctx context.Context, ad *StoredAd) error

	// FindSimilar returns ads whose creative text shares words with
	// the query, best match first. Ads below the performance floor
	// and ads sharing no words with the query are excluded.
	FindSimilar(ctx context.Context, query string, floor PerformanceFloor, limit int) ([]*ScoredAd, error)

	// TopPerformers returns ads ranked by ROAS multiplied by CTR.
	// An empty platform means all platforms.
	TopPerformers(ctx context.Context, platform string, limit int) ([]*StoredAd, error)

	// AnalyzePatterns summarizes the library's top performers.
	// It returns nil when the library is empty.
	AnalyzePatterns(ctx context.Context) (*Patterns, error)

	// Close releases backend resources.
	Close() error
}
