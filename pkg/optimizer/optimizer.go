package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"meridian-hq/crosswind/pkg/config"
	"meridian-hq/crosswind/pkg/store"
)

// historyWindowDays is the trailing window pulled per campaign when
// judging an adjustment.
const historyWindowDays = 7

// HistorySource provides per-campaign metric history. store.Store
// satisfies it.
type HistorySource interface {
	CampaignHistory(ctx context.Context, campaignID string, days int) ([]*store.MetricRecord, error)
}

// Optimizer computes bid adjustments and budget reallocations from
// campaign performance. It never applies changes itself; callers decide
// what to do with the recommendations.
type Optimizer struct {
	history HistorySource
	logger  *slog.Logger

	mu     sync.RWMutex
	config *config.OptimizerConfig
}

// New creates an optimizer. A nil config uses the package defaults.
func New(history HistorySource, cfg *config.OptimizerConfig, logger *slog.Logger) *Optimizer {
	if cfg == nil {
		cfg = &config.OptimizerConfig{
			TargetROAS:    config.DefaultTargetROAS,
			MaxBidChange:  config.DefaultMaxBidChange,
			MinDataPoints: config.DefaultMinDataPoints,
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Optimizer{
		history: history,
		config:  cfg,
		logger:  logger.With("component", "optimizer"),
	}
}

// UpdateTuning replaces the target ROAS, bid change cap and history
// requirement. Runs already in flight finish with the values they
// started with. Used by config hot-reload; a nil cfg is ignored.
func (o *Optimizer) UpdateTuning(cfg *config.OptimizerConfig) {
	if cfg == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.config = cfg
}

// tuning snapshots the current config so one run sees one set of
// values even if a reload lands mid-loop.
func (o *Optimizer) tuning() config.OptimizerConfig {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return *o.config
}

// CalculateAdjustments returns bid adjustments for the campaigns behind
// the given metrics. Campaigns with fewer than MinDataPoints historical
// records are skipped, as are campaigns whose performance sits inside
// the neutral band.
func (o *Optimizer) CalculateAdjustments(ctx context.Context, metrics []*store.MetricRecord) ([]*Adjustment, error) {
	cfg := o.tuning()
	adjustments := make([]*Adjustment, 0, len(metrics))

	for _, metric := range metrics {
		if err := ctx.Err(); err != nil {
			return adjustments, err
		}

		history, err := o.history.CampaignHistory(ctx, metric.CampaignID, historyWindowDays)
		if err != nil {
			o.logger.Error("failed to load campaign history", "campaign_id", metric.CampaignID, "error", err)
			continue
		}

		if len(history) < cfg.MinDataPoints {
			o.logger.Info("insufficient history for campaign", "campaign_id", metric.CampaignID, "records", len(history))
			continue
		}

		if adj := singleAdjustment(cfg, metric, history); adj != nil {
			adjustments = append(adjustments, adj)
		}
	}

	return adjustments, nil
}

func singleAdjustment(cfg config.OptimizerConfig, current *store.MetricRecord, history []*store.MetricRecord) *Adjustment {
	avgCTR := meanCTR(history)
	trend := roasTrend(history)

	var factor float64
	var reasons []string

	switch {
	case current.ROAS < cfg.TargetROAS*0.7:
		factor -= 0.15
		reasons = append(reasons, fmt.Sprintf("ROAS below target (%.2f < %.2f)", current.ROAS, cfg.TargetROAS*0.7))
	case current.ROAS > cfg.TargetROAS*1.3:
		factor += 0.20
		reasons = append(reasons, fmt.Sprintf("ROAS exceeding target (%.2f > %.2f)", current.ROAS, cfg.TargetROAS*1.3))
	}

	switch {
	case current.CTR < avgCTR*0.8:
		factor -= 0.10
		reasons = append(reasons, fmt.Sprintf("CTR declining (%.2f%% < %.2f%%)", current.CTR, avgCTR*0.8))
	case current.CTR > avgCTR*1.2:
		factor += 0.10
		reasons = append(reasons, fmt.Sprintf("CTR improving (%.2f%% > %.2f%%)", current.CTR, avgCTR*1.2))
	}

	switch {
	case trend < -0.2:
		factor -= 0.05
		reasons = append(reasons, "Negative performance trend")
	case trend > 0.2:
		factor += 0.05
		reasons = append(reasons, "Positive performance trend")
	}

	factor = clamp(factor, -cfg.MaxBidChange, cfg.MaxBidChange)

	if math.Abs(factor) < 0.05 {
		return nil
	}

	// Max bid is estimated from observed CPC; the platforms do not
	// expose the configured bid directly.
	currentBid := current.CPC * 1.2
	newBid := currentBid * (1 + factor)

	return &Adjustment{
		CampaignID:        current.CampaignID,
		Platform:          current.Platform,
		CurrentBid:        round2(currentBid),
		NewBid:            round2(newBid),
		AdjustmentPercent: round1(factor * 100),
		Reasons:           reasons,
		CurrentROAS:       round2(current.ROAS),
		TargetROAS:        cfg.TargetROAS,
		Timestamp:         time.Now().UTC(),
	}
}

// roasTrend fits a least-squares line through the historical ROAS series
// and normalizes the slope into [-1, 1]. A flat or degenerate series
// scores zero.
func roasTrend(history []*store.MetricRecord) float64 {
	n := len(history)
	if n < 2 {
		return 0
	}

	var meanX, meanY float64
	for i, h := range history {
		meanX += float64(i)
		meanY += h.ROAS
	}
	meanX /= float64(n)
	meanY /= float64(n)

	var sxx, sxy, syy float64
	for i, h := range history {
		dx := float64(i) - meanX
		dy := h.ROAS - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}

	stddev := math.Sqrt(syy / float64(n))
	if stddev == 0 {
		return 0
	}

	slope := sxy / sxx
	maxSlope := stddev / float64(n)
	return clamp(slope/maxSlope, -1, 1)
}

func meanCTR(history []*store.MetricRecord) float64 {
	if len(history) == 0 {
		return 0
	}
	var sum float64
	for _, h := range history {
		sum += h.CTR
	}
	return sum / float64(len(history))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
