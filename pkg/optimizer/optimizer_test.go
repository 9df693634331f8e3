package optimizer

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"meridian-hq/crosswind/pkg/config"
	"meridian-hq/crosswind/pkg/store"
)

type fakeHistory struct {
	records map[string][]*store.MetricRecord
	err     error
	days    int
}

func (f *fakeHistory) CampaignHistory(ctx context.Context, campaignID string, days int) ([]*store.MetricRecord, error) {
	f.days = days
	if f.err != nil {
		return nil, f.err
	}
	return f.records[campaignID], nil
}

// histSeries builds a history window with the given ROAS values and a
// constant CTR.
func histSeries(roas []float64, ctr float64) []*store.MetricRecord {
	records := make([]*store.MetricRecord, 0, len(roas))
	for i, r := range roas {
		records = append(records, &store.MetricRecord{
			CampaignID: "camp",
			Platform:   "google_ads",
			Timestamp:  time.Now().UTC().Add(time.Duration(i-len(roas)) * 24 * time.Hour),
			ROAS:       r,
			CTR:        ctr,
		})
	}
	return records
}

func flatHistory(roas, ctr float64) []*store.MetricRecord {
	return histSeries([]float64{roas, roas, roas, roas, roas, roas, roas}, ctr)
}

func currentMetric(id string, roas, ctr, cpc float64) *store.MetricRecord {
	return &store.MetricRecord{
		CampaignID: id,
		Platform:   "google_ads",
		Timestamp:  time.Now().UTC(),
		ROAS:       roas,
		CTR:        ctr,
		CPC:        cpc,
	}
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateAdjustments_InsufficientHistory(t *testing.T) {
	hist := &fakeHistory{records: map[string][]*store.MetricRecord{
		"camp": histSeries([]float64{3, 3, 3}, 2.0),
	}}
	o := New(hist, nil, nil)

	adjustments, err := o.CalculateAdjustments(context.Background(), []*store.MetricRecord{
		currentMetric("camp", 1.0, 2.0, 0.50),
	})
	if err != nil {
		t.Fatalf("CalculateAdjustments failed: %v", err)
	}
	if len(adjustments) != 0 {
		t.Errorf("expected no adjustments with 3 history records, got %d", len(adjustments))
	}
	if hist.days != 7 {
		t.Errorf("history window = %d days, want 7", hist.days)
	}
}

func TestCalculateAdjustments_PoorROAS(t *testing.T) {
	hist := &fakeHistory{records: map[string][]*store.MetricRecord{
		"camp": flatHistory(1.0, 2.0),
	}}
	o := New(hist, nil, nil)

	adjustments, err := o.CalculateAdjustments(context.Background(), []*store.MetricRecord{
		currentMetric("camp", 1.0, 2.0, 0.50),
	})
	if err != nil {
		t.Fatalf("CalculateAdjustments failed: %v", err)
	}
	if len(adjustments) != 1 {
		t.Fatalf("expected 1 adjustment, got %d", len(adjustments))
	}

	adj := adjustments[0]
	if !floatEq(adj.AdjustmentPercent, -15.0) {
		t.Errorf("adjustment percent = %v, want -15.0", adj.AdjustmentPercent)
	}
	if !floatEq(adj.CurrentBid, 0.60) {
		t.Errorf("current bid = %v, want 0.60", adj.CurrentBid)
	}
	if !floatEq(adj.NewBid, 0.51) {
		t.Errorf("new bid = %v, want 0.51", adj.NewBid)
	}
	if len(adj.Reasons) != 1 || !strings.Contains(adj.Reasons[0], "ROAS below target") {
		t.Errorf("reasons = %v", adj.Reasons)
	}
}

func TestCalculateAdjustments_StrongROAS(t *testing.T) {
	hist := &fakeHistory{records: map[string][]*store.MetricRecord{
		"camp": flatHistory(4.5, 2.0),
	}}
	o := New(hist, nil, nil)

	adjustments, err := o.CalculateAdjustments(context.Background(), []*store.MetricRecord{
		currentMetric("camp", 4.5, 2.0, 1.00),
	})
	if err != nil {
		t.Fatalf("CalculateAdjustments failed: %v", err)
	}
	if len(adjustments) != 1 {
		t.Fatalf("expected 1 adjustment, got %d", len(adjustments))
	}

	adj := adjustments[0]
	if !floatEq(adj.AdjustmentPercent, 20.0) {
		t.Errorf("adjustment percent = %v, want 20.0", adj.AdjustmentPercent)
	}
	if !floatEq(adj.NewBid, 1.44) {
		t.Errorf("new bid = %v, want 1.44", adj.NewBid)
	}
	if len(adj.Reasons) != 1 || !strings.Contains(adj.Reasons[0], "ROAS exceeding target") {
		t.Errorf("reasons = %v", adj.Reasons)
	}
}

func TestCalculateAdjustments_CTRSignals(t *testing.T) {
	tests := []struct {
		name        string
		currentCTR  float64
		wantPercent float64
		wantReason  string
	}{
		{"declining", 1.0, -10.0, "CTR declining"},
		{"improving", 3.0, 10.0, "CTR improving"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hist := &fakeHistory{records: map[string][]*store.MetricRecord{
				"camp": flatHistory(3.0, 2.0),
			}}
			o := New(hist, nil, nil)

			adjustments, err := o.CalculateAdjustments(context.Background(), []*store.MetricRecord{
				currentMetric("camp", 3.0, tt.currentCTR, 0.50),
			})
			if err != nil {
				t.Fatalf("CalculateAdjustments failed: %v", err)
			}
			if len(adjustments) != 1 {
				t.Fatalf("expected 1 adjustment, got %d", len(adjustments))
			}
			adj := adjustments[0]
			if !floatEq(adj.AdjustmentPercent, tt.wantPercent) {
				t.Errorf("adjustment percent = %v, want %v", adj.AdjustmentPercent, tt.wantPercent)
			}
			if len(adj.Reasons) != 1 || !strings.Contains(adj.Reasons[0], tt.wantReason) {
				t.Errorf("reasons = %v, want %q", adj.Reasons, tt.wantReason)
			}
		})
	}
}

func TestCalculateAdjustments_ClampsAtMaxChange(t *testing.T) {
	// Strong ROAS, improving CTR and a rising trend sum past the cap.
	hist := &fakeHistory{records: map[string][]*store.MetricRecord{
		"camp": histSeries([]float64{1, 2, 3, 4, 5, 6, 7}, 2.0),
	}}
	o := New(hist, nil, nil)

	adjustments, err := o.CalculateAdjustments(context.Background(), []*store.MetricRecord{
		currentMetric("camp", 7.0, 3.0, 0.50),
	})
	if err != nil {
		t.Fatalf("CalculateAdjustments failed: %v", err)
	}
	if len(adjustments) != 1 {
		t.Fatalf("expected 1 adjustment, got %d", len(adjustments))
	}

	adj := adjustments[0]
	if !floatEq(adj.AdjustmentPercent, 25.0) {
		t.Errorf("adjustment percent = %v, want clamp at 25.0", adj.AdjustmentPercent)
	}
	if len(adj.Reasons) != 3 {
		t.Errorf("expected 3 reasons, got %v", adj.Reasons)
	}
}

func TestCalculateAdjustments_NeutralPerformanceDropped(t *testing.T) {
	hist := &fakeHistory{records: map[string][]*store.MetricRecord{
		"camp": flatHistory(3.0, 2.0),
	}}
	o := New(hist, nil, nil)

	adjustments, err := o.CalculateAdjustments(context.Background(), []*store.MetricRecord{
		currentMetric("camp", 3.0, 2.0, 0.50),
	})
	if err != nil {
		t.Fatalf("CalculateAdjustments failed: %v", err)
	}
	if len(adjustments) != 0 {
		t.Errorf("neutral campaign should produce no adjustment, got %+v", adjustments[0])
	}
}

func TestCalculateAdjustments_HistoryErrorSkipsCampaign(t *testing.T) {
	hist := &fakeHistory{err: errors.New("database locked")}
	o := New(hist, nil, nil)

	adjustments, err := o.CalculateAdjustments(context.Background(), []*store.MetricRecord{
		currentMetric("camp", 1.0, 2.0, 0.50),
	})
	if err != nil {
		t.Fatalf("history errors should be tolerated, got: %v", err)
	}
	if len(adjustments) != 0 {
		t.Errorf("expected no adjustments, got %d", len(adjustments))
	}
}

func TestCalculateAdjustments_ContextCancelled(t *testing.T) {
	hist := &fakeHistory{records: map[string][]*store.MetricRecord{}}
	o := New(hist, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.CalculateAdjustments(ctx, []*store.MetricRecord{
		currentMetric("camp", 1.0, 2.0, 0.50),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCalculateAdjustments_CustomConfig(t *testing.T) {
	hist := &fakeHistory{records: map[string][]*store.MetricRecord{
		"camp": flatHistory(1.0, 2.0),
	}}
	cfg := &config.OptimizerConfig{TargetROAS: 2.0, MaxBidChange: 0.10, MinDataPoints: 5}
	o := New(hist, cfg, nil)

	// ROAS 1.0 < 0.7*2.0 and CTR 1.0 < 0.8*2.0, raw factor -0.25
	// clamps to the configured -0.10.
	adjustments, err := o.CalculateAdjustments(context.Background(), []*store.MetricRecord{
		currentMetric("camp", 1.0, 1.0, 0.50),
	})
	if err != nil {
		t.Fatalf("CalculateAdjustments failed: %v", err)
	}
	if len(adjustments) != 1 {
		t.Fatalf("expected 1 adjustment, got %d", len(adjustments))
	}
	if !floatEq(adjustments[0].AdjustmentPercent, -10.0) {
		t.Errorf("adjustment percent = %v, want clamp at -10.0", adjustments[0].AdjustmentPercent)
	}
	if adjustments[0].TargetROAS != 2.0 {
		t.Errorf("target ROAS = %v, want 2.0", adjustments[0].TargetROAS)
	}
}

func TestUpdateTuning_AppliesToLaterRuns(t *testing.T) {
	hist := &fakeHistory{records: map[string][]*store.MetricRecord{
		"camp": flatHistory(1.0, 2.0),
	}}
	o := New(hist, nil, nil)

	metrics := []*store.MetricRecord{currentMetric("camp", 1.0, 2.0, 0.50)}

	adjustments, err := o.CalculateAdjustments(context.Background(), metrics)
	if err != nil {
		t.Fatalf("CalculateAdjustments failed: %v", err)
	}
	if len(adjustments) != 1 {
		t.Fatalf("default target should flag the campaign, got %d adjustments", len(adjustments))
	}

	// A target the campaign already meets turns the same run neutral.
	o.UpdateTuning(&config.OptimizerConfig{TargetROAS: 1.2, MaxBidChange: 0.25, MinDataPoints: 7})

	adjustments, err = o.CalculateAdjustments(context.Background(), metrics)
	if err != nil {
		t.Fatalf("CalculateAdjustments failed: %v", err)
	}
	if len(adjustments) != 0 {
		t.Errorf("retuned target should drop the adjustment, got %+v", adjustments[0])
	}
}

func TestUpdateTuning_NilIgnored(t *testing.T) {
	o := New(&fakeHistory{}, nil, nil)
	o.UpdateTuning(nil)

	if got := o.tuning(); got.TargetROAS != config.DefaultTargetROAS {
		t.Errorf("target ROAS = %v, want default %v", got.TargetROAS, config.DefaultTargetROAS)
	}
}

func TestRoasTrend(t *testing.T) {
	tests := []struct {
		name string
		roas []float64
		want float64
	}{
		{"rising", []float64{1, 2, 3, 4, 5, 6, 7}, 1.0},
		{"falling", []float64{7, 6, 5, 4, 3, 2, 1}, -1.0},
		{"flat", []float64{3, 3, 3, 3, 3, 3, 3}, 0.0},
		{"single point", []float64{3}, 0.0},
		{"empty", nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roasTrend(histSeries(tt.roas, 2.0))
			if !floatEq(got, tt.want) {
				t.Errorf("roasTrend(%v) = %v, want %v", tt.roas, got, tt.want)
			}
		})
	}
}

func TestRoasTrend_MildSlopeNotClamped(t *testing.T) {
	// A gently wobbling series should land strictly inside (-1, 1).
	got := roasTrend(histSeries([]float64{3.0, 3.1, 2.9, 3.05, 3.0, 2.95, 3.08}, 2.0))
	if got <= -1 || got >= 1 {
		t.Errorf("mild series trend = %v, want inside (-1, 1)", got)
	}
}
