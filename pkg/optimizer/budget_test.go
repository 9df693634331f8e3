package optimizer

import (
	"testing"

	"meridian-hq/crosswind/pkg/store"
)

func budgetMetric(id string, spend, roas float64) *store.MetricRecord {
	return &store.MetricRecord{
		CampaignID: id,
		Platform:   "google_ads",
		DailySpend: spend,
		ROAS:       roas,
	}
}

func TestBudgetReallocation(t *testing.T) {
	o := New(&fakeHistory{}, nil, nil)

	// camp_a: volume weight 1.0, performance 1.0, score 1.0.
	// camp_b: volume weight 0.5, performance 2.0, score 1.7.
	metrics := []*store.MetricRecord{
		budgetMetric("camp_a", 100.0, 3.0),
		budgetMetric("camp_b", 50.0, 6.0),
	}

	plan := o.BudgetReallocation(metrics, 270.0)
	if plan == nil {
		t.Fatal("expected a plan")
	}
	if plan.TotalBudget != 270.0 {
		t.Errorf("total budget = %v, want 270", plan.TotalBudget)
	}
	if len(plan.Allocations) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(plan.Allocations))
	}

	a := plan.Allocations["camp_a"]
	if !floatEq(a.PerformanceScore, 1.0) {
		t.Errorf("camp_a score = %v, want 1.0", a.PerformanceScore)
	}
	if !floatEq(a.RecommendedBudget, 100.0) {
		t.Errorf("camp_a recommended = %v, want 100.0", a.RecommendedBudget)
	}
	if !floatEq(a.Change, 0.0) {
		t.Errorf("camp_a change = %v, want 0", a.Change)
	}

	b := plan.Allocations["camp_b"]
	if !floatEq(b.PerformanceScore, 1.7) {
		t.Errorf("camp_b score = %v, want 1.7", b.PerformanceScore)
	}
	if !floatEq(b.RecommendedBudget, 170.0) {
		t.Errorf("camp_b recommended = %v, want 170.0", b.RecommendedBudget)
	}
	if !floatEq(b.Change, 120.0) {
		t.Errorf("camp_b change = %v, want 120.0", b.Change)
	}
	if !floatEq(b.ChangePercent, 240.0) {
		t.Errorf("camp_b change percent = %v, want 240.0", b.ChangePercent)
	}
}

func TestBudgetReallocation_FavorsHigherROAS(t *testing.T) {
	o := New(&fakeHistory{}, nil, nil)

	metrics := []*store.MetricRecord{
		budgetMetric("strong", 100.0, 6.0),
		budgetMetric("weak", 100.0, 1.0),
	}

	plan := o.BudgetReallocation(metrics, 200.0)
	if plan == nil {
		t.Fatal("expected a plan")
	}

	strong := plan.Allocations["strong"]
	weak := plan.Allocations["weak"]
	if strong.RecommendedBudget <= weak.RecommendedBudget {
		t.Errorf("strong (%v) should out-allocate weak (%v)", strong.RecommendedBudget, weak.RecommendedBudget)
	}
	if strong.Change <= 0 {
		t.Errorf("strong campaign should gain budget, change = %v", strong.Change)
	}
	if weak.Change >= 0 {
		t.Errorf("weak campaign should lose budget, change = %v", weak.Change)
	}
}

func TestBudgetReallocation_Empty(t *testing.T) {
	o := New(&fakeHistory{}, nil, nil)

	if plan := o.BudgetReallocation(nil, 100.0); plan != nil {
		t.Errorf("expected nil plan for no metrics, got %+v", plan)
	}
}

func TestBudgetReallocation_ZeroScores(t *testing.T) {
	o := New(&fakeHistory{}, nil, nil)

	metrics := []*store.MetricRecord{
		budgetMetric("camp_a", 0.0, 0.0),
		budgetMetric("camp_b", 0.0, 0.0),
	}
	if plan := o.BudgetReallocation(metrics, 100.0); plan != nil {
		t.Errorf("expected nil plan when all scores are zero, got %+v", plan)
	}
}

func TestBudgetReallocation_ZeroSpendCampaign(t *testing.T) {
	o := New(&fakeHistory{}, nil, nil)

	metrics := []*store.MetricRecord{
		budgetMetric("active", 100.0, 3.0),
		budgetMetric("idle", 0.0, 3.0),
	}

	plan := o.BudgetReallocation(metrics, 100.0)
	if plan == nil {
		t.Fatal("expected a plan")
	}

	idle := plan.Allocations["idle"]
	if idle.ChangePercent != 0 {
		t.Errorf("zero-spend campaign change percent = %v, want 0", idle.ChangePercent)
	}
	if idle.RecommendedBudget <= 0 {
		t.Errorf("idle campaign should still receive budget, got %v", idle.RecommendedBudget)
	}
}
