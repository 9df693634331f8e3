package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"meridian-hq/crosswind/pkg/adstore"
	"meridian-hq/crosswind/pkg/alerts"
	"meridian-hq/crosswind/pkg/collector"
	"meridian-hq/crosswind/pkg/copywriter"
	"meridian-hq/crosswind/pkg/insights"
	"meridian-hq/crosswind/pkg/optimizer"
	"meridian-hq/crosswind/pkg/pipeline"
	"meridian-hq/crosswind/pkg/reports"
	"meridian-hq/crosswind/pkg/store"
)

// testMetric builds a record aged by age whose derived rates come out
// of Finalize as CTR = clicks/100 percent and ROAS = revenue/100.
func testMetric(campaignID, platform string, clicks int64, revenue float64, age time.Duration) *store.MetricRecord {
	return &store.MetricRecord{
		CampaignID:       campaignID,
		CampaignName:     campaignID,
		Platform:         platform,
		Timestamp:        time.Now().UTC().Add(-age),
		Impressions:      10000,
		Clicks:           clicks,
		Conversions:      20,
		DailySpend:       100,
		DailyBudgetLimit: 200,
		Revenue:          revenue,
		CPC:              0.5,
	}
}

func seedStore(t *testing.T, st store.Store, records ...*store.MetricRecord) {
	t.Helper()
	if _, err := st.InsertMetrics(context.Background(), records); err != nil {
		t.Fatalf("seeding metrics: %v", err)
	}
}

// newTestPipeline wires a pipeline over a memory store with mock
// sources, returning the pieces individual handlers need.
func newTestPipeline(t *testing.T, reportDir string) (*pipeline.Pipeline, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	sources, err := collector.MockSources([]string{"google_ads", "meta", "linkedin"}, 2, 42)
	if err != nil {
		t.Fatalf("building mock sources: %v", err)
	}

	comps := pipeline.Components{
		Store:     st,
		Collector: collector.New(st, sources, slog.Default()),
		Alerts:    alerts.New(nil, nil, slog.Default()),
		Insights:  insights.NewAgent(nil, 3.0, slog.Default()),
		Optimizer: optimizer.New(st, nil, slog.Default()),
		Library:   adstore.NewMemoryLibrary(),
	}

	if reportDir != "" {
		gen, err := reports.NewGenerator(reportDir, slog.Default())
		if err != nil {
			t.Fatalf("building report generator: %v", err)
		}
		comps.Reports = gen
	}

	return pipeline.New(comps, slog.Default()), st
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestIndexHandler(t *testing.T) {
	handler := NewIndexHandler("1.0.0")

	t.Run("serves the API index", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}

		var resp indexResponse
		decodeResponse(t, w, &resp)

		if resp.Name != "crosswind" {
			t.Errorf("name = %q, want crosswind", resp.Name)
		}
		if resp.Version != "1.0.0" {
			t.Errorf("version = %q, want 1.0.0", resp.Version)
		}
		if len(resp.Endpoints) == 0 {
			t.Error("endpoints should not be empty")
		}
	})

	t.Run("unknown path is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nope", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("rejects POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestCollectHandler(t *testing.T) {
	p, st := newTestPipeline(t, "")
	handler := NewCollectHandler(p)

	t.Run("collects from every platform", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/collect", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var resp collectResponse
		decodeResponse(t, w, &resp)

		if resp.Status != "success" {
			t.Errorf("status = %q, want success", resp.Status)
		}
		if resp.CampaignsCollected != 6 {
			t.Errorf("campaigns_collected = %d, want 6", resp.CampaignsCollected)
		}
		if len(resp.Platforms) != 3 {
			t.Errorf("platforms = %d, want 3", len(resp.Platforms))
		}
		if st.Size() != 6 {
			t.Errorf("store holds %d records, want 6", st.Size())
		}
	})

	t.Run("rejects GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/collect", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestAlertsHandler(t *testing.T) {
	t.Run("fires alerts for fresh underperformers", func(t *testing.T) {
		st := store.NewMemoryStore()
		seedStore(t, st, testMetric("google_ads_camp_001", "google_ads", 100, 100, 30*time.Minute))

		handler := NewAlertsHandler(st, alerts.New(nil, nil, slog.Default()))

		req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var resp alertsResponse
		decodeResponse(t, w, &resp)

		// ROAS 1.0 sits below the default 2.0 threshold.
		if resp.TotalAlerts != 1 {
			t.Fatalf("total_alerts = %d, want 1", resp.TotalAlerts)
		}
		if resp.Alerts[0].Type != alerts.TypePerformance {
			t.Errorf("alert type = %q, want %q", resp.Alerts[0].Type, alerts.TypePerformance)
		}
	})

	t.Run("stale metrics are outside the window", func(t *testing.T) {
		st := store.NewMemoryStore()
		seedStore(t, st, testMetric("google_ads_camp_001", "google_ads", 100, 100, 2*time.Hour))

		handler := NewAlertsHandler(st, alerts.New(nil, nil, slog.Default()))

		req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		var resp alertsResponse
		decodeResponse(t, w, &resp)

		if resp.TotalAlerts != 0 {
			t.Errorf("total_alerts = %d, want 0", resp.TotalAlerts)
		}
		if resp.Alerts == nil {
			t.Error("alerts should encode as an empty list, not null")
		}
	})

	t.Run("rejects POST", func(t *testing.T) {
		handler := NewAlertsHandler(store.NewMemoryStore(), alerts.New(nil, nil, slog.Default()))

		req := httptest.NewRequest(http.MethodPost, "/api/alerts", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestOptimizeHandler(t *testing.T) {
	t.Run("empty store yields empty adjustments", func(t *testing.T) {
		st := store.NewMemoryStore()
		handler := NewOptimizeHandler(st, optimizer.New(st, nil, slog.Default()))

		req := httptest.NewRequest(http.MethodPost, "/api/optimize", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var resp optimizeResponse
		decodeResponse(t, w, &resp)

		if resp.Adjustments == nil || len(resp.Adjustments) != 0 {
			t.Errorf("adjustments = %v, want empty list", resp.Adjustments)
		}
		if resp.Reallocation != nil {
			t.Errorf("reallocation = %v, want null", resp.Reallocation)
		}
	})

	t.Run("reallocates the daily budgets by default", func(t *testing.T) {
		st := store.NewMemoryStore()
		seedStore(t, st,
			testMetric("google_ads_camp_001", "google_ads", 400, 500, time.Hour),
			testMetric("meta_camp_001", "meta", 100, 100, time.Hour),
		)
		handler := NewOptimizeHandler(st, optimizer.New(st, nil, slog.Default()))

		req := httptest.NewRequest(http.MethodPost, "/api/optimize", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		var resp optimizeResponse
		decodeResponse(t, w, &resp)

		if resp.Reallocation == nil {
			t.Fatal("reallocation should be present")
		}
		// Two campaigns at a 200 daily limit each.
		if resp.Reallocation.TotalBudget != 400 {
			t.Errorf("total_budget = %.1f, want 400", resp.Reallocation.TotalBudget)
		}
		if len(resp.Reallocation.Allocations) != 2 {
			t.Errorf("allocations = %d, want 2", len(resp.Reallocation.Allocations))
		}
	})

	t.Run("honors an explicit budget", func(t *testing.T) {
		st := store.NewMemoryStore()
		seedStore(t, st, testMetric("google_ads_camp_001", "google_ads", 400, 500, time.Hour))
		handler := NewOptimizeHandler(st, optimizer.New(st, nil, slog.Default()))

		body := strings.NewReader(`{"total_budget": 1000}`)
		req := httptest.NewRequest(http.MethodPost, "/api/optimize", body)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		var resp optimizeResponse
		decodeResponse(t, w, &resp)

		if resp.Reallocation == nil {
			t.Fatal("reallocation should be present")
		}
		if resp.Reallocation.TotalBudget != 1000 {
			t.Errorf("total_budget = %.1f, want 1000", resp.Reallocation.TotalBudget)
		}
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		st := store.NewMemoryStore()
		handler := NewOptimizeHandler(st, optimizer.New(st, nil, slog.Default()))

		req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader("{nope"))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}

		var resp errorResponse
		decodeResponse(t, w, &resp)
		if resp.Status != "error" {
			t.Errorf("status = %q, want error", resp.Status)
		}
	})
}

func TestInsightsHandler(t *testing.T) {
	st := store.NewMemoryStore()
	seedStore(t, st,
		testMetric("google_ads_camp_001", "google_ads", 400, 500, time.Hour),
		testMetric("meta_camp_001", "meta", 100, 100, time.Hour),
	)

	handler := NewInsightsHandler(st, insights.NewAgent(nil, 3.0, slog.Default()))

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp insightsResponse
	decodeResponse(t, w, &resp)

	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.ReportID == "" {
		t.Error("report_id should not be empty")
	}
	if resp.GeneratedBy != insights.SourceTemplate {
		t.Errorf("generated_by = %q, want %q", resp.GeneratedBy, insights.SourceTemplate)
	}
	if resp.KeyMetrics == nil || resp.KeyMetrics.TotalCampaigns != 2 {
		t.Errorf("key_metrics = %+v, want 2 campaigns", resp.KeyMetrics)
	}
}

func TestUsageHandler_NoClient(t *testing.T) {
	handler := NewUsageHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/usage", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp usageResponse
	decodeResponse(t, w, &resp)

	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.Usage.TotalRequests != 0 {
		t.Errorf("total_requests = %d, want 0", resp.Usage.TotalRequests)
	}
}

func TestReportsHandler(t *testing.T) {
	dir := t.TempDir()
	p, st := newTestPipeline(t, dir)
	seedStore(t, st,
		testMetric("google_ads_camp_001", "google_ads", 400, 500, time.Hour),
		testMetric("meta_camp_001", "meta", 100, 100, time.Hour),
	)

	handler := NewReportsHandler(p)

	req := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp reportResponse
	decodeResponse(t, w, &resp)

	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.HTMLReport == "" {
		t.Error("html_report path should not be empty")
	}
	if _, err := os.Stat(resp.HTMLReport); err != nil {
		t.Errorf("html report not written: %v", err)
	}
	if resp.Summary == nil {
		t.Error("summary should be present")
	}
}

func TestCopyHandler(t *testing.T) {
	handler := NewCopyHandler(copywriter.New(nil, nil, slog.Default()))

	t.Run("defaults to google_ads templates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/copy", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var resp copyResponse
		decodeResponse(t, w, &resp)

		if resp.Platform != "google_ads" {
			t.Errorf("platform = %q, want google_ads", resp.Platform)
		}
		if resp.Source != copywriter.SourceTemplate {
			t.Errorf("source = %q, want %q", resp.Source, copywriter.SourceTemplate)
		}
		if resp.Count == 0 || resp.Count != len(resp.Variations.Headlines) {
			t.Errorf("count = %d, want %d headlines", resp.Count, len(resp.Variations.Headlines))
		}
	})

	t.Run("honors the requested platform", func(t *testing.T) {
		body := strings.NewReader(`{"platform": "linkedin"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/copy", body)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		var resp copyResponse
		decodeResponse(t, w, &resp)

		if resp.Platform != "linkedin" {
			t.Errorf("platform = %q, want linkedin", resp.Platform)
		}
	})

	t.Run("rejects GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/copy", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
		}
	})
}

func TestStatusHandler_Bare(t *testing.T) {
	handler := NewStatusHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp statusResponse
	decodeResponse(t, w, &resp)

	if resp.Status != "success" {
		t.Errorf("status = %q, want success", resp.Status)
	}
	if resp.Generative.Available {
		t.Error("generative path should report unavailable without a client")
	}
	if resp.Scheduler != nil {
		t.Error("scheduler section should be absent without a scheduler")
	}
}
