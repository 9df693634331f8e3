package collector

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"meridian-hq/crosswind/internal/mockdata"
	"meridian-hq/crosswind/pkg/store"
)

type fakeSource struct {
	platform string
	records  []*store.MetricRecord
	err      error
	calls    int
}

func (f *fakeSource) Platform() string {
	return f.platform
}

func (f *fakeSource) Fetch(ctx context.Context, window time.Duration) ([]*store.MetricRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func makeRecords(platform string, count int) []*store.MetricRecord {
	records := make([]*store.MetricRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, &store.MetricRecord{
			CampaignID:       platform + "_camp_001",
			CampaignName:     "Test Campaign",
			Platform:         platform,
			Timestamp:        time.Now().UTC(),
			Impressions:      10000,
			Clicks:           300,
			Conversions:      25,
			DailySpend:       150.0,
			DailyBudgetLimit: 200.0,
			Revenue:          450.0,
			CPC:              0.50,
		})
	}
	return records
}

func TestCollector_CollectAll(t *testing.T) {
	st := store.NewMemoryStore()
	sources := []PlatformSource{
		&fakeSource{platform: "google_ads", records: makeRecords("google_ads", 3)},
		&fakeSource{platform: "meta", records: makeRecords("meta", 2)},
		&fakeSource{platform: "linkedin", records: makeRecords("linkedin", 1)},
	}

	c := New(st, sources, nil)
	counts, err := c.CollectAll(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("CollectAll failed: %v", err)
	}

	want := map[string]int{"google_ads": 3, "meta": 2, "linkedin": 1}
	for platform, n := range want {
		if counts[platform] != n {
			t.Errorf("counts[%q] = %d, want %d", platform, counts[platform], n)
		}
	}
	if st.Size() != 6 {
		t.Errorf("store size = %d, want 6", st.Size())
	}
}

func TestCollector_ToleratesSourceFailure(t *testing.T) {
	st := store.NewMemoryStore()
	failing := &fakeSource{platform: "meta", err: errors.New("rate limited")}
	sources := []PlatformSource{
		&fakeSource{platform: "google_ads", records: makeRecords("google_ads", 2)},
		failing,
		&fakeSource{platform: "linkedin", records: makeRecords("linkedin", 2)},
	}

	c := New(st, sources, nil)
	counts, err := c.CollectAll(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("CollectAll should tolerate a single failure, got: %v", err)
	}

	if counts["google_ads"] != 2 || counts["linkedin"] != 2 {
		t.Errorf("healthy platforms should collect, got %v", counts)
	}
	if _, ok := counts["meta"]; ok {
		t.Error("failed platform should not appear in counts")
	}
	if st.Size() != 4 {
		t.Errorf("store size = %d, want 4", st.Size())
	}
}

func TestCollector_AllSourcesFail(t *testing.T) {
	st := store.NewMemoryStore()
	sources := []PlatformSource{
		&fakeSource{platform: "google_ads", err: errors.New("auth expired")},
		&fakeSource{platform: "meta", err: errors.New("rate limited")},
	}

	c := New(st, sources, nil)
	_, err := c.CollectAll(context.Background(), 24*time.Hour)
	if err == nil {
		t.Fatal("expected error when every source fails")
	}
	if !strings.Contains(err.Error(), "all platforms failed") {
		t.Errorf("error should name total failure, got: %v", err)
	}
	if !strings.Contains(err.Error(), "auth expired") {
		t.Errorf("error should carry source causes, got: %v", err)
	}
}

func TestCollector_StoreFailureCounts(t *testing.T) {
	st := store.NewMemoryStore()
	bad := makeRecords("google_ads", 1)
	bad[0].Platform = "myspace"
	sources := []PlatformSource{
		&fakeSource{platform: "google_ads", records: bad},
		&fakeSource{platform: "meta", records: makeRecords("meta", 2)},
	}

	c := New(st, sources, nil)
	counts, err := c.CollectAll(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("CollectAll should tolerate a store rejection, got: %v", err)
	}
	if _, ok := counts["google_ads"]; ok {
		t.Error("rejected batch should not appear in counts")
	}
	if counts["meta"] != 2 {
		t.Errorf("counts[meta] = %d, want 2", counts["meta"])
	}
}

func TestCollector_NoSources(t *testing.T) {
	c := New(store.NewMemoryStore(), nil, nil)
	counts, err := c.CollectAll(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("CollectAll with no sources should succeed, got: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("expected empty counts, got %v", counts)
	}
}

func TestCollector_Sources(t *testing.T) {
	c := New(store.NewMemoryStore(), []PlatformSource{
		&fakeSource{platform: "google_ads"},
		&fakeSource{platform: "meta"},
	}, nil)

	got := c.Sources()
	if len(got) != 2 || got[0] != "google_ads" || got[1] != "meta" {
		t.Errorf("Sources() = %v", got)
	}
}

func TestNewMockSource(t *testing.T) {
	gen := mockdata.NewGenerator(42)

	tests := []struct {
		name      string
		platform  string
		campaigns int
		wantErr   bool
	}{
		{"valid google", "google_ads", 5, false},
		{"valid meta", "meta", 3, false},
		{"valid linkedin", "linkedin", 1, false},
		{"unknown platform", "myspace", 5, true},
		{"empty platform", "", 5, true},
		{"zero campaigns", "meta", 0, true},
		{"negative campaigns", "meta", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMockSource(tt.platform, tt.campaigns, gen)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMockSource(%q, %d) error = %v, wantErr %v", tt.platform, tt.campaigns, err, tt.wantErr)
			}
		})
	}
}

func TestMockSource_Fetch(t *testing.T) {
	src, err := NewMockSource("meta", 4, mockdata.NewGenerator(42))
	if err != nil {
		t.Fatalf("NewMockSource failed: %v", err)
	}

	records, err := src.Fetch(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	for _, r := range records {
		if r.Platform != "meta" {
			t.Errorf("record platform = %q, want meta", r.Platform)
		}
	}
}

func TestMockSource_FetchCancelled(t *testing.T) {
	src, err := NewMockSource("meta", 4, nil)
	if err != nil {
		t.Fatalf("NewMockSource failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := src.Fetch(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMockSources(t *testing.T) {
	sources, err := MockSources([]string{"google_ads", "meta", "linkedin"}, 5, 42)
	if err != nil {
		t.Fatalf("MockSources failed: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}

	if _, err := MockSources([]string{"google_ads", "bogus"}, 5, 42); err == nil {
		t.Error("expected error for unknown platform")
	}
}

func TestCollector_EndToEndWithMocks(t *testing.T) {
	st := store.NewMemoryStore()
	sources, err := MockSources([]string{"google_ads", "meta"}, 3, 42)
	if err != nil {
		t.Fatalf("MockSources failed: %v", err)
	}

	c := New(st, sources, nil)
	counts, err := c.CollectAll(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("CollectAll failed: %v", err)
	}
	if counts["google_ads"] != 3 || counts["meta"] != 3 {
		t.Errorf("counts = %v, want 3 per platform", counts)
	}

	platforms, err := st.Platforms(context.Background())
	if err != nil {
		t.Fatalf("Platforms failed: %v", err)
	}
	if len(platforms) != 2 {
		t.Errorf("expected 2 distinct platforms, got %v", platforms)
	}
}
