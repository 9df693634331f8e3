package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// createTempStore creates a temporary SQLite store for testing.
func createTempStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	config := &SQLiteConfig{
		Path:         dbPath,
		MaxOpenConns: 5,
		MaxIdleConns: 2,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}

	s, err := NewSQLiteStore(config)
	if err != nil {
		t.Fatalf("Failed to create SQLite store: %v", err)
	}

	return s, dbPath
}

// TestSQLiteStore_Initialize tests database initialization.
func TestSQLiteStore_Initialize(t *testing.T) {
	s, dbPath := createTempStore(t)
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("Expected schema version %d, got %d", SchemaVersion, version)
	}
}

// TestSQLiteStore_CreatesParentDirectory tests data dir creation.
func TestSQLiteStore_CreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "data", "test.db")

	s, err := NewSQLiteStore(&SQLiteConfig{Path: dbPath, WALMode: true, BusyTimeout: time.Second})
	if err != nil {
		t.Fatalf("Failed to create store with nested path: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created under nested directory")
	}
}

// TestSQLiteStore_EmptyPath tests the path guard.
func TestSQLiteStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStore(&SQLiteConfig{Path: ""})
	if err == nil {
		t.Fatal("Expected error for empty path")
	}
}

// TestSQLiteStore_InsertAndQuery tests round-tripping records.
func TestSQLiteStore_InsertAndQuery(t *testing.T) {
	s, _ := createTempStore(t)
	defer s.Close()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	record := makeRecord("google_ads_campaign_1", "google_ads", now.Add(-time.Hour))
	n, err := s.InsertMetrics(ctx, []*MetricRecord{record})
	if err != nil {
		t.Fatalf("InsertMetrics() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 inserted, got %d", n)
	}

	results, err := s.RecentMetrics(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("RecentMetrics() failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(results))
	}

	got := results[0]
	if got.ID != record.ID {
		t.Errorf("Expected ID %q, got %q", record.ID, got.ID)
	}
	if got.CampaignID != "google_ads_campaign_1" {
		t.Errorf("Expected campaign id round-trip, got %q", got.CampaignID)
	}
	if got.Impressions != 10000 || got.Clicks != 300 {
		t.Errorf("Expected counters 10000/300, got %d/%d", got.Impressions, got.Clicks)
	}
	if got.ROAS != 3.0 {
		t.Errorf("Expected stored ROAS 3.0, got %f", got.ROAS)
	}
	if !got.Timestamp.Equal(record.Timestamp) {
		t.Errorf("Expected timestamp %v, got %v", record.Timestamp, got.Timestamp)
	}
}

// TestSQLiteStore_RecentOrdering tests newest-first ordering and the cutoff.
func TestSQLiteStore_RecentOrdering(t *testing.T) {
	s, _ := createTempStore(t)
	defer s.Close()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	if _, err := s.InsertMetrics(ctx, []*MetricRecord{
		makeRecord("old", "google_ads", now.Add(-48*time.Hour)),
		makeRecord("mid", "meta", now.Add(-2*time.Hour)),
		makeRecord("new", "linkedin", now.Add(-1*time.Hour)),
	}); err != nil {
		t.Fatalf("InsertMetrics() failed: %v", err)
	}

	results, err := s.RecentMetrics(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("RecentMetrics() failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 records inside window, got %d", len(results))
	}
	if results[0].CampaignID != "new" || results[1].CampaignID != "mid" {
		t.Errorf("Expected [new mid], got [%s %s]", results[0].CampaignID, results[1].CampaignID)
	}
}

// TestSQLiteStore_CampaignHistory tests the trailing-days window.
func TestSQLiteStore_CampaignHistory(t *testing.T) {
	s, _ := createTempStore(t)
	defer s.Close()

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	if _, err := s.InsertMetrics(ctx, []*MetricRecord{
		makeRecord("c1", "google_ads", now.Add(-10*24*time.Hour)),
		makeRecord("c1", "google_ads", now.Add(-3*24*time.Hour)),
		makeRecord("c1", "google_ads", now.Add(-1*24*time.Hour)),
		makeRecord("c2", "meta", now.Add(-2*24*time.Hour)),
	}); err != nil {
		t.Fatalf("InsertMetrics() failed: %v", err)
	}

	history, err := s.CampaignHistory(ctx, "c1", 7)
	if err != nil {
		t.Fatalf("CampaignHistory() failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(history))
	}
	if !history[0].Timestamp.Before(history[1].Timestamp) {
		t.Error("Expected oldest-first ordering")
	}
	for _, record := range history {
		if record.CampaignID != "c1" {
			t.Errorf("Expected only campaign c1, got %q", record.CampaignID)
		}
	}
}

// TestSQLiteStore_PlatformsAndCampaigns tests distinct listings.
func TestSQLiteStore_PlatformsAndCampaigns(t *testing.T) {
	s, _ := createTempStore(t)
	defer s.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	if _, err := s.InsertMetrics(ctx, []*MetricRecord{
		makeRecord("c2", "meta", now),
		makeRecord("c1", "google_ads", now),
		makeRecord("c1", "google_ads", now.Add(-time.Hour)),
	}); err != nil {
		t.Fatalf("InsertMetrics() failed: %v", err)
	}

	platforms, err := s.Platforms(ctx)
	if err != nil {
		t.Fatalf("Platforms() failed: %v", err)
	}
	if len(platforms) != 2 || platforms[0] != "google_ads" || platforms[1] != "meta" {
		t.Errorf("Expected [google_ads meta], got %v", platforms)
	}

	campaigns, err := s.ListCampaigns(ctx)
	if err != nil {
		t.Fatalf("ListCampaigns() failed: %v", err)
	}
	if len(campaigns) != 2 {
		t.Fatalf("Expected 2 campaigns, got %d", len(campaigns))
	}
	if campaigns[0].CampaignID != "c1" || campaigns[0].Platform != "google_ads" {
		t.Errorf("Unexpected first campaign: %+v", campaigns[0])
	}
}

// TestSQLiteStore_ValidationRejectsBatch tests transactional inserts.
func TestSQLiteStore_ValidationRejectsBatch(t *testing.T) {
	s, _ := createTempStore(t)
	defer s.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	n, err := s.InsertMetrics(ctx, []*MetricRecord{
		makeRecord("c1", "google_ads", now),
		makeRecord("c2", "myspace", now),
	})
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if n != 0 {
		t.Errorf("Expected 0 inserted on failure, got %d", n)
	}

	// The transaction rolled back, so the valid record is absent too.
	results, err := s.RecentMetrics(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("RecentMetrics() failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty store after rollback, got %d records", len(results))
	}
}

// TestSQLiteStore_EmptyInsert tests the empty batch shortcut.
func TestSQLiteStore_EmptyInsert(t *testing.T) {
	s, _ := createTempStore(t)
	defer s.Close()

	n, err := s.InsertMetrics(context.Background(), nil)
	if err != nil {
		t.Fatalf("InsertMetrics(nil) failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 inserted, got %d", n)
	}
}

// TestSQLiteStore_PersistsAcrossReopen tests durability.
func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	config := &SQLiteConfig{Path: dbPath, WALMode: true, BusyTimeout: time.Second}

	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	s, err := NewSQLiteStore(config)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if _, err := s.InsertMetrics(ctx, []*MetricRecord{makeRecord("c1", "google_ads", now)}); err != nil {
		t.Fatalf("InsertMetrics() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened, err := NewSQLiteStore(config)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	results, err := reopened.RecentMetrics(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("RecentMetrics() failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 persisted record, got %d", len(results))
	}
}

// TestSQLiteStore_Ping tests connectivity probing.
func TestSQLiteStore_Ping(t *testing.T) {
	s, _ := createTempStore(t)
	defer s.Close()

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() failed: %v", err)
	}
	if s.DB() == nil {
		t.Error("Expected DB() to expose the handle")
	}
}
