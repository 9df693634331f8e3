package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// MemoryStore implements the Store interface using an in-memory slice.
// It backs tests and dry-run pipelines where nothing should touch disk.
type MemoryStore struct {
	records []*MetricRecord
	closed  bool
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory storage backend.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: []*MetricRecord{},
	}
}

// InsertMetrics finalizes, validates, and stores a batch of records.
// A validation failure rejects the whole batch.
func (s *MemoryStore) InsertMetrics(ctx context.Context, records []*MetricRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	copies := make([]*MetricRecord, 0, len(records))
	for _, record := range records {
		record.Finalize()
		if err := record.Validate(); err != nil {
			return 0, NewStoreError("memory", "insert", err)
		}

		// Store a copy to isolate callers from later mutation.
		recordCopy := *record
		copies = append(copies, &recordCopy)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, copies...)
	return len(copies), nil
}

// RecentMetrics returns records observed after since, newest first.
func (s *MemoryStore) RecentMetrics(ctx context.Context, since time.Time) ([]*MetricRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*MetricRecord{}
	for _, record := range s.records {
		if record.Timestamp.After(since) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})

	return results, nil
}

// CampaignHistory returns one campaign's records from the trailing number of
// days, oldest first.
func (s *MemoryStore) CampaignHistory(ctx context.Context, campaignID string, days int) ([]*MetricRecord, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*MetricRecord{}
	for _, record := range s.records {
		if record.CampaignID == campaignID && record.Timestamp.After(cutoff) {
			recordCopy := *record
			results = append(results, &recordCopy)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Timestamp.Before(results[j].Timestamp)
	})

	return results, nil
}

// Platforms returns the distinct platforms present in the store.
func (s *MemoryStore) Platforms(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	platforms := []string{}
	for _, record := range s.records {
		if _, ok := seen[record.Platform]; !ok {
			seen[record.Platform] = struct{}{}
			platforms = append(platforms, record.Platform)
		}
	}

	sort.Strings(platforms)
	return platforms, nil
}

// ListCampaigns returns the distinct campaigns present in the store.
func (s *MemoryStore) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	campaigns := []Campaign{}
	for _, record := range s.records {
		if _, ok := seen[record.CampaignID]; !ok {
			seen[record.CampaignID] = struct{}{}
			campaigns = append(campaigns, Campaign{
				CampaignID:   record.CampaignID,
				CampaignName: record.CampaignName,
				Platform:     record.Platform,
			})
		}
	}

	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].CampaignID < campaigns[j].CampaignID
	})

	return campaigns, nil
}

// Ping reports whether the backend is usable. Like the SQLite backend,
// a closed store is not reachable.
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return NewStoreError("memory", "ping", errors.New("store is closed"))
	}
	return nil
}

// Close releases the stored records.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = []*MetricRecord{}
	s.closed = true
	return nil
}

// Clear removes all records from storage (for testing).
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = []*MetricRecord{}
}

// Size returns the number of records in storage (for testing).
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}
