package adstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryLibrary implements the Library interface in memory. It backs
// tests and dry-run pipelines where nothing should touch disk.
type MemoryLibrary struct {
	ads map[string]*StoredAd
	mu  sync.RWMutex
}

// NewMemoryLibrary creates a new in-memory ad library.
func NewMemoryLibrary() *MemoryLibrary {
	return &MemoryLibrary{
		ads: map[string]*StoredAd{},
	}
}

// StoreAd validates and stores an ad, replacing any previous ad with
// the same ID. A zero CreatedAt is stamped with the current time.
func (m *MemoryLibrary) StoreAd(ctx context.Context, ad *StoredAd) error {
	if err := ad.Validate(); err != nil {
		return err
	}

	adCopy := *ad
	if adCopy.CreatedAt.IsZero() {
		adCopy.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.ads[adCopy.ID] = &adCopy
	return nil
}

// FindSimilar returns ads whose creative text shares words with the
// query, best match first.
func (m *MemoryLibrary) FindSimilar(ctx context.Context, query string, floor PerformanceFloor, limit int) ([]*ScoredAd, error) {
	return scoreSimilar(m.snapshot(""), query, floor, limit), nil
}

// TopPerformers returns ads ranked by ROAS multiplied by CTR.
func (m *MemoryLibrary) TopPerformers(ctx context.Context, platform string, limit int) ([]*StoredAd, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	return rankByPerformance(m.snapshot(platform), limit), nil
}

// AnalyzePatterns summarizes the library's top performers. It returns
// nil when the library is empty.
func (m *MemoryLibrary) AnalyzePatterns(ctx context.Context) (*Patterns, error) {
	top := rankByPerformance(m.snapshot(""), patternSampleSize)
	return analyzeAds(top), nil
}

// Close releases the stored ads.
func (m *MemoryLibrary) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ads = map[string]*StoredAd{}
	return nil
}

// Size returns the number of stored ads (for testing).
func (m *MemoryLibrary) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.ads)
}

// snapshot copies the stored ads, optionally filtered by platform,
// in ID order so downstream ranking is deterministic.
func (m *MemoryLibrary) snapshot(platform string) []*StoredAd {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ads := make([]*StoredAd, 0, len(m.ads))
	for _, ad := range m.ads {
		if platform != "" && ad.Platform != platform {
			continue
		}
		adCopy := *ad
		ads = append(ads, &adCopy)
	}

	sort.Slice(ads, func(i, j int) bool {
		return ads[i].ID < ads[j].ID
	})
	return ads
}
