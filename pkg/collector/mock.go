package collector

import (
	"context"
	"fmt"
	"time"

	"meridian-hq/crosswind/internal/mockdata"
	"meridian-hq/crosswind/pkg/store"
)

// MockSource is a PlatformSource backed by the mock data generator. It
// stands in for real platform API connectors during development and in
// dry runs.
type MockSource struct {
	platform  string
	campaigns int
	gen       *mockdata.Generator
}

// NewMockSource creates a mock source for the given platform. The
// campaign count controls how many records each Fetch returns.
func NewMockSource(platform string, campaigns int, gen *mockdata.Generator) (*MockSource, error) {
	if !store.IsValidPlatform(platform) {
		return nil, fmt.Errorf("unknown platform: %q", platform)
	}
	if campaigns <= 0 {
		return nil, fmt.Errorf("campaign count must be positive, got %d", campaigns)
	}
	if gen == nil {
		gen = mockdata.NewGenerator(0)
	}
	return &MockSource{
		platform:  platform,
		campaigns: campaigns,
		gen:       gen,
	}, nil
}

// Platform returns the platform identifier.
func (m *MockSource) Platform() string {
	return m.platform
}

// Fetch generates mock records. The window is ignored; generated
// timestamps are spread over the trailing day regardless.
func (m *MockSource) Fetch(ctx context.Context, window time.Duration) ([]*store.MetricRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.gen.Campaigns(m.platform, m.campaigns, time.Now().UTC()), nil
}

// MockSources builds one mock source per platform, sharing a single
// generator so records across platforms draw from one sequence.
func MockSources(platforms []string, campaigns int, seed int64) ([]PlatformSource, error) {
	gen := mockdata.NewGenerator(seed)
	sources := make([]PlatformSource, 0, len(platforms))
	for _, platform := range platforms {
		src, err := NewMockSource(platform, campaigns, gen)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}
