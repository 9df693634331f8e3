// Package store provides storage backends for campaign performance metrics.
//
// # Storage Backends
//
// The store package defines the Store interface and provides two
// implementations:
//
//   - SQLite: Embedded database for single-node deployments
//   - Memory: In-memory storage for tests and dry-run pipelines
//
// # SQLite Backend
//
// The SQLite backend provides durable storage with:
//
//   - WAL mode for concurrent reads/writes
//   - Prepared statements for the hot insert and query paths
//   - Indexes on timestamp, campaign, and platform
//   - Busy timeout for handling locks
//
// # Basic Usage
//
//	s, err := store.NewSQLiteStore(&store.SQLiteConfig{
//	    Path:         "data/crosswind.db",
//	    MaxOpenConns: 10,
//	    MaxIdleConns: 5,
//	    WALMode:      true,
//	    BusyTimeout:  5 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	// Persist collected metrics
//	n, err := s.InsertMetrics(ctx, records)
//
//	// Pull the last day of observations, newest first
//	recent, err := s.RecentMetrics(ctx, time.Now().Add(-24*time.Hour))
//
//	// Pull a week of history for one campaign, oldest first
//	history, err := s.CampaignHistory(ctx, "google_ads_campaign_1", 7)
//
// # Derived Rates
//
// InsertMetrics finalizes every record before writing it: a missing ID gets
// a UUID, and CTR, ROAS, and budget utilization are computed from the raw
// counters. Records read back carry the stored derived values, so consumers
// never recompute them.
//
// # Thread Safety
//
// Both backends are safe for concurrent use. The SQLite backend relies on
// WAL mode plus the connection pool; the memory backend uses a read-write
// mutex and stores copies so callers cannot alias its internal state.
//
// # Schema Migration
//
// The SQLite backend initializes its schema on first use and records the
// schema version in the schema_version table for future migrations.
package store
