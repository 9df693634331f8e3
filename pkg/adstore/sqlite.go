package adstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteLibrary implements the Library interface using SQLite. The ad
// library sees few writes, so a single connection with WAL journaling
// is sufficient; similarity scoring runs in process over the full set.
type SQLiteLibrary struct {
	db        *sql.DB
	dbPath    string
	mu        sync.RWMutex
	closeOnce sync.Once

	saveStmt        *sql.Stmt
	listStmt        *sql.Stmt
	topStmt         *sql.Stmt
	topPlatformStmt *sql.Stmt
}

// SQLiteConfig configures the SQLite ad library.
type SQLiteConfig struct {
	// Path is the SQLite database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteLibrary creates a SQLite ad library with default settings.
func NewSQLiteLibrary(path string) (*SQLiteLibrary, error) {
	return NewSQLiteLibraryWithConfig(SQLiteConfig{
		Path:        path,
		BusyTimeout: 5 * time.Second,
	})
}

// NewSQLiteLibraryWithConfig creates a SQLite ad library with custom
// configuration. It creates the database file's parent directory when
// missing.
func NewSQLiteLibraryWithConfig(cfg SQLiteConfig) (*SQLiteLibrary, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	lib := &SQLiteLibrary{
		db:     db,
		dbPath: cfg.Path,
	}

	if err := lib.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := lib.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	return lib, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteLibrary) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS ads (
		ad_id TEXT PRIMARY KEY,
		campaign_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		headline TEXT NOT NULL,
		description TEXT NOT NULL,
		cta TEXT NOT NULL,
		ctr REAL NOT NULL,
		conversions INTEGER NOT NULL,
		roas REAL NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ads_platform ON ads(platform);
	`

	_, err := s.db.Exec(schema)
	return err
}

const adColumns = "ad_id, campaign_id, platform, headline, description, cta, ctr, conversions, roas, created_at"

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteLibrary) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO ads (` + adColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (ad_id) DO UPDATE SET
			campaign_id = excluded.campaign_id,
			platform = excluded.platform,
			headline = excluded.headline,
			description = excluded.description,
			cta = excluded.cta,
			ctr = excluded.ctr,
			conversions = excluded.conversions,
			roas = excluded.roas,
			created_at = excluded.created_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT ` + adColumns + ` FROM ads ORDER BY ad_id
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	s.topStmt, err = s.db.Prepare(`
		SELECT ` + adColumns + ` FROM ads
		ORDER BY roas * ctr DESC, ad_id
		LIMIT ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare top statement: %w", err)
	}

	s.topPlatformStmt, err = s.db.Prepare(`
		SELECT ` + adColumns + ` FROM ads
		WHERE platform = ?
		ORDER BY roas * ctr DESC, ad_id
		LIMIT ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare platform top statement: %w", err)
	}

	return nil
}

// StoreAd validates and persists an ad, replacing any previous ad with
// the same ID. A zero CreatedAt is stamped with the current time.
func (s *SQLiteLibrary) StoreAd(ctx context.Context, ad *StoredAd) error {
	if err := ad.Validate(); err != nil {
		return err
	}

	createdAt := ad.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.saveStmt.ExecContext(ctx,
		ad.ID,
		ad.CampaignID,
		ad.Platform,
		ad.Headline,
		ad.Description,
		ad.CTA,
		ad.CTR,
		ad.Conversions,
		ad.ROAS,
		createdAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save ad: %w", err)
	}

	return nil
}

// FindSimilar returns ads whose creative text shares words with the
// query, best match first. Word overlap cannot be expressed in SQL, so
// the full set is loaded and scored in process.
func (s *SQLiteLibrary) FindSimilar(ctx context.Context, query string, floor PerformanceFloor, limit int) ([]*ScoredAd, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ads: %w", err)
	}

	ads, err := scanAds(rows)
	if err != nil {
		return nil, err
	}

	return scoreSimilar(ads, query, floor, limit), nil
}

// TopPerformers returns ads ranked by ROAS multiplied by CTR. An empty
// platform means all platforms.
func (s *SQLiteLibrary) TopPerformers(ctx context.Context, platform string, limit int) ([]*StoredAd, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows *sql.Rows
	var err error
	if platform == "" {
		rows, err = s.topStmt.QueryContext(ctx, limit)
	} else {
		rows, err = s.topPlatformStmt.QueryContext(ctx, platform, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query top performers: %w", err)
	}

	return scanAds(rows)
}

// AnalyzePatterns summarizes the library's top performers. It returns
// nil when the library is empty.
func (s *SQLiteLibrary) AnalyzePatterns(ctx context.Context) (*Patterns, error) {
	top, err := s.TopPerformers(ctx, "", patternSampleSize)
	if err != nil {
		return nil, err
	}
	return analyzeAds(top), nil
}

// DB exposes the underlying database handle for health probes.
func (s *SQLiteLibrary) DB() *sql.DB {
	return s.db
}

// Close releases any resources held by the library.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteLibrary) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		if s.saveStmt != nil {
			s.saveStmt.Close()
		}
		if s.listStmt != nil {
			s.listStmt.Close()
		}
		if s.topStmt != nil {
			s.topStmt.Close()
		}
		if s.topPlatformStmt != nil {
			s.topPlatformStmt.Close()
		}

		if s.db != nil {
			// Run final checkpoint
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// scanAds drains rows into stored ads. It always closes rows.
func scanAds(rows *sql.Rows) ([]*StoredAd, error) {
	defer rows.Close()

	var ads []*StoredAd
	for rows.Next() {
		var ad StoredAd
		var createdAt int64

		if err := rows.Scan(
			&ad.ID,
			&ad.CampaignID,
			&ad.Platform,
			&ad.Headline,
			&ad.Description,
			&ad.CTA,
			&ad.CTR,
			&ad.Conversions,
			&ad.ROAS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		ad.CreatedAt = time.Unix(createdAt, 0).UTC()
		ads = append(ads, &ad)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ads, nil
}
