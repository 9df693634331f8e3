package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/crosswind.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger

	insertStmt    *sql.Stmt
	recentStmt    *sql.Stmt
	historyStmt   *sql.Stmt
	platformsStmt *sql.Stmt
	campaignsStmt *sql.Stmt
}

// NewSQLiteStore creates a new SQLite storage backend. It creates the
// database file's parent directory when missing, initializes the schema,
// and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Path == "" {
		return nil, NewStoreError("sqlite", "open", fmt.Errorf("path cannot be empty"))
	}

	logger := slog.Default().With("component", "store.sqlite")

	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewStoreError("sqlite", "open", err)
		}
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStoreError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, NewStoreError("sqlite", "prepare", err)
	}

	logger.Info("SQLite store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStoreError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStoreError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return NewStoreError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewStoreError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewStoreError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStoreError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertStmt, err = s.db.Prepare(`
		INSERT INTO campaign_metrics (
			id, campaign_id, campaign_name, platform, timestamp,
			impressions, clicks, conversions,
			daily_spend, daily_budget_limit, revenue, cpc,
			ctr, roas, budget_utilization
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	s.recentStmt, err = s.db.Prepare(`
		SELECT id, campaign_id, campaign_name, platform, timestamp,
			impressions, clicks, conversions,
			daily_spend, daily_budget_limit, revenue, cpc,
			ctr, roas, budget_utilization
		FROM campaign_metrics
		WHERE timestamp > ?
		ORDER BY timestamp DESC
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare recent statement: %w", err)
	}

	s.historyStmt, err = s.db.Prepare(`
		SELECT id, campaign_id, campaign_name, platform, timestamp,
			impressions, clicks, conversions,
			daily_spend, daily_budget_limit, revenue, cpc,
			ctr, roas, budget_utilization
		FROM campaign_metrics
		WHERE campaign_id = ? AND timestamp > ?
		ORDER BY timestamp
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare history statement: %w", err)
	}

	s.platformsStmt, err = s.db.Prepare(`
		SELECT DISTINCT platform FROM campaign_metrics ORDER BY platform
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare platforms statement: %w", err)
	}

	s.campaignsStmt, err = s.db.Prepare(`
		SELECT DISTINCT campaign_id, campaign_name, platform
		FROM campaign_metrics
		ORDER BY campaign_id
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare campaigns statement: %w", err)
	}

	return nil
}

// InsertMetrics finalizes, validates, and persists a batch of records inside
// a single transaction. A validation failure rolls back the whole batch.
func (s *SQLiteStore) InsertMetrics(ctx context.Context, records []*MetricRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, NewStoreError("sqlite", "insert", err)
	}
	defer tx.Rollback()

	stmt := tx.StmtContext(ctx, s.insertStmt)
	for _, record := range records {
		record.Finalize()
		if err := record.Validate(); err != nil {
			return 0, NewStoreError("sqlite", "insert", err)
		}

		_, err := stmt.ExecContext(ctx,
			record.ID, record.CampaignID, record.CampaignName, record.Platform, record.Timestamp.UTC(),
			record.Impressions, record.Clicks, record.Conversions,
			record.DailySpend, record.DailyBudgetLimit, record.Revenue, record.CPC,
			record.CTR, record.ROAS, record.BudgetUtilization,
		)
		if err != nil {
			return 0, NewStoreError("sqlite", "insert", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, NewStoreError("sqlite", "insert", err)
	}

	s.logger.Debug("inserted metrics", "count", len(records))
	return len(records), nil
}

// RecentMetrics returns records observed after since, newest first.
func (s *SQLiteStore) RecentMetrics(ctx context.Context, since time.Time) ([]*MetricRecord, error) {
	rows, err := s.recentStmt.QueryContext(ctx, since.UTC())
	if err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}
	defer rows.Close()

	return s.scanRecords(rows)
}

// CampaignHistory returns one campaign's records from the trailing number of
// days, oldest first.
func (s *SQLiteStore) CampaignHistory(ctx context.Context, campaignID string, days int) ([]*MetricRecord, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := s.historyStmt.QueryContext(ctx, campaignID, cutoff)
	if err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}
	defer rows.Close()

	return s.scanRecords(rows)
}

// Platforms returns the distinct platforms present in the store.
func (s *SQLiteStore) Platforms(ctx context.Context) ([]string, error) {
	rows, err := s.platformsStmt.QueryContext(ctx)
	if err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}
	defer rows.Close()

	platforms := []string{}
	for rows.Next() {
		var platform string
		if err := rows.Scan(&platform); err != nil {
			return nil, NewStoreError("sqlite", "scan", err)
		}
		platforms = append(platforms, platform)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}

	return platforms, nil
}

// ListCampaigns returns the distinct campaigns present in the store.
func (s *SQLiteStore) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	rows, err := s.campaignsStmt.QueryContext(ctx)
	if err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}
	defer rows.Close()

	campaigns := []Campaign{}
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.CampaignID, &c.CampaignName, &c.Platform); err != nil {
			return nil, NewStoreError("sqlite", "scan", err)
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}

	return campaigns, nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// DB exposes the underlying database handle for health probes.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close releases resources held by the storage backend.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{
		s.insertStmt, s.recentStmt, s.historyStmt, s.platformsStmt, s.campaignsStmt,
	} {
		if stmt != nil {
			stmt.Close()
		}
	}

	if err := s.db.Close(); err != nil {
		return NewStoreError("sqlite", "close", err)
	}

	s.logger.Info("SQLite store closed")
	return nil
}

// scanRecords scans all rows into metric records.
func (s *SQLiteStore) scanRecords(rows *sql.Rows) ([]*MetricRecord, error) {
	records := []*MetricRecord{}
	for rows.Next() {
		var r MetricRecord
		err := rows.Scan(
			&r.ID, &r.CampaignID, &r.CampaignName, &r.Platform, &r.Timestamp,
			&r.Impressions, &r.Clicks, &r.Conversions,
			&r.DailySpend, &r.DailyBudgetLimit, &r.Revenue, &r.CPC,
			&r.CTR, &r.ROAS, &r.BudgetUtilization,
		)
		if err != nil {
			return nil, NewStoreError("sqlite", "scan", err)
		}
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStoreError("sqlite", "query", err)
	}

	return records, nil
}
