package store

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the campaign metrics schema.
const Schema = `
-- Campaign performance observations
CREATE TABLE IF NOT EXISTS campaign_metrics (
    id TEXT PRIMARY KEY,
    campaign_id TEXT NOT NULL,
    campaign_name TEXT NOT NULL,
    platform TEXT NOT NULL,
    timestamp TIMESTAMP NOT NULL,

    -- Raw performance counters
    impressions INTEGER NOT NULL,
    clicks INTEGER NOT NULL,
    conversions INTEGER NOT NULL,

    -- Budget tracking
    daily_spend REAL NOT NULL,
    daily_budget_limit REAL NOT NULL,
    revenue REAL NOT NULL,
    cpc REAL NOT NULL,

    -- Derived rates
    ctr REAL NOT NULL,
    roas REAL NOT NULL,
    budget_utilization REAL NOT NULL,

    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_metrics_timestamp ON campaign_metrics(timestamp);
CREATE INDEX IF NOT EXISTS idx_metrics_campaign ON campaign_metrics(campaign_id);
CREATE INDEX IF NOT EXISTS idx_metrics_platform ON campaign_metrics(platform);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
