package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS crawls (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    root_path TEXT NOT NULL,
    asset_count INTEGER DEFAULT 0,
    crawled_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS crawl_signals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    crawl_id INTEGER NOT NULL REFERENCES crawls(id),
    asset TEXT NOT NULL,
    report_date TEXT,
    signal TEXT NOT NULL,
    last_signal TEXT,
    up_probability TEXT,
    sideways_probability TEXT,
    down_probability TEXT,
    sentiment TEXT,
    vix TEXT,
    consensus TEXT,
    indicators TEXT,
    explanation TEXT
);

CREATE INDEX IF NOT EXISTS idx_crawl_signals_crawl ON crawl_signals(crawl_id);
CREATE INDEX IF NOT EXISTS idx_crawl_signals_asset ON crawl_signals(asset);
`)
			return err
		},
	},
}

// latestVersion returns the highest migration version number.
func latestVersion() int {
	if len(migrations) == 0 {
		return 0
	}
	return migrations[len(migrations)-1].Version
}
