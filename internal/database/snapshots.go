package database

import (
	"database/sql"
	"fmt"
)

// RecordCrawl stores a crawl run and its per-asset signal rows in one
// transaction. Returns the new crawl ID.
func (db *DB) RecordCrawl(rootPath string, rows []SignalRow) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin crawl record: %w", err)
	}

	result, err := tx.Exec(
		"INSERT INTO crawls (root_path, asset_count) VALUES (?, ?)",
		rootPath, len(rows),
	)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("inserting crawl: %w", err)
	}
	crawlID, err := result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	for _, r := range rows {
		_, err := tx.Exec(
			`INSERT INTO crawl_signals
			(crawl_id, asset, report_date, signal, last_signal,
			 up_probability, sideways_probability, down_probability,
			 sentiment, vix, consensus, indicators, explanation)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			crawlID, r.Asset, r.ReportDate, r.Signal, r.LastSignal,
			r.Up, r.Sideways, r.Down,
			r.Sentiment, r.VIX, r.Consensus, r.Indicators, r.Explanation,
		)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("inserting signal for %s: %w", r.Asset, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit crawl record: %w", err)
	}
	return crawlID, nil
}

// GetLatestCrawl returns the most recent crawl, or nil if none exists.
func (db *DB) GetLatestCrawl() (*Crawl, error) {
	row := db.conn.QueryRow(
		"SELECT id, root_path, asset_count, crawled_at FROM crawls ORDER BY id DESC LIMIT 1",
	)
	var c Crawl
	err := row.Scan(&c.ID, &c.RootPath, &c.AssetCount, &c.CrawledAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetSignals returns the signal rows of one crawl, ordered by asset.
func (db *DB) GetSignals(crawlID int64) ([]SignalRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, crawl_id, asset, report_date, signal, last_signal,
		 up_probability, sideways_probability, down_probability,
		 sentiment, vix, consensus, indicators, explanation
		FROM crawl_signals WHERE crawl_id = ? ORDER BY asset`, crawlID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSignalRows(rows)
}

// GetAssetHistory returns all recorded snapshots of one asset across
// crawls, newest crawl first.
func (db *DB) GetAssetHistory(asset string) ([]SignalRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, crawl_id, asset, report_date, signal, last_signal,
		 up_probability, sideways_probability, down_probability,
		 sentiment, vix, consensus, indicators, explanation
		FROM crawl_signals WHERE asset = ? ORDER BY crawl_id DESC`, asset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSignalRows(rows)
}

// GetStats returns aggregate counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	var s Stats
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM crawls").Scan(&s.TotalCrawls); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM crawl_signals").Scan(&s.TotalSignals); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(DISTINCT asset) FROM crawl_signals").Scan(&s.Assets); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSignalRows(rows *sql.Rows) ([]SignalRow, error) {
	var out []SignalRow
	for rows.Next() {
		var r SignalRow
		if err := rows.Scan(&r.ID, &r.CrawlID, &r.Asset, &r.ReportDate, &r.Signal,
			&r.LastSignal, &r.Up, &r.Sideways, &r.Down,
			&r.Sentiment, &r.VIX, &r.Consensus, &r.Indicators, &r.Explanation); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
