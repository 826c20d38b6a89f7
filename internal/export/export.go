// Package export writes the signal snapshot in the external consumer
// format: a semicolon-separated CSV read by the downstream trading
// robot. The robot has its own vocabulary, so signals and asset names
// are remapped here and only here.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/antigravity/sentimon/internal/crawler"
	"github.com/antigravity/sentimon/internal/signal"
)

// FileName is the fixed name of the export file. The consumer polls
// this exact path, so it never changes.
const FileName = "last_known_signals.csv"

// ExternalSignal maps a canonical signal to the consumer vocabulary.
// Anything unknown degrades to NEUTRAL rather than breaking the
// consumer.
func ExternalSignal(s signal.Signal) string {
	switch s {
	case signal.Rises:
		return "BUY"
	case signal.Falls:
		return "SELL"
	case signal.Sideways:
		return "NEUTRAL"
	case signal.Panic:
		return "STOP"
	}
	return "NEUTRAL"
}

// ExternalAsset maps folder names to the consumer's instrument names.
// Metals trade under their common names there, not their tickers.
func ExternalAsset(asset string) string {
	switch strings.ToUpper(asset) {
	case "XAUUSD":
		return "GOLD"
	case "XAGUSD":
		return "SILVER"
	}
	return asset
}

// WriteLastKnownSignals writes one row per asset record into
// last_known_signals.csv under dir, creating dir if needed. Returns
// the written file path.
func WriteLastKnownSignals(dir string, records []crawler.AssetRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write([]string{"Waehrungspaar", "Letztes_Signal"}); err != nil {
		return "", fmt.Errorf("writing export header: %w", err)
	}
	for _, r := range records {
		if err := w.Write([]string{ExternalAsset(r.Asset), ExternalSignal(r.Signal)}); err != nil {
			return "", fmt.Errorf("writing export row for %s: %w", r.Asset, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing export file: %w", err)
	}
	return path, nil
}
