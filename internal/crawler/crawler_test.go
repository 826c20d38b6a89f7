package crawler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/antigravity/sentimon/internal/report"
	"github.com/antigravity/sentimon/internal/signal"
)

func reportDoc(date, csvSignal string) string {
	return `### SECTION_0_DATEN_BASIS
Datum: ` + date + `
FXSSI Long Position: 60%
FXSSI Short Position: 40%
RSI (14): 43.4
ATR (14): 0.0052

### SECTION_1_RISIKO_PROFIL
Wahrscheinlichkeit, dass der Kurs steigt: 20%
Wahrscheinlichkeit seitwärts: 30%
Wahrscheinlichkeit, dass der Kurs fällt: 50%

### SECTION_2_LOGISCHE_HERLEITUNG
Panic-Check Status: Sicher
Finaler Bias: bärisch

### SECTION_3_ROBOTER_STEUERUNG
CSV_SIGNAL: ` + csvSignal + `
`
}

func writeFileAt(t *testing.T, dir, name, content string, mtime time.Time) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	return path
}

func TestCrawlCurrentAndLastSignal(t *testing.T) {
	root := t.TempDir()
	asset := filepath.Join(root, "EURUSD")
	now := time.Now()

	writeFileAt(t, asset, "analyse_alt.txt", reportDoc("2026-01-19", "BUY"), now.Add(-time.Hour))
	writeFileAt(t, asset, "analyse_neu.txt", reportDoc("2026-01-20", "SELL"), now)

	records := New(signal.PolicyControlFirst).Crawl(root)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Asset != "EURUSD" {
		t.Errorf("asset = %q", r.Asset)
	}
	if r.Date != "2026-01-20" {
		t.Errorf("date = %q, want 2026-01-20", r.Date)
	}
	if r.Signal != signal.Falls {
		t.Errorf("signal = %s, want FALLS", r.Signal)
	}
	if r.LastSignal != signal.Rises {
		t.Errorf("last signal = %s, want RISES", r.LastSignal)
	}
	if r.LastSignalDate != "2026-01-19" {
		t.Errorf("last signal date = %q, want 2026-01-19", r.LastSignalDate)
	}
	if r.Sentiment != "60% L / 40% S" {
		t.Errorf("sentiment = %q", r.Sentiment)
	}
	if r.Indicators != "RSI=43.4, ATR=0.0052" {
		t.Errorf("indicators = %q", r.Indicators)
	}
}

func TestCrawlSingleFileNoLastSignal(t *testing.T) {
	root := t.TempDir()
	writeFileAt(t, filepath.Join(root, "EURUSD"), "analyse.txt",
		reportDoc("2026-01-20", "SELL"), time.Now())

	records := New(signal.PolicyControlFirst).Crawl(root)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].LastSignal != signal.None {
		t.Errorf("last signal = %q, want none", records[0].LastSignal)
	}
}

func TestCrawlUnparseableDateNoLookback(t *testing.T) {
	root := t.TempDir()
	asset := filepath.Join(root, "EURUSD")
	now := time.Now()

	// Older file has a date, but the current one does not parse, so no
	// strictly-earlier comparison is possible.
	writeFileAt(t, asset, "alt.txt", reportDoc("2026-01-19", "BUY"), now.Add(-time.Hour))
	writeFileAt(t, asset, "neu.txt", reportDoc("unbekannt", "SELL"), now)

	records := New(signal.PolicyControlFirst).Crawl(root)
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].LastSignal != signal.None {
		t.Errorf("last signal = %q, want none for unparseable current date", records[0].LastSignal)
	}
}

func TestCrawlSameDateNotStrictlyEarlier(t *testing.T) {
	root := t.TempDir()
	asset := filepath.Join(root, "EURUSD")
	now := time.Now()

	writeFileAt(t, asset, "a.txt", reportDoc("2026-01-20", "BUY"), now.Add(-time.Hour))
	writeFileAt(t, asset, "b.txt", reportDoc("2026-01-20", "SELL"), now)

	records := New(signal.PolicyControlFirst).Crawl(root)
	if records[0].LastSignal != signal.None {
		t.Errorf("last signal = %q, want none for equal dates", records[0].LastSignal)
	}
}

func TestCrawlNestedAssetFolders(t *testing.T) {
	root := t.TempDir()
	now := time.Now()

	writeFileAt(t, filepath.Join(root, "EURUSD"), "a.txt", reportDoc("2026-01-20", "SELL"), now)
	writeFileAt(t, filepath.Join(root, "EURUSD", "H4"), "b.txt", reportDoc("2026-01-20", "BUY"), now)
	writeFileAt(t, filepath.Join(root, "metals", "XAUUSD"), "c.txt", reportDoc("2026-01-20", "NEUTRAL"), now)

	records := New(signal.PolicyControlFirst).Crawl(root)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	seen := map[string]signal.Signal{}
	for _, r := range records {
		seen[r.Asset] = r.Signal
	}
	if seen["EURUSD"] != signal.Falls || seen["H4"] != signal.Rises || seen["XAUUSD"] != signal.Sideways {
		t.Errorf("unexpected signals: %v", seen)
	}
}

func TestCrawlIgnoresNonReportFiles(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "EURUSD")
	writeFileAt(t, dir, "notizen.md", "kein Bericht", time.Now())
	writeFileAt(t, dir, "daten.csv", "a;b", time.Now())

	records := New(signal.PolicyControlFirst).Crawl(root)
	if len(records) != 0 {
		t.Fatalf("expected no records for non-txt files, got %d", len(records))
	}
}

func TestCrawlMissingRoot(t *testing.T) {
	records := New(signal.PolicyControlFirst).Crawl(filepath.Join(t.TempDir(), "fehlt"))
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestLoadHistoryNewestFirst(t *testing.T) {
	root := t.TempDir()
	asset := filepath.Join(root, "EURUSD")
	now := time.Now()

	writeFileAt(t, asset, "alt.txt", reportDoc("2026-01-19", "BUY"), now.Add(-time.Hour))
	writeFileAt(t, asset, "neu.txt", reportDoc("2026-01-20", "SELL"), now)

	history := New(signal.PolicyControlFirst).LoadHistory(asset)
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].Date != "2026-01-20" || history[1].Date != "2026-01-19" {
		t.Errorf("unexpected order: %s, %s", history[0].Date, history[1].Date)
	}
	if history[0].Signal != signal.Falls || history[1].Signal != signal.Rises {
		t.Errorf("unexpected signals: %s, %s", history[0].Signal, history[1].Signal)
	}
	if history[0].SourcePath == "" {
		t.Error("expected source paths to be set")
	}
}

func TestLoadHistoryLegacyDocument(t *testing.T) {
	root := t.TempDir()
	asset := filepath.Join(root, "EURUSD")
	legacy := `Wochenausblick

**Montag, 5. Januar 2026:**
Steigt: 60%
Seitwärts: 25%
Fällt: 15%

**Dienstag, 6. Januar 2026:**
Steigt: 10%
Seitwärts: 30%
Fällt: 60%
`
	writeFileAt(t, asset, "woche.txt", legacy, time.Now())

	history := New(signal.PolicyControlFirst).LoadHistory(asset)
	if len(history) != 2 {
		t.Fatalf("expected 2 per-day entries, got %d", len(history))
	}
	if history[0].Date != "Mo 5.1.26" || history[1].Date != "Di 6.1.26" {
		t.Errorf("unexpected dates: %s, %s", history[0].Date, history[1].Date)
	}
	if history[0].Signal != signal.Rises || history[1].Signal != signal.Falls {
		t.Errorf("unexpected signals: %s, %s", history[0].Signal, history[1].Signal)
	}
}

func TestExcerptFromRationale(t *testing.T) {
	r := report.New()
	r.Rationales = []report.Rationale{
		{Title: "Begründung des CSV_SIGNALS", Body: "Erster Satz. Zweiter Satz! Dritter Satz? Vierter Satz."},
	}
	got := excerpt(r)
	if got != "Erster Satz. Zweiter Satz! Dritter Satz?" {
		t.Errorf("excerpt = %q", got)
	}
	if strings.Contains(got, "Vierter") {
		t.Error("excerpt must stop after three sentences")
	}
}

func TestExcerptFallbackToBias(t *testing.T) {
	r := report.New()
	r.DerivationText = "Analyse läuft.\nFinaler Bias: bärisch\nweiterer Text"
	got := excerpt(r)
	if got != "Finaler Bias: bärisch" {
		t.Errorf("excerpt = %q", got)
	}
}

func TestExcerptPlaceholder(t *testing.T) {
	if got := excerpt(report.New()); got != "Keine Begründung verfügbar" {
		t.Errorf("excerpt = %q", got)
	}
}
