// Package crawler walks a directory tree of forecast reports and
// assembles the current per-asset snapshot and per-asset history.
//
// An asset folder is any directory that directly contains at least one
// .txt report file. Folders qualify at any depth, and a qualifying
// folder does not stop the walk: asset folders nested inside other
// asset folders are processed independently.
package crawler

import (
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/antigravity/sentimon/internal/report"
	"github.com/antigravity/sentimon/internal/signal"
)

// AssetRecord is the current snapshot of one tracked asset.
type AssetRecord struct {
	Asset string
	Path  string // asset folder, used to re-load history later

	Date       string
	ParsedDate time.Time
	Signal     signal.Signal

	// LastSignal is the signal of the most recent report with a date
	// strictly earlier than the current one; None when no such report
	// exists.
	LastSignal     signal.Signal
	LastSignalDate string

	Sentiment   string // "{long} L / {short} S"
	VIX         string
	Consensus   string
	Indicators  string // "RSI={rsi}, ATR={atr}"
	Up          string
	Sideways    string
	Down        string
	Explanation string

	Report *report.Report
}

// HistoryEntry is one dated report inside an asset's file set.
type HistoryEntry struct {
	Date       string
	ParsedDate time.Time // zero = unknown, sorts as the minimum date
	Up         string
	Sideways   string
	Down       string
	Signal     signal.Signal
	SourcePath string
}

// Crawler discovers asset folders and parses their reports. It holds
// no state between calls; every crawl is a fresh snapshot.
type Crawler struct {
	policy signal.Policy
}

// New creates a crawler deriving signals under the given policy.
func New(policy signal.Policy) *Crawler {
	return &Crawler{policy: policy}
}

// Crawl walks root depth-first and returns one record per asset
// folder. A missing or unreadable root yields an empty result, and a
// single unreadable file never aborts the walk.
func (c *Crawler) Crawl(root string) []AssetRecord {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	var records []AssetRecord
	c.walk(root, &records)
	return records
}

func (c *Crawler) walk(dir string, records *[]AssetRecord) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("skipping unreadable directory %s: %v", dir, err)
		return
	}

	if files := reportFiles(dir, entries); len(files) > 0 {
		if rec, ok := c.processAssetFolder(dir, files); ok {
			*records = append(*records, rec)
		}
	}

	for _, e := range entries {
		if e.IsDir() {
			c.walk(filepath.Join(dir, e.Name()), records)
		}
	}
}

// reportFiles lists the directory's own report files, newest
// modification time first.
func reportFiles(dir string, entries []os.DirEntry) []string {
	type file struct {
		path    string
		modTime time.Time
	}
	var files []file
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".txt") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			log.Printf("skipping unreadable file %s: %v", filepath.Join(dir, e.Name()), err)
			continue
		}
		files = append(files, file{filepath.Join(dir, e.Name()), info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].modTime.After(files[j].modTime) })

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths
}

func (c *Crawler) processAssetFolder(dir string, files []string) (AssetRecord, bool) {
	current, err := os.ReadFile(files[0])
	if err != nil {
		log.Printf("skipping unreadable report %s: %v", files[0], err)
		return AssetRecord{}, false
	}

	rep := report.Parse(string(current))
	sig := signal.Derive(rep, c.policy)
	last, lastDate := c.lookbackSignal(rep, files[1:])

	return AssetRecord{
		Asset:          filepath.Base(dir),
		Path:           dir,
		Date:           rep.Date,
		ParsedDate:     rep.ParsedDate,
		Signal:         sig,
		LastSignal:     last,
		LastSignalDate: lastDate,
		Sentiment:      rep.FxssiLong + " L / " + rep.FxssiShort + " S",
		VIX:            rep.VIX,
		Consensus:      rep.ConsensusNumbers,
		Indicators:     "RSI=" + rep.RSI + ", ATR=" + rep.ATR,
		Up:             rep.UpProbability,
		Sideways:       rep.SidewaysProbability,
		Down:           rep.DownProbability,
		Explanation:    excerpt(rep),
		Report:         rep,
	}, true
}

// lookbackSignal scans the remaining files (already newest-first) for
// the first one whose date parses and is strictly earlier than the
// current report's date. Unknown dates never satisfy the test — on
// either side of the comparison.
func (c *Crawler) lookbackSignal(current *report.Report, older []string) (signal.Signal, string) {
	if current.ParsedDate.IsZero() {
		return signal.None, ""
	}
	for _, path := range older {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("skipping unreadable report %s: %v", path, err)
			continue
		}
		rep := report.Parse(string(content))
		if rep.ParsedDate.IsZero() || !rep.ParsedDate.Before(current.ParsedDate) {
			continue
		}
		return signal.Derive(rep, c.policy), rep.Date
	}
	return signal.None, ""
}

// LoadHistory parses every report file of one asset folder, newest
// modification time first, and returns one entry per readable file —
// including files with colliding or unparseable dates. Unsectioned
// legacy documents contribute one entry per day found in them.
func (c *Crawler) LoadHistory(assetPath string) []HistoryEntry {
	entries, err := os.ReadDir(assetPath)
	if err != nil {
		log.Printf("cannot read asset folder %s: %v", assetPath, err)
		return nil
	}

	var history []HistoryEntry
	for _, path := range reportFiles(assetPath, entries) {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("skipping unreadable report %s: %v", path, err)
			continue
		}
		rep := report.Parse(string(content))

		if isUnsectioned(rep) {
			if days := report.ParseLegacy(string(content)); len(days) > 0 {
				for _, d := range days {
					history = append(history, HistoryEntry{
						Date:       d.Date,
						Up:         d.Up,
						Sideways:   d.Sideways,
						Down:       d.Down,
						Signal:     signal.Derive(dayReport(d), c.policy),
						SourcePath: path,
					})
				}
				continue
			}
		}

		history = append(history, HistoryEntry{
			Date:       rep.Date,
			ParsedDate: rep.ParsedDate,
			Up:         rep.UpProbability,
			Sideways:   rep.SidewaysProbability,
			Down:       rep.DownProbability,
			Signal:     signal.Derive(rep, c.policy),
			SourcePath: path,
		})
	}
	return history
}

// isUnsectioned reports whether the sectioned parse came up empty: no
// date and only default probabilities. Such documents are candidates
// for the legacy line format.
func isUnsectioned(rep *report.Report) bool {
	return rep.ParsedDate.IsZero() &&
		rep.UpProbability == "0%" &&
		rep.SidewaysProbability == "0%" &&
		rep.DownProbability == "0%" &&
		!rep.HasControlSignal
}

// dayReport lifts one legacy per-day forecast into a report so the
// regular derivation applies. Legacy documents carry no control or
// panic fields, so derivation reduces to probability dominance.
func dayReport(d report.DayForecast) *report.Report {
	r := report.New()
	r.Date = d.Date
	r.UpProbability = d.Up
	r.SidewaysProbability = d.Sideways
	r.DownProbability = d.Down
	return r
}

const noJustification = "Keine Begründung verfügbar"

var sentenceEndRe = regexp.MustCompile(`[.!?]\s+`)

// excerpt builds the short signal explanation: the first three
// sentences of the rationale block that justifies the control signal,
// else the "Finaler Bias:" line of the derivation, else a placeholder.
func excerpt(rep *report.Report) string {
	for _, ra := range rep.Rationales {
		title := strings.ToUpper(ra.Title)
		justification := strings.Contains(title, "BEGRÜNDUNG") || strings.Contains(title, "BEGRUENDUNG")
		if justification && strings.Contains(title, "CSV_SIGNAL") {
			return firstSentences(ra.Body, 3)
		}
	}

	for _, line := range strings.Split(rep.DerivationText, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Finaler Bias:") {
			return line
		}
	}
	return noJustification
}

// firstSentences cuts text after the n-th sentence terminator that is
// followed by whitespace.
func firstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	ends := sentenceEndRe.FindAllStringIndex(text, n)
	if len(ends) < n {
		return text
	}
	return strings.TrimSpace(text[:ends[n-1][0]+1])
}
