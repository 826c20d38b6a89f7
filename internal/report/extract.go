package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Chain is an ordered list of fallback patterns for one logical field.
// Patterns are tried in order; the first capturing match wins. Chains
// are built once at init and never mutated.
type Chain []*regexp.Regexp

// Find returns the first submatch across the chain.
func (c Chain) Find(text string) (string, bool) {
	for _, re := range c {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// FindOr returns the first submatch across the chain, or def.
func (c Chain) FindOr(text, def string) string {
	if v, ok := c.Find(text); ok {
		return v
	}
	return def
}

// Probability keyword chains, shared by the sectioned parser and the
// legacy line parser. Synonym order matters: the most specific phrasing
// is tried first.
var (
	upChain = Chain{
		regexp.MustCompile(`(?i)Wahrscheinlichkeit.*?steigt.*?:?\s*(\d+)%`),
		regexp.MustCompile(`(?i)steigt.*?:?\s*(\d+)%`),
		regexp.MustCompile(`(?i)bullisch.*?:?\s*(\d+)%`),
		regexp.MustCompile(`(?i)up.*?:?\s*(\d+)%`),
	}
	sideChain = Chain{
		regexp.MustCompile(`(?i)Wahrscheinlichkeit.*?seitwärts.*?:?\s*(\d+)%`),
		regexp.MustCompile(`(?i)seitwärts.*?:?\s*(\d+)%`),
		regexp.MustCompile(`(?i)neutral.*?:?\s*(\d+)%`),
		regexp.MustCompile(`(?i)flat.*?:?\s*(\d+)%`),
	}
	downChain = Chain{
		regexp.MustCompile(`(?i)Wahrscheinlichkeit.*?fällt.*?:?\s*(\d+)%`),
		regexp.MustCompile(`(?i)fällt.*?:?\s*(\d+)%`),
		regexp.MustCompile(`(?i)bärisch.*?:?\s*(\d+)%`),
		regexp.MustCompile(`(?i)down.*?:?\s*(\d+)%`),
	}
)

// Sentiment-ratio chains. The ratio form carries both legs on one line.
var (
	fxssiLongChain = Chain{
		regexp.MustCompile(`(?i)Long[\s-]*Position:?\s*(\d+)\s*%`),
		regexp.MustCompile(`(?i)Ratio\s*\(Long/Short\):?\s*(\d+)\s*%`),
	}
	fxssiShortChain = Chain{
		regexp.MustCompile(`(?i)Short[\s-]*Position:?\s*(\d+)\s*%`),
		regexp.MustCompile(`(?i)Ratio\s*\(Long/Short\):?\s*\d+\s*%\s*/\s*(\d+)\s*%`),
	}
)

// Risk-profile chains. Range/reversion stability is preferred over the
// trend-start risk; see deriveProbabilities.
var (
	rangeStabilityChain = Chain{
		regexp.MustCompile(`(?i)Wahrscheinlichkeit\s+Range/Reversion[^:%\n]*:\s*(\d+)\s*%`),
		regexp.MustCompile(`(?i)Reversion-Wahrscheinlichkeit:?\s*(\d+)\s*%`),
		regexp.MustCompile(`(?i)Erwartete\s+Range[\s-]Stabilit[^:\n]*:\s*(\d+)\s*%`),
		regexp.MustCompile(`(?i)Range-Trading\s+Chance:?\s*(\d+)\s*%`),
	}
	trendRiskChain = Chain{
		regexp.MustCompile(`(?i)Wahrscheinlichkeit\s+Trend-Start[^:%\n]*:\s*(\d+)\s*%`),
		regexp.MustCompile(`(?i)Trend-Fortsetzungs-Risiko:?\s*(\d+)\s*%`),
		regexp.MustCompile(`(?i)Runaway-Trend\s+Risiko:?\s*(\d+)\s*%`),
	}
)

// Derivation and control chains.
var (
	panicChain = Chain{
		regexp.MustCompile(`(?i)Panic[\s-]Check:\s*\n\s*Status:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)\bStatus:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Veto-Check\)?:\s*([^\n]+)`),
	}
	biasChain = Chain{
		regexp.MustCompile(`(?i)Finaler\s+Bias:?\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Ergebnis\s+Bias:?\s*([^\n]+)`),
	}
	csvSignalChain = Chain{
		regexp.MustCompile(`CSV_SIGNAL:?\s*([A-Za-z_]+)`),
	}
	riskLevelChain = Chain{
		regexp.MustCompile(`(?i)Risiko-Level:?\s*([A-Za-z]+)`),
	}
)

// Indicator chains. Values are free text in the sources (plain numbers,
// "~43.4", ranges like "15–16"), so the captured shape is loose.
var (
	vixChain = Chain{
		regexp.MustCompile(`(?i)VIX(?:\s*Index)?[^\d\n]{0,15}(\d+(?:\s*[–—-]\s*\d+)?)`),
	}
	rsiChain = Chain{
		regexp.MustCompile(`(?i)RSI\s*\(14\)[^\d\n]{0,40}(\d+[.,]\d+)`),
		regexp.MustCompile(`(?i)RSI\s*\(14\)[^\d\n]{0,40}(\d+)`),
		regexp.MustCompile(`(?i)RSI[^\d\n]{0,20}(\d+[.,]?\d*)`),
	}
	atrChain = Chain{
		regexp.MustCompile(`(?i)ATR\s*\(14\)[^\d\n]{0,30}(\d+[.,]\d+(?:\s*[–—-]\s*\d+[.,]\d+)?)`),
		regexp.MustCompile(`(?i)ATR[^\d\n]{0,30}(\d+[.,]\d+(?:\s*[–—-]\s*\d+[.,]\d+)?)`),
		regexp.MustCompile(`(?i)ATR[^\d\n]{0,30}(\d+[.,]?\d*)`),
	}
)

// Analyst-consensus patterns. The numeric form appears in both German
// ("2 von 4") and English ("2 of 4") phrasing.
var (
	consensusNumbersRe = regexp.MustCompile(`(?i)Konsens:[^\n]*?(\d+)\s*(?:von|of)\s*(\d+)`)
	consensusBlockRe   = regexp.MustCompile(`(?s)ANALYSTEN-KONSENS[^\n]*\n(.*?)(?:\n[ \t]*\n|$)`)
)

// Trading-setup chains, with optional unit suffixes and decimal-comma
// numbers tolerated.
var (
	entryChain = Chain{
		regexp.MustCompile(`(?i)Entry[^\n:]*:\s*([\d.,]+)(?:\s*(?:USD|\$|EUR|€|Punkte|Points))?`),
	}
	stopLossChain = Chain{
		regexp.MustCompile(`(?i)Stop\s*Loss[^\n:]*:\s*([\d.,]+)(?:\s*(?:USD|\$|EUR|€|Punkte|Points))?`),
	}
	takeProfitChain = Chain{
		regexp.MustCompile(`(?i)Take\s*Profit[^\n:]*:\s*([\d.,]+)(?:\s*(?:USD|\$|EUR|€|Punkte|Points))?`),
	}
	directionRe = regexp.MustCompile(`(?i)(?:Trade[‑-]?Setup|Richtung|Direction)[^\n]*?\b(SELL|SHORT|BUY|LONG)\b`)
)

// Date patterns. Three literal formats, tried in this fixed order:
// textual German ("Datum: 4. Januar 2026"), ISO ("Datum: 2026-01-04"),
// numeric German ("Datum: 05.01.2026").
var (
	dateTextualRe = regexp.MustCompile(`Datum:\s*(\d{1,2})\.\s*([A-Za-zäöüÄÖÜß]+)\s*(\d{4})`)
	dateISORe     = regexp.MustCompile(`Datum:\s*(\d{4})-(\d{1,2})-(\d{1,2})`)
	dateNumericRe = regexp.MustCompile(`Datum:\s*(\d{1,2})\.(\d{1,2})\.(\d{4})`)
)

// monthNumbers maps German month names (full and short) to month
// numbers for textual date parsing.
var monthNumbers = map[string]time.Month{
	"Januar": time.January, "Februar": time.February, "März": time.March,
	"April": time.April, "Mai": time.May, "Juni": time.June,
	"Juli": time.July, "August": time.August, "September": time.September,
	"Oktober": time.October, "November": time.November, "Dezember": time.December,
	"Jan": time.January, "Feb": time.February, "Mrz": time.March,
	"Apr": time.April, "Jun": time.June, "Jul": time.July,
	"Aug": time.August, "Sep": time.September, "Okt": time.October,
	"Nov": time.November, "Dez": time.December,
}

// extractDate recovers a date from a text span. It returns the
// ISO-normalized string and the parsed value; an unrecoverable date
// yields "" and the zero time.
func extractDate(text string) (string, time.Time) {
	if m := dateTextualRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if month, ok := monthNumbers[m[2]]; ok {
			t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			return t.Format("2006-01-02"), t
		}
	}
	if m := dateISORe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return t.Format("2006-01-02"), t
		}
	}
	if m := dateNumericRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return t.Format("2006-01-02"), t
		}
	}
	return "", time.Time{}
}

// Percent parses an integer out of a "42%" string. Anything
// unparseable counts as 0.
func Percent(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%")))
	if err != nil {
		return 0
	}
	return n
}

// Contribution renders the weighted component contribution of the
// legacy derivation format: weight% x score% / 100, one decimal place.
func Contribution(weight, score int) string {
	return fmt.Sprintf("%.1f%%", float64(weight)*float64(score)/100.0)
}

// InferDirection derives a trade direction from the numeric ordering
// of entry and take-profit prices: take-profit below entry means a
// short bias, above a long bias. Equal or unparseable prices leave the
// direction undetermined ("N/A").
func InferDirection(entry, takeProfit string) string {
	e := parsePrice(entry)
	tp := parsePrice(takeProfit)
	if e <= 0 || tp <= 0 {
		return "N/A"
	}
	switch {
	case tp < e:
		return "SHORT"
	case tp > e:
		return "LONG"
	}
	return "N/A"
}

func parsePrice(s string) float64 {
	s = strings.TrimSpace(s)
	// Decimal comma: treat a comma as the decimal separator only when
	// no point is present, otherwise strip it as a thousands separator.
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return f
}
