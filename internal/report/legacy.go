package report

import (
	"regexp"
	"strconv"
	"strings"
)

// DayForecast is one per-date forecast accumulated by the legacy line
// parser. Dates keep the historical short display form ("5.1.26",
// optionally prefixed with a two-letter weekday).
type DayForecast struct {
	Date     string
	Up       string
	Sideways string
	Down     string
}

// HasData reports whether at least one probability differs from the
// default. Accumulators without data are discarded, not emitted.
func (f *DayForecast) HasData() bool {
	return f.Up != "0%" || f.Sideways != "0%" || f.Down != "0%"
}

// legacyTextualDateRe captures dates in lines like
// "**Montag, 5. Januar 2026:**" or "Datum: 4. Januar 2026".
// Groups: prefix/weekday, day, month name, year.
var legacyTextualDateRe = regexp.MustCompile(
	`(?:\*\*)?\s*([A-Za-zäöüÄÖÜß]+).*?\s*(\d{1,2})\.\s*([A-Za-zäöüÄÖÜß]+)\s*(\d{4})`)

// ParseLegacy scans an unsectioned report line by line. A line matching
// one of the three date formats (ISO, numeric German, textual German,
// in that detection order) starts a new per-date accumulator; the
// previous one is flushed only if it holds data. Probability keywords
// are checked on every line, including the line that introduced the
// date. Lines containing " bis " are date-range summaries and excluded
// from textual date detection.
func ParseLegacy(content string) []DayForecast {
	var results []DayForecast
	var current *DayForecast

	flush := func() {
		if current != nil && current.HasData() {
			results = append(results, *current)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := dateISORe.FindStringSubmatch(line); m != nil {
			flush()
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			current = newDayForecast(strconv.Itoa(day) + "." + strconv.Itoa(month) + "." + shortYear(m[1]))
		} else if m := dateNumericRe.FindStringSubmatch(line); m != nil {
			flush()
			day, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			current = newDayForecast(strconv.Itoa(day) + "." + strconv.Itoa(month) + "." + shortYear(m[3]))
		} else if m := legacyTextualDateRe.FindStringSubmatch(line); m != nil {
			// "bis" marks a range summary line, not a single-day entry.
			if strings.Contains(strings.ToLower(line), " bis ") {
				continue
			}
			flush()
			current = newDayForecast(formatLegacyDate(m[1], m[2], m[3], m[4]))
		}

		if current == nil {
			continue
		}
		if v, ok := upChain.Find(line); ok {
			current.Up = v + "%"
		}
		if v, ok := sideChain.Find(line); ok {
			current.Sideways = v + "%"
		}
		if v, ok := downChain.Find(line); ok {
			current.Down = v + "%"
		}
	}

	flush()
	return results
}

func newDayForecast(date string) *DayForecast {
	return &DayForecast{Date: date, Up: "0%", Sideways: "0%", Down: "0%"}
}

// formatLegacyDate renders "Mo 5.1.26" from a textual date match. The
// prefix is kept as a two-letter weekday unless it is a plain label
// ("Datum", "Am").
func formatLegacyDate(prefix, day, monthName, year string) string {
	weekday := ""
	if !strings.EqualFold(prefix, "Datum") && !strings.EqualFold(prefix, "Am") {
		if rs := []rune(prefix); len(rs) >= 2 {
			weekday = string(rs[:2]) + " "
		}
	}

	month := monthName
	if m, ok := monthNumbers[monthName]; ok {
		month = strconv.Itoa(int(m))
	}
	return weekday + day + "." + month + "." + shortYear(year)
}

func shortYear(year string) string {
	if len(year) == 4 {
		return year[2:]
	}
	return year
}
