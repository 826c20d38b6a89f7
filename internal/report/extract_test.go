package report

import (
	"fmt"
	"testing"
)

func TestChainFallbackOrder(t *testing.T) {
	// The specific phrasing wins over the loose one.
	text := "Wahrscheinlichkeit, dass der Kurs steigt: 35%\nsteigt irgendwo: 99%"
	v, ok := upChain.Find(text)
	if !ok {
		t.Fatal("expected a match")
	}
	if v != "35" {
		t.Errorf("expected first pattern to win with 35, got %q", v)
	}
}

func TestFxssiRatioForm(t *testing.T) {
	text := "FXSSI Ratio (Long/Short): 62% / 38%"
	long, ok := fxssiLongChain.Find(text)
	if !ok || long != "62" {
		t.Errorf("long = %q (ok=%v), want 62", long, ok)
	}
	short, ok := fxssiShortChain.Find(text)
	if !ok || short != "38" {
		t.Errorf("short = %q (ok=%v), want 38", short, ok)
	}
}

func TestRangeStabilityVariants(t *testing.T) {
	for _, line := range []string{
		"Wahrscheinlichkeit Range/Reversion: 75%",
		"Reversion-Wahrscheinlichkeit: 75%",
		"Erwartete Range Stabilitaet: 75%",
		"Range-Trading Chance: 75%",
	} {
		v, ok := rangeStabilityChain.Find(line)
		if !ok || v != "75" {
			t.Errorf("%q: got %q (ok=%v), want 75", line, v, ok)
		}
	}
}

func TestTrendRiskVariants(t *testing.T) {
	for _, line := range []string{
		"Wahrscheinlichkeit Trend-Start: 30%",
		"Trend-Fortsetzungs-Risiko: 30%",
		"Runaway-Trend Risiko: 30%",
	} {
		v, ok := trendRiskChain.Find(line)
		if !ok || v != "30" {
			t.Errorf("%q: got %q (ok=%v), want 30", line, v, ok)
		}
	}
}

func TestExtractDateFormats(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Datum: 4. Januar 2026", "2026-01-04"},
		{"Datum: 2026-01-04", "2026-01-04"},
		{"Datum: 05.01.2026", "2026-01-05"},
		{"Datum: 19. Dez 2025", "2025-12-19"},
	}
	for _, tt := range tests {
		got, parsed := extractDate(tt.in)
		if got != tt.want {
			t.Errorf("extractDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if parsed.IsZero() {
			t.Errorf("extractDate(%q): expected a parsed time", tt.in)
		}
	}
}

func TestExtractDateUnknown(t *testing.T) {
	got, parsed := extractDate("Datum: irgendwann im Januar")
	if got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if !parsed.IsZero() {
		t.Errorf("expected zero time, got %v", parsed)
	}
}

func TestPercentRoundTrip(t *testing.T) {
	for i := 0; i <= 100; i++ {
		if got := Percent(fmt.Sprintf("%d%%", i)); got != i {
			t.Fatalf("Percent(%d%%) = %d", i, got)
		}
	}
}

func TestPercentUnparseable(t *testing.T) {
	for _, s := range []string{"", "-", "N/A", "abc%"} {
		if got := Percent(s); got != 0 {
			t.Errorf("Percent(%q) = %d, want 0", s, got)
		}
	}
}

func TestContribution(t *testing.T) {
	if got := Contribution(40, 75); got != "30.0%" {
		t.Errorf("Contribution(40, 75) = %q, want 30.0%%", got)
	}
	if got := Contribution(25, 50); got != "12.5%" {
		t.Errorf("Contribution(25, 50) = %q, want 12.5%%", got)
	}
}

func TestInferDirection(t *testing.T) {
	tests := []struct {
		entry, tp string
		want      string
	}{
		{"1.0850", "1.0750", "SHORT"},
		{"1.0850", "1.0950", "LONG"},
		{"1.0850", "1.0850", "N/A"},
		{"N/A", "1.0950", "N/A"},
		{"2450,50", "2400,00", "SHORT"},
	}
	for _, tt := range tests {
		if got := InferDirection(tt.entry, tt.tp); got != tt.want {
			t.Errorf("InferDirection(%q, %q) = %q, want %q", tt.entry, tt.tp, got, tt.want)
		}
	}
}

func TestVixRange(t *testing.T) {
	v, ok := vixChain.Find("VIX Index: 15–16 (ruhig)")
	if !ok {
		t.Fatal("expected VIX match")
	}
	if v != "15–16" {
		t.Errorf("VIX = %q, want 15–16", v)
	}
}

func TestConsensusNumbers(t *testing.T) {
	m := consensusNumbersRe.FindStringSubmatch("Konsens: 3 von 4 Analysten bärisch")
	if m == nil {
		t.Fatal("expected consensus match")
	}
	if m[1] != "3" || m[2] != "4" {
		t.Errorf("consensus = %s von %s, want 3 von 4", m[1], m[2])
	}
}
