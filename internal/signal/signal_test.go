package signal

import (
	"testing"

	"github.com/antigravity/sentimon/internal/report"
)

func probReport(up, side, down string) *report.Report {
	r := report.New()
	r.UpProbability = up
	r.SidewaysProbability = side
	r.DownProbability = down
	return r
}

func TestDerivePanicVeto(t *testing.T) {
	r := probReport("90%", "5%", "5%")
	r.PanicStatus = "PANIC: Flash-Crash erkannt"
	if got := Derive(r, PolicyControlFirst); got != Panic {
		t.Errorf("expected PANIC veto, got %s", got)
	}
}

func TestDerivePanicQualifiers(t *testing.T) {
	tests := []struct {
		status string
		want   Signal
	}{
		{"PANIC", Panic},
		{"Kein Panic", Sideways},
		{"No Panic detected", Sideways},
		{"Panic-Level: Sicher", Sideways},
		{"Panic check: safe", Sideways},
		{"Sicher", Sideways},
	}
	for _, tt := range tests {
		r := probReport("0%", "0%", "0%")
		r.PanicStatus = tt.status
		if got := Derive(r, PolicyControlFirst); got != tt.want {
			t.Errorf("status %q: got %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestDeriveControlLabel(t *testing.T) {
	tests := []struct {
		label string
		want  Signal
	}{
		{"BUY", Rises},
		{"LONG", Rises},
		{"SELL", Falls},
		{"SHORT", Falls},
		{"NEUTRAL", Sideways},
		{"buy_limit", Rises},
	}
	for _, tt := range tests {
		r := probReport("0%", "0%", "0%")
		r.CSVSignal = tt.label
		r.HasControlSignal = true
		if got := Derive(r, PolicyControlFirst); got != tt.want {
			t.Errorf("label %q: got %s, want %s", tt.label, got, tt.want)
		}
	}
}

func TestDeriveControlIgnoredWithoutExtraction(t *testing.T) {
	// The default NEUTRAL label must not shadow probability dominance.
	r := probReport("70%", "20%", "10%")
	if got := Derive(r, PolicyControlFirst); got != Rises {
		t.Errorf("expected RISES from probabilities, got %s", got)
	}
}

func TestDeriveProbabilityOnlyPolicy(t *testing.T) {
	r := probReport("70%", "20%", "10%")
	r.CSVSignal = "SELL"
	r.HasControlSignal = true
	if got := Derive(r, PolicyProbabilityOnly); got != Rises {
		t.Errorf("expected probabilities to win under probability-only, got %s", got)
	}
	if got := Derive(r, PolicyControlFirst); got != Falls {
		t.Errorf("expected control label to win under control-first, got %s", got)
	}
}

func TestDeriveProbabilityDominance(t *testing.T) {
	tests := []struct {
		up, side, down string
		want           Signal
	}{
		{"60%", "25%", "15%", Rises},
		{"15%", "25%", "60%", Falls},
		{"20%", "70%", "10%", Sideways},
		{"40%", "20%", "40%", Sideways}, // tie resolves sideways
		{"0%", "0%", "0%", Sideways},
	}
	for _, tt := range tests {
		r := probReport(tt.up, tt.side, tt.down)
		if got := Derive(r, PolicyControlFirst); got != tt.want {
			t.Errorf("%s/%s/%s: got %s, want %s", tt.up, tt.side, tt.down, got, tt.want)
		}
	}
}

func TestDeriveInconclusiveLabelFallsBack(t *testing.T) {
	r := probReport("10%", "20%", "65%")
	r.CSVSignal = "UNKNOWN_LABEL"
	r.HasControlSignal = true
	if got := Derive(r, PolicyControlFirst); got != Falls {
		t.Errorf("expected fallback to probabilities, got %s", got)
	}
}

func TestParsePolicy(t *testing.T) {
	if ParsePolicy("probability-only") != PolicyProbabilityOnly {
		t.Error("expected probability-only")
	}
	for _, s := range []string{"", "control-first", "unbekannt"} {
		if ParsePolicy(s) != PolicyControlFirst {
			t.Errorf("ParsePolicy(%q): expected control-first default", s)
		}
	}
}
