// Package signal derives one categorical trading signal from a parsed
// forecast report. Derivation is a pure function with a fixed priority
// order: panic veto, explicit control label, probability dominance.
package signal

import (
	"strings"

	"github.com/antigravity/sentimon/internal/report"
)

// Signal is the categorical output of derivation. The vocabulary is
// canonical: downstream exporters remap it (e.g. RISES -> BUY), the
// core never does.
type Signal string

const (
	Rises    Signal = "RISES"
	Falls    Signal = "FALLS"
	Sideways Signal = "SIDEWAYS"
	Panic    Signal = "PANIC"

	// None is the absence of a signal, e.g. when no strictly earlier
	// report exists for a lookback.
	None Signal = ""
)

// Policy names the priority between the explicit control-signal label
// and probability dominance. Producer revisions disagreed on this, so
// it is an explicit choice rather than a silent default.
type Policy string

const (
	// PolicyControlFirst trusts an unambiguous control label and falls
	// back to probabilities only when the label is inconclusive.
	PolicyControlFirst Policy = "control-first"

	// PolicyProbabilityOnly ignores the control label entirely.
	PolicyProbabilityOnly Policy = "probability-only"
)

// ParsePolicy maps a config string to a Policy, defaulting to
// control-first for anything unrecognized.
func ParsePolicy(s string) Policy {
	if Policy(strings.ToLower(strings.TrimSpace(s))) == PolicyProbabilityOnly {
		return PolicyProbabilityOnly
	}
	return PolicyControlFirst
}

// Derive maps a report to its signal.
//
//  1. A panic mention in the risk-veto status without a safe qualifier
//     short-circuits to PANIC.
//  2. Under PolicyControlFirst, an unambiguous control label maps
//     long/buy -> RISES, short/sell -> FALLS, neutral -> SIDEWAYS.
//  3. Otherwise the strictly greatest of the three probabilities wins;
//     ties resolve to SIDEWAYS.
func Derive(r *report.Report, policy Policy) Signal {
	if isPanic(r.PanicStatus) {
		return Panic
	}

	if policy == PolicyControlFirst && r.HasControlSignal {
		if s, ok := fromControlLabel(r.CSVSignal); ok {
			return s
		}
	}

	up := report.Percent(r.UpProbability)
	down := report.Percent(r.DownProbability)
	side := report.Percent(r.SidewaysProbability)

	switch {
	case up > side && up > down:
		return Rises
	case down > side && down > up:
		return Falls
	}
	return Sideways
}

// isPanic reports whether the status text is an unqualified panic
// mention. "Kein Panic", "No Panic", "Sicher" and "Safe" all neutralize
// the keyword.
func isPanic(status string) bool {
	s := strings.ToUpper(status)
	if !strings.Contains(s, "PANIC") {
		return false
	}
	safe := strings.Contains(s, "KEIN PANIC") ||
		strings.Contains(s, "NO PANIC") ||
		strings.Contains(s, "SICHER") ||
		strings.Contains(s, "SAFE")
	return !safe
}

func fromControlLabel(label string) (Signal, bool) {
	l := strings.ToUpper(label)
	switch {
	case strings.Contains(l, "BUY"), strings.Contains(l, "LONG"):
		return Rises, true
	case strings.Contains(l, "SELL"), strings.Contains(l, "SHORT"):
		return Falls, true
	case strings.Contains(l, "NEUTRAL"):
		return Sideways, true
	}
	return None, false
}
