// Package report extracts structured forecast data from free-text
// report documents. The documents are AI-generated market commentary
// in a loosely structured German/English format that has gone through
// several revisions; parsing is best-effort with safe defaults rather
// than schema validation. A failed extraction of one field never
// prevents extraction of the others.
package report

import "time"

// Report is one parsed forecast document. Every field carries an
// explicit default so consumers never see an unset value.
type Report struct {
	// Date is the report date as extracted, ISO-normalized when
	// recoverable. ParsedDate is the zero time when the date could not
	// be parsed; the zero value sorts as the minimum date and never
	// satisfies a strictly-earlier comparison.
	Date       string
	ParsedDate time.Time

	UpProbability       string // default "0%"
	SidewaysProbability string // default "0%"
	DownProbability     string // default "0%"

	FxssiLong  string // default "50%"
	FxssiShort string // default "50%"

	// CSVSignal is the raw control-signal label, default "NEUTRAL".
	// HasControlSignal distinguishes an extracted label from the
	// default: only extracted labels take part in signal derivation.
	CSVSignal        string
	HasControlSignal bool

	PanicStatus string // raw risk-veto status, default "Sicher"

	Bias             string // default "-"
	RiskLevel        string // default "-"
	VIX              string // default "-"
	RSI              string // default "-"
	ATR              string // default "-"
	ConsensusNumbers string // e.g. "2 von 4", default "-"
	AnalystConsensus string // default "-"

	Setup TradingSetup

	// Explanatory payload, carried through unmodified for display.
	DerivationText         string
	ProbabilityCalculation string
	Rationales             []Rationale

	// RawContent is the original document text, retained for fallback
	// display.
	RawContent string
}

// Rationale is one titled explanation block from the rationale
// section. Order follows document order.
type Rationale struct {
	Title string
	Body  string
}

// TradingSetup holds the optional trade parameters of a report.
type TradingSetup struct {
	Direction  string // "LONG", "SHORT" or "N/A"
	Entry      string
	StopLoss   string
	TakeProfit string
}

// New returns a Report with all defaults applied.
func New() *Report {
	return &Report{
		UpProbability:       "0%",
		SidewaysProbability: "0%",
		DownProbability:     "0%",
		FxssiLong:           "50%",
		FxssiShort:          "50%",
		CSVSignal:           "NEUTRAL",
		PanicStatus:         "Sicher",
		Bias:                "-",
		RiskLevel:           "-",
		VIX:                 "-",
		RSI:                 "-",
		ATR:                 "-",
		ConsensusNumbers:    "-",
		AnalystConsensus:    "-",
		Setup: TradingSetup{
			Direction:  "N/A",
			Entry:      "N/A",
			StopLoss:   "N/A",
			TakeProfit: "N/A",
		},
	}
}
