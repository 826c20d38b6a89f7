package report

import (
	"fmt"
	"regexp"
	"strings"
)

// rationaleHeadingRe matches the numbered headings of the rationale
// section, e.g. "1) Begründung des CSV_SIGNALS".
var rationaleHeadingRe = regexp.MustCompile(`(?m)^\s*\d+\)\s*([^\n]+)$`)

// Parse extracts a Report from one forecast document. It never fails:
// a section or field that cannot be recovered keeps its default, and
// one miss does not affect the other fields.
func Parse(content string) *Report {
	r := New()
	r.RawContent = content

	basis := sectionAny(content, basisMarkers, "SECTION_1")
	risk := sectionAny(content, riskMarkers, "SECTION_2")
	derivation := sectionAny(content, derivationMarkers, "SECTION_3")
	control := sectionAny(content, controlMarkers, "SECTION_4")
	rationales := sectionAny(content, rationaleMarkers, "")

	parseBasis(basis, r)
	parseRisk(risk, r)
	parseDerivation(derivation, r)
	parseControl(control, r)
	r.Rationales = splitRationales(rationales)

	// The report date lives in the basis section in newer revisions and
	// in the risk profile in older ones.
	if date, parsed := extractDate(basis); date != "" {
		r.Date, r.ParsedDate = date, parsed
	} else if date, parsed := extractDate(risk); date != "" {
		r.Date, r.ParsedDate = date, parsed
	}

	return r
}

func parseBasis(basis string, r *Report) {
	if basis == "" {
		return
	}
	r.FxssiLong = percentOr(fxssiLongChain, basis, r.FxssiLong)
	r.FxssiShort = percentOr(fxssiShortChain, basis, r.FxssiShort)
	r.VIX = vixChain.FindOr(basis, r.VIX)
	r.RSI = rsiChain.FindOr(basis, r.RSI)
	r.ATR = atrChain.FindOr(basis, r.ATR)

	if m := consensusNumbersRe.FindStringSubmatch(basis); m != nil {
		r.ConsensusNumbers = m[1] + " von " + m[2]
	}
	if m := consensusBlockRe.FindStringSubmatch(basis); m != nil {
		if block := strings.TrimSpace(m[1]); block != "" {
			r.AnalystConsensus = block
		}
	}
}

// parseRisk recovers the directional probabilities from the risk
// profile. An explicit range/reversion stability R maps to
// sideways = R with the complement split evenly (floor division) into
// up and down; a trend-start risk T without a stability value maps to
// up = down = T/2 with sideways untouched. Odd remainders lose their
// fractional point; that matches the historical consumers.
func parseRisk(risk string, r *Report) {
	if risk == "" {
		return
	}

	if v, ok := upChain.Find(risk); ok {
		r.UpProbability = v + "%"
	}
	if v, ok := sideChain.Find(risk); ok {
		r.SidewaysProbability = v + "%"
	}
	if v, ok := downChain.Find(risk); ok {
		r.DownProbability = v + "%"
	}

	if v, ok := rangeStabilityChain.Find(risk); ok {
		stability := Percent(v + "%")
		rest := 100 - stability
		half := rest / 2
		r.SidewaysProbability = fmt.Sprintf("%d%%", stability)
		r.UpProbability = fmt.Sprintf("%d%%", half)
		r.DownProbability = fmt.Sprintf("%d%%", half)
		r.ProbabilityCalculation = fmt.Sprintf(
			"Range/Reversion %d%% -> Seitwärts %d%%; Rest %d%% -> je %d%% Steigt/Fällt",
			stability, stability, rest, half)
	} else if v, ok := trendRiskChain.Find(risk); ok {
		trend := Percent(v + "%")
		half := trend / 2
		r.UpProbability = fmt.Sprintf("%d%%", half)
		r.DownProbability = fmt.Sprintf("%d%%", half)
		r.ProbabilityCalculation = fmt.Sprintf(
			"Trend-Start %d%% -> je %d%% Steigt/Fällt; Seitwärts %s",
			trend, half, r.SidewaysProbability)
	}

	parseSetup(risk, r)
}

func parseSetup(risk string, r *Report) {
	if v, ok := entryChain.Find(risk); ok {
		r.Setup.Entry = v
	}
	if v, ok := stopLossChain.Find(risk); ok {
		r.Setup.StopLoss = v
	}
	if v, ok := takeProfitChain.Find(risk); ok {
		r.Setup.TakeProfit = v
	}
	if m := directionRe.FindStringSubmatch(risk); m != nil {
		switch strings.ToUpper(m[1]) {
		case "SELL", "SHORT":
			r.Setup.Direction = "SHORT"
		case "BUY", "LONG":
			r.Setup.Direction = "LONG"
		}
	}
	if r.Setup.Direction == "N/A" {
		r.Setup.Direction = InferDirection(r.Setup.Entry, r.Setup.TakeProfit)
	}
}

func parseDerivation(derivation string, r *Report) {
	if derivation == "" {
		return
	}
	r.DerivationText = derivation
	r.PanicStatus = panicChain.FindOr(derivation, r.PanicStatus)
	r.Bias = biasChain.FindOr(derivation, r.Bias)
}

func parseControl(control string, r *Report) {
	if control == "" {
		return
	}
	if v, ok := csvSignalChain.Find(control); ok {
		r.CSVSignal = strings.ToUpper(v)
		r.HasControlSignal = true
	}
	r.RiskLevel = riskLevelChain.FindOr(control, r.RiskLevel)
}

// splitRationales cuts the rationale section into its numbered titled
// blocks, preserving document order.
func splitRationales(text string) []Rationale {
	if text == "" {
		return nil
	}
	headings := rationaleHeadingRe.FindAllStringSubmatchIndex(text, -1)
	if len(headings) == 0 {
		return nil
	}
	out := make([]Rationale, 0, len(headings))
	for i, h := range headings {
		title := strings.TrimSpace(text[h[2]:h[3]])
		bodyStart := h[1]
		bodyEnd := len(text)
		if i+1 < len(headings) {
			bodyEnd = headings[i+1][0]
		}
		out = append(out, Rationale{
			Title: title,
			Body:  strings.TrimSpace(text[bodyStart:bodyEnd]),
		})
	}
	return out
}

func percentOr(c Chain, text, def string) string {
	if v, ok := c.Find(text); ok {
		return v + "%"
	}
	return def
}
