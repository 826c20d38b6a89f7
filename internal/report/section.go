package report

import "strings"

// Section markers as they appear in the wild. Producer revisions
// renamed some sections, so each logical section has an ordered list
// of candidates: the full tag name variants first, the bare index tag
// last. Markers are matched case-sensitively as literal substrings,
// which tolerates both "###" and "##" heading depth.
var (
	basisMarkers = []string{
		"SECTION_0_RECHERCHE_ERGEBNISSE",
		"SECTION_0_DATEN_BASIS",
		"SECTION_0",
	}
	riskMarkers = []string{
		"SECTION_1_MEAN_REVERSION_SETUP",
		"SECTION_1_RISIKO_PROFIL",
		"SECTION_1",
	}
	derivationMarkers = []string{
		"SECTION_2_SIGNAL_HERLEITUNG",
		"SECTION_2_LOGISCHE_HERLEITUNG",
		"SECTION_2",
	}
	controlMarkers = []string{
		"SECTION_3_ROBOTER_SIGNAL",
		"SECTION_3_ROBOTER_STEUERUNG",
		"SECTION_3",
	}
	rationaleMarkers = []string{
		"SECTION_4_DETAILLIERTE_BEGRUENDUNG",
		"SECTION_4",
	}
)

// Section returns the text strictly between the line containing the
// start marker and the line on which the end marker appears, trimmed.
// A missing start marker yields an empty span; a missing end marker
// extends the span to the end of the document.
func Section(content, start, end string) string {
	i := strings.Index(content, start)
	if i < 0 {
		return ""
	}
	nl := strings.IndexByte(content[i:], '\n')
	if nl < 0 {
		return ""
	}
	body := content[i+nl+1:]

	if end != "" {
		if j := strings.Index(body, end); j >= 0 {
			// Cut before the heading line the end marker sits on so no
			// "##" prefix leaks into the span.
			k := strings.LastIndexByte(body[:j], '\n')
			if k < 0 {
				k = 0
			}
			body = body[:k]
		}
	}
	return strings.TrimSpace(body)
}

// sectionAny tries the start markers in order and returns the first
// non-empty span.
func sectionAny(content string, starts []string, end string) string {
	for _, s := range starts {
		if span := Section(content, s, end); span != "" {
			return span
		}
	}
	return ""
}
