package ocr

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxCandidates = 20

// medicalPatterns recognize Romanian/English medical test spellings.
// They run against a diacritics-folded lowercase copy of the text, so
// "glicemie" and "glicemiă" hit the same pattern.
var medicalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:hemoglobina?|hb)\b`),
	regexp.MustCompile(`\b(?:glicemi[ea]|glucoza?)\b`),
	regexp.MustCompile(`\bcolesterol\b`),
	regexp.MustCompile(`\btrigliceride\b`),
	regexp.MustCompile(`\bcreatinina?\b`),
	regexp.MustCompile(`\bure[ea]\b`),
	regexp.MustCompile(`\bacid uric\b`),
	regexp.MustCompile(`\bbilirubina?\b`),
	regexp.MustCompile(`\b(?:transaminaze|alt|ast)\b`),
	regexp.MustCompile(`\bfosfataza? alcalina?\b`),
	regexp.MustCompile(`\bproteine totale\b`),
	regexp.MustCompile(`\balbumina?\b`),
	regexp.MustCompile(`\bfierul seric\b`),
	regexp.MustCompile(`\bferitina?\b`),
	regexp.MustCompile(`\btransferina?\b`),
	regexp.MustCompile(`\bvitamina? [a-z]\d*\b`),
	regexp.MustCompile(`\bhomocisteina?\b`),
	regexp.MustCompile(`\b(?:pcr|proteina? c reactiva?)\b`),
	regexp.MustCompile(`\b(?:vsh|viteza de sedimentare)\b`),
	regexp.MustCompile(`\b(?:tsh|tirotropina?)\b`),
	regexp.MustCompile(`\b(?:t3|t4|triiodotironina?|tiroxina?)\b`),
	regexp.MustCompile(`\bprolactina?\b`),
	regexp.MustCompile(`\btestosteron\b`),
	regexp.MustCompile(`\bestradiol\b`),
	regexp.MustCompile(`\bcortizol\b`),
	regexp.MustCompile(`\binsulina?\b`),
	regexp.MustCompile(`\b(?:hba1c|hemoglobina? glicata?)\b`),
	regexp.MustCompile(`\bprofil lipidic\b`),
	regexp.MustCompile(`\b(?:hdl|ldl)\b`),
	regexp.MustCompile(`\b(?:hemoleucograma?|cbc|hematii?)\b`),
	regexp.MustCompile(`\bleucocite\b`),
	regexp.MustCompile(`\btrombocite\b`),
	regexp.MustCompile(`\bhematocrit\b`),
	regexp.MustCompile(`\bfunctii? hepatice?\b`),
	regexp.MustCompile(`\b(?:gamma ?gt|ggt)\b`),
	regexp.MustCompile(`\bfunctii? renale?\b`),
	regexp.MustCompile(`\bclearance creatinina?\b`),
	regexp.MustCompile(`\b(?:fsh|lh|hormoni? foliculostimulant)\b`),
	regexp.MustCompile(`\bprogester[oa]na?\b`),
	regexp.MustCompile(`\b(?:hepatita? [a-c]|hbsag|anti.?hcv)\b`),
	regexp.MustCompile(`\b(?:hiv|vdrl|sifilis)\b`),
	regexp.MustCompile(`\b(?:examen urina?|sediment urinar)\b`),
	regexp.MustCompile(`\burocultura?\b`),
}

// denyTerms mark administrative report lines (headers, patient data,
// reference columns) that never carry an analysis name.
var denyTerms = []string{
	"pacient", "doctor", "medic", "data", "ora", "spital",
	"clinica", "laborator", "rezultat", "valori", "normale",
	"referinta", "unitate", "metoda", "pagina", "total",
}

// positivePatterns accept a line outright when it carries a medical
// suffix or marker vocabulary.
var positivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:acid|proteina?|vitamina?|hormon|enzima?|marker)\b`),
	regexp.MustCompile(`(?:seric|ular|ic|ina?|oza?|emia?)\b`),
	regexp.MustCompile(`\b(?:total|liber|legat)\b`),
}

var (
	digitRun       = regexp.MustCompile(`\d`)
	numericLine    = regexp.MustCompile(`^[\d\s.,\-+()]+$`)
	alphaRun       = regexp.MustCompile(`[a-z]{4,}`)
	leadingMarkers = regexp.MustCompile(`^[-•*\d.)\s]+`)
	trailingValue  = regexp.MustCompile(`[:\-=]+.*$`)
	parenthetical  = regexp.MustCompile(`\s*\([^)]*\)\s*`)
	spaceRun       = regexp.MustCompile(`\s+`)
)

// Romanian particles stay lowercase when title-casing names.
var (
	titleCaser = cases.Title(language.Romanian)
	particleRe = regexp.MustCompile(`\b(De|La|Un)\b`)
)

// ExtractCandidates converts raw recognized text into a deduplicated list
// of probable analysis names, at most 20, in first-seen order. Two passes
// contribute: the fixed medical patterns over the whole text, then a
// per-line heuristic for names the patterns do not know.
func ExtractCandidates(raw string) []string {
	candidates := []string{}
	seen := map[string]struct{}{}

	add := func(value string) {
		cleaned := CleanName(value)
		if len(cleaned) <= 2 {
			return
		}
		key := strings.ToLower(cleaned)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		candidates = append(candidates, cleaned)
	}

	folded := foldDiacritics(strings.ToLower(raw))
	for _, pattern := range medicalPatterns {
		for _, match := range pattern.FindAllString(folded, -1) {
			if len(candidates) >= maxCandidates {
				return candidates
			}
			add(match)
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		if len(candidates) >= maxCandidates {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" || !isLikelyAnalysisLine(line) {
			continue
		}
		if cleaned := CleanName(line); len(cleaned) > 3 {
			add(cleaned)
		}
	}

	return candidates
}

// isLikelyAnalysisLine filters report lines down to the ones that could
// name an analysis.
func isLikelyAnalysisLine(line string) bool {
	folded := foldDiacritics(strings.ToLower(strings.TrimSpace(line)))

	if len(folded) < 3 || len(folded) > 100 {
		return false
	}
	if len(digitRun.FindAllString(folded, -1)) > len(folded)*3/10 {
		return false
	}
	if numericLine.MatchString(folded) {
		return false
	}
	for _, term := range denyTerms {
		if strings.Contains(folded, term) {
			return false
		}
	}
	for _, pattern := range positivePatterns {
		if pattern.MatchString(folded) {
			return true
		}
	}
	return alphaRun.MatchString(folded)
}

// CleanName normalizes a raw candidate: bullet/numbering prefixes and
// colon-delimited value text go, parentheticals go, whitespace collapses,
// and the rest is title-cased with Romanian particles kept lowercase.
func CleanName(raw string) string {
	s := leadingMarkers.ReplaceAllString(raw, "")
	s = trailingValue.ReplaceAllString(s, "")
	s = parenthetical.ReplaceAllString(s, " ")
	s = spaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = titleCaser.String(strings.ToLower(s))
	s = particleRe.ReplaceAllStringFunc(s, strings.ToLower)
	return s
}

// foldDiacritics strips combining marks so "ă"/"ș"/"ț" compare equal to
// their ASCII base letters.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
