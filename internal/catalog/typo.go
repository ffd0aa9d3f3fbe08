package catalog

import "strings"

// typoPrefixes maps short query prefixes to canonical substrings that
// prefix is known to denote. The table is hand-curated and closed:
// widening domain coverage means adding rows, not changing the lookup.
var typoPrefixes = map[string][]string{
	"hemo":  {"hemoglobina", "hemoleucograma", "hematocrit"},
	"hb":    {"hemoglobina"},
	"glic":  {"glicemia", "hemoglobina glicata"},
	"glice": {"glicemia"},
	"gluc":  {"glicemia", "glucoza"},
	"col":   {"colesterol"},
	"trig":  {"trigliceride"},
	"crea":  {"creatinina"},
	"tsh":   {"tsh", "tirotropina"},
	"tiro":  {"tirotropina", "tiroxina"},
	"vit":   {"vitamina"},
	"fer":   {"feritina", "fierul seric"},
	"trans": {"transaminaze", "transferina"},
	"bili":  {"bilirubina"},
	"alb":   {"albumina"},
	"leuc":  {"leucocite"},
	"trom":  {"trombocite"},
	"uree":  {"uree"},
	"acid":  {"acid uric"},
	"pcr":   {"proteina c reactiva"},
	"vsh":   {"viteza de sedimentare"},
	"hdl":   {"hdl"},
	"ldl":   {"ldl"},
	"ggt":   {"gamma gt"},
	"ast":   {"transaminaze"},
	"alt":   {"transaminaze"},
}

// IsProbableMatch reports whether query looks like a known typo or
// abbreviation for any of the candidate terms: the query must start with a
// curated prefix and at least one term must contain one of the substrings
// that prefix denotes. Comparison is case-insensitive.
func IsProbableMatch(query string, terms ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	for prefix, targets := range typoPrefixes {
		if !strings.HasPrefix(q, prefix) {
			continue
		}
		for _, term := range terms {
			lower := strings.ToLower(term)
			for _, target := range targets {
				if strings.Contains(lower, target) {
					return true
				}
			}
		}
	}
	return false
}
