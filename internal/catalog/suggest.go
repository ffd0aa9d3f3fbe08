package catalog

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"medcompare-backend/internal/shared/telemetry"
)

const (
	// Below this many store results the ranker tops up from the
	// reference dataset.
	fuzzySupplementThreshold = 3
	// Similarity cutoff tuned for the character-set Jaccard metric.
	similarityThreshold = 0.6
)

// Suggest produces a ranked, name-deduplicated candidate list for an
// incomplete or misspelled query. Store-backed prefix matches come first,
// then contains matches; when those are scarce a scored fuzzy pass over
// the reference dataset fills the tail. A failing store degrades to the
// fuzzy pass alone instead of surfacing the error.
func (s *Service) Suggest(ctx context.Context, query string, limit int) []Suggestion {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []Suggestion{}
	}
	if limit <= 0 {
		limit = 10
	}

	expr := safePattern(query)
	out := []Suggestion{}
	seen := map[string]struct{}{}

	storeOK := s.Repo != nil
	if storeOK {
		prefix, err := s.Repo.SearchByPattern(ctx, "^"+expr, limit)
		if err != nil {
			telemetry.Error("suggest.store_degraded", map[string]any{
				"query": query,
				"error": err.Error(),
			})
			storeOK = false
		} else {
			out = appendSuggestions(out, seen, prefix, limit)
		}
	}
	if storeOK && len(out) < limit {
		contains, err := s.Repo.SearchByPattern(ctx, expr, limit)
		if err != nil {
			telemetry.Error("suggest.store_degraded", map[string]any{
				"query": query,
				"error": err.Error(),
			})
		} else {
			out = appendSuggestions(out, seen, contains, limit)
		}
	}

	if len(out) < fuzzySupplementThreshold {
		for _, term := range s.rankReferenceTerms(query) {
			if len(out) >= limit {
				break
			}
			if _, dup := seen[strings.ToLower(term.Name)]; dup {
				continue
			}
			seen[strings.ToLower(term.Name)] = struct{}{}
			out = append(out, Suggestion{
				Name:             term.Name,
				Category:         term.Category,
				AlternativeNames: sliceOrEmpty(term.AlternativeNames),
			})
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// rankReferenceTerms scores every reference term against the query and
// returns the positive scorers, best first. Ties keep dataset order.
func (s *Service) rankReferenceTerms(query string) []ReferenceTerm {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	type scored struct {
		term  ReferenceTerm
		score int
		pos   int
	}
	var ranked []scored

	for i, term := range s.terms() {
		score := 0
		name := strings.ToLower(term.Name)

		if strings.Contains(name, q) {
			score += 10
		}
		if strings.HasPrefix(name, q) {
			score += 8
		}
		for _, word := range strings.Fields(name) {
			if strings.HasPrefix(word, q) {
				score += 6
				break
			}
		}
		if Similarity(q, name) > similarityThreshold {
			score += 4
		}

		for _, alt := range term.AlternativeNames {
			lower := strings.ToLower(alt)
			if strings.Contains(lower, q) {
				score += 8
			}
			if strings.HasPrefix(lower, q) {
				score += 6
			}
			if Similarity(q, lower) > similarityThreshold {
				score += 3
			}
		}

		if IsProbableMatch(q, append([]string{term.Name}, term.AlternativeNames...)...) {
			score += 5
		}

		if score > 0 {
			ranked = append(ranked, scored{term: term, score: score, pos: i})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].pos < ranked[j].pos
	})

	out := make([]ReferenceTerm, len(ranked))
	for i, sc := range ranked {
		out[i] = sc.term
	}
	return out
}

func appendSuggestions(out []Suggestion, seen map[string]struct{}, matches []Analysis, limit int) []Suggestion {
	for _, m := range matches {
		if len(out) >= limit {
			break
		}
		key := strings.ToLower(m.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Suggestion{
			Name:             m.Name,
			Category:         m.Category,
			AlternativeNames: sliceOrEmpty(m.AlternativeNames),
		})
	}
	return out
}

// safePattern keeps user input usable as a regex: queries that do not
// compile are quoted so they match literally.
func safePattern(query string) string {
	if _, err := regexp.Compile("(?i)" + query); err != nil {
		return regexp.QuoteMeta(query)
	}
	return query
}
