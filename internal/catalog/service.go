package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"medcompare-backend/internal/shared/telemetry"
)

// Source tags tell API consumers where a result set came from when the
// store is unavailable and the reference dataset answered instead.
const (
	SourceDatabase  = "database"
	SourceReference = "reference"
)

// Service contains the matching and comparison logic on top of the
// catalog store. Terms is the reference dataset backing the fuzzy
// fallback; when nil the built-in dataset is used.
type Service struct {
	Repo  Repo
	Terms []ReferenceTerm
}

func (s *Service) terms() []ReferenceTerm {
	if len(s.Terms) > 0 {
		return s.Terms
	}
	return DefaultReferenceTerms()
}

// SearchResult is the payload of a catalog search.
type SearchResult struct {
	Results []Resolution `json:"results"`
	Total   int          `json:"total"`
	Source  string       `json:"source"`
}

// Search finds analyses whose name or aliases match the query pattern.
// A failing or absent store degrades to a substring filter over the
// reference dataset rather than returning an error.
func (s *Service) Search(ctx context.Context, query string, limit int) SearchResult {
	query = strings.TrimSpace(query)
	if limit <= 0 {
		limit = 20
	}
	if query == "" {
		return SearchResult{Results: []Resolution{}, Source: SourceDatabase}
	}

	if s.Repo != nil {
		matches, err := s.Repo.SearchByPattern(ctx, safePattern(query), limit)
		if err == nil {
			results := make([]Resolution, 0, len(matches))
			for _, m := range matches {
				results = append(results, Resolution{Analysis: m, Found: true})
			}
			return SearchResult{Results: results, Total: len(results), Source: SourceDatabase}
		}
		telemetry.Error("catalog.search_degraded", map[string]any{
			"query": query,
			"error": err.Error(),
		})
	}

	lower := strings.ToLower(query)
	results := []Resolution{}
	for _, term := range s.terms() {
		if len(results) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(term.Name), lower) {
			res := Placeholder(term.Name)
			res.Category = term.Category
			res.AlternativeNames = sliceOrEmpty(term.AlternativeNames)
			results = append(results, res)
		}
	}
	return SearchResult{Results: results, Total: len(results), Source: SourceReference}
}

// Get fetches one analysis by its ID. Unlike the name-based lookups this
// is a direct record fetch: a miss is ErrNotFound and store failures come
// back unchanged instead of degrading to the reference dataset.
func (s *Service) Get(ctx context.Context, id string) (Analysis, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return Analysis{}, ErrInvalidInput
	}
	return s.Repo.FindByID(ctx, id)
}

// Resolve maps a free-text analysis name onto the catalog: the trimmed
// query is matched as a case-insensitive pattern anywhere within the name
// or any alias, and the first store-order hit wins. A miss yields a
// found=false placeholder, never an error.
func (s *Service) Resolve(ctx context.Context, name string) Resolution {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || s.Repo == nil {
		return Placeholder(trimmed)
	}

	match, err := s.Repo.FindFirstByPattern(ctx, safePattern(trimmed))
	if err != nil {
		if err != ErrNotFound {
			telemetry.Error("catalog.resolve_degraded", map[string]any{
				"name":  trimmed,
				"error": err.Error(),
			})
		}
		return Placeholder(trimmed)
	}
	return Resolution{Analysis: match, Found: true}
}

// Compare resolves each requested name and restricts the price tables to
// the optional provider allow-list. Unknown providers are dropped
// silently; unmatched names come back as placeholders so the response
// always has one row per requested name.
func (s *Service) Compare(ctx context.Context, names []string, providerFilter []string) []Resolution {
	results := make([]Resolution, 0, len(names))
	for _, name := range names {
		res := s.Resolve(ctx, name)
		res.FilterProviders(providerFilter)
		results = append(results, res)
	}
	return results
}

// ListResult is the payload of a paginated catalog listing.
type ListResult struct {
	Results []Analysis `json:"results"`
	Total   int        `json:"total"`
	Skip    int        `json:"skip"`
	Limit   int        `json:"limit"`
}

// List returns a page of the catalog with an optional category filter.
func (s *Service) List(ctx context.Context, category string, skip, limit int) (ListResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	analyses, err := s.Repo.List(ctx, category, skip, limit)
	if err != nil {
		return ListResult{}, err
	}
	total, err := s.Repo.Count(ctx, category)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Results: analyses, Total: total, Skip: skip, Limit: limit}, nil
}

// Categories returns per-category analysis counts, largest first.
func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	return s.Repo.Categories(ctx)
}

// Wipe deletes every analysis. Guarded at the HTTP boundary by an
// explicit confirmation token.
func (s *Service) Wipe(ctx context.Context) (int64, error) {
	return s.Repo.DeleteAll(ctx)
}
