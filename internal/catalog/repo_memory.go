package catalog

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo, used when no database
// is configured and in tests. Iteration order is insertion order, which is
// the store-defined order callers see.
type MemoryRepo struct {
	mu      sync.RWMutex
	entries []Analysis
	byName  map[string]int
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byName: make(map[string]int)}
}

// FindByID returns the analysis with the given ID.
func (r *MemoryRepo) FindByID(ctx context.Context, id string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.entries {
		if entry.ID == id {
			return cloneAnalysis(entry), nil
		}
	}
	return Analysis{}, ErrNotFound
}

// FindByName returns the analysis with the exact canonical name.
func (r *MemoryRepo) FindByName(ctx context.Context, name string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byName[name]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return cloneAnalysis(r.entries[idx]), nil
}

// FindFirstByPattern returns the first analysis whose name or any
// alternative name matches the case-insensitive pattern.
func (r *MemoryRepo) FindFirstByPattern(ctx context.Context, expr string) (Analysis, error) {
	matches, err := r.SearchByPattern(ctx, expr, 1)
	if err != nil {
		return Analysis{}, err
	}
	if len(matches) == 0 {
		return Analysis{}, ErrNotFound
	}
	return matches[0], nil
}

// SearchByPattern returns up to limit analyses matching the pattern.
func (r *MemoryRepo) SearchByPattern(ctx context.Context, expr string, limit int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Analysis
	for _, entry := range r.entries {
		if limit > 0 && len(out) >= limit {
			break
		}
		if matchesEntry(re, entry) {
			out = append(out, cloneAnalysis(entry))
		}
	}
	return out, nil
}

// List returns analyses with optional category filter, honoring skip/limit.
func (r *MemoryRepo) List(ctx context.Context, category string, skip, limit int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if skip < 0 {
		skip = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Analysis{}
	seen := 0
	for _, entry := range r.entries {
		if category != "" && entry.Category != category {
			continue
		}
		if seen < skip {
			seen++
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, cloneAnalysis(entry))
	}
	return out, nil
}

// Count returns the number of analyses, optionally restricted to a category.
func (r *MemoryRepo) Count(ctx context.Context, category string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if category == "" {
		return len(r.entries), nil
	}
	n := 0
	for _, entry := range r.entries {
		if entry.Category == category {
			n++
		}
	}
	return n, nil
}

// Categories aggregates analysis counts per category, largest first.
func (r *MemoryRepo) Categories(ctx context.Context) ([]CategoryCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	counts := make(map[string]int)
	for _, entry := range r.entries {
		counts[entry.Category]++
	}
	r.mu.RUnlock()

	out := make([]CategoryCount, 0, len(counts))
	for category, count := range counts {
		out = append(out, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// Upsert inserts a new analysis or replaces the stored record wholesale.
func (r *MemoryRepo) Upsert(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(analysis.Name) == "" {
		return ErrInvalidInput
	}
	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.byName[analysis.Name]; ok {
		analysis.ID = r.entries[idx].ID
		analysis.CreatedAt = r.entries[idx].CreatedAt
		analysis.UpdatedAt = now
		r.entries[idx] = cloneAnalysis(analysis)
		return nil
	}
	if analysis.ID == "" {
		analysis.ID = uuid.NewString()
	}
	analysis.CreatedAt = now
	analysis.UpdatedAt = now
	r.byName[analysis.Name] = len(r.entries)
	r.entries = append(r.entries, cloneAnalysis(analysis))
	return nil
}

// DeleteAll wipes the catalog and returns the number of removed records.
func (r *MemoryRepo) DeleteAll(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.entries))
	r.entries = nil
	r.byName = make(map[string]int)
	return n, nil
}

func matchesEntry(re *regexp.Regexp, entry Analysis) bool {
	if re.MatchString(entry.Name) {
		return true
	}
	for _, alt := range entry.AlternativeNames {
		if re.MatchString(alt) {
			return true
		}
	}
	return false
}

func cloneAnalysis(a Analysis) Analysis {
	out := a
	out.AlternativeNames = append([]string(nil), a.AlternativeNames...)
	if a.Prices != nil {
		out.Prices = make(PriceTable, len(a.Prices))
		for provider, tiers := range a.Prices {
			copied := make(map[string]PriceEntry, len(tiers))
			for tier, entry := range tiers {
				copied[tier] = entry
			}
			out.Prices[provider] = copied
		}
	}
	return out
}

var _ Repo = (*MemoryRepo)(nil)
