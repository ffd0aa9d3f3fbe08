package providers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu      sync.RWMutex
	entries []Provider
	bySlug  map[string]int
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{bySlug: make(map[string]int)}
}

// ListAll returns providers in insertion order.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Provider, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

// FindBySlug returns the provider with the given slug.
func (r *MemoryRepo) FindBySlug(ctx context.Context, slug string) (Provider, error) {
	if err := ctx.Err(); err != nil {
		return Provider{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.bySlug[slug]
	if !ok {
		return Provider{}, ErrNotFound
	}
	return r.entries[idx], nil
}

// InsertIfAbsent inserts a provider, failing when the slug is taken.
func (r *MemoryRepo) InsertIfAbsent(ctx context.Context, provider Provider) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bySlug[provider.Slug]; exists {
		return ErrDuplicateSlug
	}
	if provider.ID == "" {
		provider.ID = uuid.NewString()
	}
	provider.CreatedAt = time.Now().UTC()
	r.bySlug[provider.Slug] = len(r.entries)
	r.entries = append(r.entries, provider)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
