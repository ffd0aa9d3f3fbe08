package providers

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"medcompare-backend/internal/shared/telemetry"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ListResult carries the provider list plus a tag telling the caller
// whether it came from the store or the built-in fallback.
type ListResult struct {
	Providers []Provider `json:"providers"`
	Source    string     `json:"source"`
}

// Service contains business logic for providers.
type Service struct {
	Repo Repo
}

// List returns all providers; an empty or failing store answers with the
// default set so price comparison stays usable.
func (s *Service) List(ctx context.Context) ListResult {
	all, err := s.Repo.ListAll(ctx)
	if err != nil {
		telemetry.Error("providers.list_degraded", map[string]any{"error": err.Error()})
		return ListResult{Providers: DefaultProviders(), Source: "fallback"}
	}
	if len(all) == 0 {
		return ListResult{Providers: DefaultProviders(), Source: "default"}
	}
	return ListResult{Providers: all, Source: "database"}
}

// Get returns one provider by slug.
func (s *Service) Get(ctx context.Context, slug string) (Provider, error) {
	return s.Repo.FindBySlug(ctx, strings.TrimSpace(slug))
}

// Create validates and inserts a new provider.
func (s *Service) Create(ctx context.Context, provider Provider) (Provider, error) {
	provider.Name = strings.TrimSpace(provider.Name)
	provider.Slug = strings.ToLower(strings.TrimSpace(provider.Slug))
	if provider.Name == "" || !slugPattern.MatchString(provider.Slug) {
		return Provider{}, ErrInvalidInput
	}
	provider.ID = uuid.NewString()
	if err := s.Repo.InsertIfAbsent(ctx, provider); err != nil {
		return Provider{}, err
	}
	return provider, nil
}

// KnownSlugs returns the set of provider slugs currently registered,
// including defaults when the store is empty. Used by imports to warn on
// unknown providers without blocking them.
func (s *Service) KnownSlugs(ctx context.Context) map[string]struct{} {
	out := make(map[string]struct{})
	for _, p := range s.List(ctx).Providers {
		out[p.Slug] = struct{}{}
	}
	return out
}
