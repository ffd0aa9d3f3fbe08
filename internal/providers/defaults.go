package providers

import (
	"context"

	"github.com/google/uuid"

	"medcompare-backend/internal/shared/telemetry"
)

// DefaultProviders returns the built-in Romanian provider set, used to
// seed an empty store and as the fallback when the store is unreachable.
func DefaultProviders() []Provider {
	return []Provider{
		{
			Name:     "Regina Maria",
			Slug:     "reginamaria",
			Website:  "https://www.reginamaria.ro",
			Location: "Romania",
			ContactInfo: map[string]string{
				"phone": "021 9467",
				"email": "contact@reginamaria.ro",
			},
		},
		{
			Name:     "Medlife",
			Slug:     "medlife",
			Website:  "https://www.medlife.ro",
			Location: "Romania",
			ContactInfo: map[string]string{
				"phone": "021 9736",
				"email": "contact@medlife.ro",
			},
		},
		{
			Name:     "Synevo",
			Slug:     "synevo",
			Website:  "https://www.synevo.ro",
			Location: "Romania",
			ContactInfo: map[string]string{
				"phone": "021 9717",
				"email": "contact@synevo.ro",
			},
		},
		{
			Name:     "Medicover",
			Slug:     "medicover",
			Website:  "https://www.medicover.ro",
			Location: "Romania",
			ContactInfo: map[string]string{
				"phone": "021 9999",
				"email": "contact@medicover.ro",
			},
		},
	}
}

// EnsureDefaults seeds the default providers, skipping slugs that already
// exist. Failures are logged, not fatal: the service still answers with
// the built-in list.
func EnsureDefaults(ctx context.Context, repo Repo) {
	for _, provider := range DefaultProviders() {
		provider.ID = uuid.NewString()
		if err := repo.InsertIfAbsent(ctx, provider); err != nil && err != ErrDuplicateSlug {
			telemetry.Error("providers.seed_failed", map[string]any{
				"slug":  provider.Slug,
				"error": err.Error(),
			})
		}
	}
}
