package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestResolveMatchesNameSubstring(t *testing.T) {
	t.Parallel()
	svc := seededService(t, Analysis{Name: "Hemoglobina glicata", Category: "blood"})

	res := svc.Resolve(context.Background(), "glicata")
	if !res.Found {
		t.Fatalf("expected match, got placeholder")
	}
	if res.Name != "Hemoglobina glicata" {
		t.Fatalf("unexpected resolution: %q", res.Name)
	}
}

func TestResolveMatchesAlternativeName(t *testing.T) {
	t.Parallel()
	svc := seededService(t, Analysis{
		Name:             "Glicemia",
		AlternativeNames: []string{"Glucoza", "Glucose"},
		Category:         "blood",
	})

	res := svc.Resolve(context.Background(), "glucoza")
	if !res.Found || res.Name != "Glicemia" {
		t.Fatalf("expected alias to resolve to Glicemia, got %+v", res)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	t.Parallel()
	svc := seededService(t,
		Analysis{Name: "Colesterol", Category: "blood"},
		Analysis{Name: "Colesterol HDL", Category: "blood"},
	)

	res := svc.Resolve(context.Background(), "colesterol")
	if !res.Found || res.Name != "Colesterol" {
		t.Fatalf("expected first store-order match, got %+v", res)
	}
}

func TestResolveMissYieldsPlaceholder(t *testing.T) {
	t.Parallel()
	svc := seededService(t, Analysis{Name: "Colesterol", Category: "blood"})

	res := svc.Resolve(context.Background(), "analiza inexistenta")
	if res.Found {
		t.Fatalf("expected placeholder for unknown name")
	}
	if res.Name != "analiza inexistenta" {
		t.Fatalf("placeholder should echo the query, got %q", res.Name)
	}
	if res.Category != "unknown" {
		t.Fatalf("placeholder category = %q, want unknown", res.Category)
	}
	if len(res.Prices) != 0 {
		t.Fatalf("placeholder should have empty prices, got %v", res.Prices)
	}
}

func TestResolveStoreFailureYieldsPlaceholderNotError(t *testing.T) {
	t.Parallel()
	svc := &Service{Repo: failingRepo{}}

	res := svc.Resolve(context.Background(), "Glicemia")
	if res.Found {
		t.Fatalf("expected placeholder when store is down")
	}
	if res.Name != "Glicemia" {
		t.Fatalf("placeholder should echo the query, got %q", res.Name)
	}
}

func TestGetFetchesByID(t *testing.T) {
	t.Parallel()
	svc := seededService(t, Analysis{Name: "Glicemia", Category: "blood"})
	ctx := context.Background()

	stored, err := svc.Repo.FindByName(ctx, "Glicemia")
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	got, err := svc.Get(ctx, stored.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Glicemia" {
		t.Fatalf("unexpected analysis %+v", got)
	}
}

func TestGetUnknownID(t *testing.T) {
	t.Parallel()
	svc := seededService(t, Analysis{Name: "Glicemia", Category: "blood"})

	_, err := svc.Get(context.Background(), "5f9c1d9e-7a07-4a3b-9f3f-0a4f2a6d8b11")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRejectsMalformedID(t *testing.T) {
	t.Parallel()
	svc := seededService(t)

	for _, bad := range []string{"", "   ", "not-a-uuid", "glicemia"} {
		if _, err := svc.Get(context.Background(), bad); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %q, got %v", bad, err)
		}
	}
}

func TestGetSurfacesStoreErrors(t *testing.T) {
	t.Parallel()
	svc := &Service{Repo: failingRepo{}}

	_, err := svc.Get(context.Background(), "5f9c1d9e-7a07-4a3b-9f3f-0a4f2a6d8b11")
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
}

func TestCompareReturnsOneRowPerName(t *testing.T) {
	t.Parallel()
	known := Analysis{Name: "Glicemia", Category: "blood"}
	known.ApplyPrice("synevo", TierNormal, PriceEntry{Amount: 20})
	svc := seededService(t, known)

	results := svc.Compare(context.Background(), []string{"glicemia", "inexistenta"}, nil)
	if len(results) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(results))
	}
	if !results[0].Found || results[1].Found {
		t.Fatalf("expected found/miss pair, got %+v", results)
	}
}

func TestCompareAppliesProviderFilter(t *testing.T) {
	t.Parallel()
	known := Analysis{Name: "Glicemia", Category: "blood"}
	known.ApplyPrice("synevo", TierNormal, PriceEntry{Amount: 20})
	known.ApplyPrice("medlife", TierNormal, PriceEntry{Amount: 25})
	svc := seededService(t, known)

	results := svc.Compare(context.Background(), []string{"glicemia"}, []string{"medlife", "necunoscut"})
	if len(results) != 1 {
		t.Fatalf("expected 1 row, got %d", len(results))
	}
	prices := results[0].Prices
	if _, ok := prices["medlife"]; !ok {
		t.Fatalf("expected medlife prices kept, got %v", prices)
	}
	if _, ok := prices["synevo"]; ok {
		t.Fatalf("expected synevo prices dropped, got %v", prices)
	}
	if _, ok := prices["necunoscut"]; ok {
		t.Fatalf("unknown provider slug must not appear, got %v", prices)
	}
}

func TestSearchUsesStore(t *testing.T) {
	t.Parallel()
	svc := seededService(t,
		Analysis{Name: "Colesterol", Category: "blood"},
		Analysis{Name: "Colesterol HDL", Category: "blood"},
	)

	result := svc.Search(context.Background(), "colesterol", 10)
	if result.Source != SourceDatabase {
		t.Fatalf("expected database source, got %q", result.Source)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 results, got %d", result.Total)
	}
	for _, res := range result.Results {
		if !res.Found {
			t.Fatalf("store results must be found=true, got %+v", res)
		}
	}
}

func TestSearchDegradesToReferenceData(t *testing.T) {
	t.Parallel()
	svc := &Service{Repo: failingRepo{}}

	result := svc.Search(context.Background(), "colesterol", 10)
	if result.Source != SourceReference {
		t.Fatalf("expected reference source, got %q", result.Source)
	}
	if result.Total == 0 {
		t.Fatalf("expected reference matches for colesterol")
	}
	for _, res := range result.Results {
		if res.Found {
			t.Fatalf("reference results are placeholders, got %+v", res)
		}
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	t.Parallel()
	svc := seededService(t)

	result := svc.Search(context.Background(), "   ", 10)
	if len(result.Results) != 0 {
		t.Fatalf("expected no results for empty query, got %v", result.Results)
	}
}

func TestListPaginates(t *testing.T) {
	t.Parallel()
	svc := seededService(t,
		Analysis{Name: "Colesterol", Category: "blood"},
		Analysis{Name: "Glicemia", Category: "blood"},
		Analysis{Name: "Creatinina", Category: "kidney"},
	)

	page, err := svc.List(context.Background(), "blood", 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected total 2 in category, got %d", page.Total)
	}
	if len(page.Results) != 1 || page.Results[0].Name != "Glicemia" {
		t.Fatalf("expected second blood entry, got %+v", page.Results)
	}
}

func TestCategoriesLargestFirst(t *testing.T) {
	t.Parallel()
	svc := seededService(t,
		Analysis{Name: "Colesterol", Category: "blood"},
		Analysis{Name: "Glicemia", Category: "blood"},
		Analysis{Name: "Creatinina", Category: "kidney"},
	)

	categories, err := svc.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %v", categories)
	}
	if categories[0].Category != "blood" || categories[0].Count != 2 {
		t.Fatalf("expected blood first with count 2, got %+v", categories[0])
	}
}

func TestWipeReportsDeletedCount(t *testing.T) {
	t.Parallel()
	svc := seededService(t,
		Analysis{Name: "Colesterol", Category: "blood"},
		Analysis{Name: "Glicemia", Category: "blood"},
	)

	n, err := svc.Wipe(context.Background())
	if err != nil {
		t.Fatalf("Wipe: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}
	result := svc.Search(context.Background(), "colesterol", 10)
	if result.Source == SourceDatabase && result.Total != 0 {
		t.Fatalf("expected empty catalog after wipe, got %+v", result)
	}
}

func TestUpsertReplacesWholesale(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepo()
	ctx := context.Background()

	first := Analysis{Name: "Glicemia", Category: "blood", AlternativeNames: []string{"Glucoza"}}
	first.ApplyPrice("synevo", TierNormal, PriceEntry{Amount: 20})
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	stored, err := repo.FindByName(ctx, "Glicemia")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	stored.ApplyPrice("synevo", TierNormal, PriceEntry{Amount: 22})
	if err := repo.Upsert(ctx, stored); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.FindByName(ctx, "Glicemia")
	if err != nil {
		t.Fatalf("find after update: %v", err)
	}
	if got.Prices["synevo"][TierNormal].Amount != 22 {
		t.Fatalf("expected price replaced, got %+v", got.Prices)
	}
	if got.ID != stored.ID {
		t.Fatalf("identity must survive updates")
	}
	if count, _ := repo.Count(ctx, ""); count != 1 {
		t.Fatalf("expected single record, got %d", count)
	}
}
