package catalog

import "context"

// Repo defines persistence operations for the canonical catalog.
//
// Pattern expressions are case-insensitive regular expressions matched
// anywhere within the analysis name or any alternative name. Result order
// is store-defined: callers must not read relevance into it.
type Repo interface {
	FindByID(ctx context.Context, id string) (Analysis, error)
	FindByName(ctx context.Context, name string) (Analysis, error)
	FindFirstByPattern(ctx context.Context, expr string) (Analysis, error)
	SearchByPattern(ctx context.Context, expr string, limit int) ([]Analysis, error)
	List(ctx context.Context, category string, skip, limit int) ([]Analysis, error)
	Count(ctx context.Context, category string) (int, error)
	Categories(ctx context.Context) ([]CategoryCount, error)
	Upsert(ctx context.Context, analysis Analysis) error
	DeleteAll(ctx context.Context) (int64, error)
}
