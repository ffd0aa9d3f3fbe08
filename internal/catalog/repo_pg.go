package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo on Postgres. The price table and alias list are
// stored as jsonb so a record keeps the same document shape it has on the
// wire. Pattern matching uses the server-side case-insensitive POSIX
// operator over the name and each unnested alias.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, name, alternative_names, category, description, prices, created_at, updated_at`

func (r *PGRepo) FindByID(ctx context.Context, id string) (Analysis, error) {
	query := `
SELECT ` + analysisColumns + `
FROM analyses
WHERE id = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) FindByName(ctx context.Context, name string) (Analysis, error) {
	query := `
SELECT ` + analysisColumns + `
FROM analyses
WHERE name = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, name))
}

func (r *PGRepo) FindFirstByPattern(ctx context.Context, expr string) (Analysis, error) {
	query := `
SELECT ` + analysisColumns + `
FROM analyses
WHERE name ~* $1
   OR EXISTS (
        SELECT 1 FROM jsonb_array_elements_text(alternative_names) AS alt(v)
        WHERE alt.v ~* $1
      )
ORDER BY created_at, id
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, expr))
}

func (r *PGRepo) SearchByPattern(ctx context.Context, expr string, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
SELECT ` + analysisColumns + `
FROM analyses
WHERE name ~* $1
   OR EXISTS (
        SELECT 1 FROM jsonb_array_elements_text(alternative_names) AS alt(v)
        WHERE alt.v ~* $1
      )
ORDER BY created_at, id
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, expr, limit)
	if err != nil {
		return nil, fmt.Errorf("search analyses: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *PGRepo) List(ctx context.Context, category string, skip, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}
	query := `
SELECT ` + analysisColumns + `
FROM analyses
WHERE ($1 = '' OR category = $1)
ORDER BY created_at, id
OFFSET $2
LIMIT $3`
	rows, err := r.DB.QueryContext(ctx, query, category, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *PGRepo) Count(ctx context.Context, category string) (int, error) {
	query := `SELECT COUNT(*) FROM analyses WHERE ($1 = '' OR category = $1)`
	var n int
	if err := r.DB.QueryRowContext(ctx, query, category).Scan(&n); err != nil {
		return 0, fmt.Errorf("count analyses: %w", err)
	}
	return n, nil
}

func (r *PGRepo) Categories(ctx context.Context) ([]CategoryCount, error) {
	query := `
SELECT category, COUNT(*) AS cnt
FROM analyses
GROUP BY category
ORDER BY cnt DESC, category`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("aggregate categories: %w", err)
	}
	defer rows.Close()

	out := []CategoryCount{}
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, rows.Err()
}

// Upsert replaces the stored record wholesale; the read-modify-write cycle
// around it is the caller's, so concurrent imports against the same name
// are last-write-wins by design.
func (r *PGRepo) Upsert(ctx context.Context, analysis Analysis) error {
	altJSON, err := json.Marshal(sliceOrEmpty(analysis.AlternativeNames))
	if err != nil {
		return fmt.Errorf("marshal alternative names: %w", err)
	}
	prices := analysis.Prices
	if prices == nil {
		prices = PriceTable{}
	}
	pricesJSON, err := json.Marshal(prices)
	if err != nil {
		return fmt.Errorf("marshal prices: %w", err)
	}

	query := `
INSERT INTO analyses (id, name, alternative_names, category, description, prices, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (name) DO UPDATE SET
  alternative_names = EXCLUDED.alternative_names,
  category = EXCLUDED.category,
  description = EXCLUDED.description,
  prices = EXCLUDED.prices,
  updated_at = now()`
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.Name,
		altJSON,
		analysis.Category,
		nullableString(analysis.Description),
		pricesJSON,
	)
	if err != nil {
		return fmt.Errorf("upsert analysis %q: %w", analysis.Name, err)
	}
	return nil
}

func (r *PGRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM analyses`)
	if err != nil {
		return 0, fmt.Errorf("delete analyses: %w", err)
	}
	return res.RowsAffected()
}

func (r *PGRepo) scanOne(row *sql.Row) (Analysis, error) {
	analysis, err := scanAnalysis(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

func (r *PGRepo) scanMany(rows *sql.Rows) ([]Analysis, error) {
	out := []Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

func scanAnalysis(scan func(...any) error) (Analysis, error) {
	var a Analysis
	var description sql.NullString
	var altJSON, pricesJSON []byte
	if err := scan(
		&a.ID,
		&a.Name,
		&altJSON,
		&a.Category,
		&description,
		&pricesJSON,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return Analysis{}, err
	}
	if description.Valid {
		a.Description = description.String
	}
	if len(altJSON) > 0 {
		if err := json.Unmarshal(altJSON, &a.AlternativeNames); err != nil {
			return Analysis{}, fmt.Errorf("decode alternative names for %q: %w", a.Name, err)
		}
	}
	if a.AlternativeNames == nil {
		a.AlternativeNames = []string{}
	}
	if len(pricesJSON) > 0 {
		if err := json.Unmarshal(pricesJSON, &a.Prices); err != nil {
			return Analysis{}, fmt.Errorf("decode prices for %q: %w", a.Name, err)
		}
	}
	if a.Prices == nil {
		a.Prices = PriceTable{}
	}
	return a, nil
}

func sliceOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
