package providers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo on Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) ListAll(ctx context.Context) ([]Provider, error) {
	query := `
SELECT id, name, slug, logo_url, website, location, contact_info, created_at
FROM providers
ORDER BY created_at, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	defer rows.Close()

	out := []Provider{}
	for rows.Next() {
		provider, err := scanProvider(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, provider)
	}
	return out, rows.Err()
}

func (r *PGRepo) FindBySlug(ctx context.Context, slug string) (Provider, error) {
	query := `
SELECT id, name, slug, logo_url, website, location, contact_info, created_at
FROM providers
WHERE slug = $1
LIMIT 1`
	provider, err := scanProvider(r.DB.QueryRowContext(ctx, query, slug).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Provider{}, ErrNotFound
		}
		return Provider{}, err
	}
	return provider, nil
}

// InsertIfAbsent relies on ON CONFLICT DO NOTHING so the slug uniqueness
// check and the insert are a single statement.
func (r *PGRepo) InsertIfAbsent(ctx context.Context, provider Provider) error {
	contactJSON, err := json.Marshal(provider.ContactInfo)
	if err != nil {
		return fmt.Errorf("marshal contact info: %w", err)
	}
	query := `
INSERT INTO providers (id, name, slug, logo_url, website, location, contact_info, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (slug) DO NOTHING`
	res, err := r.DB.ExecContext(ctx, query,
		provider.ID,
		provider.Name,
		provider.Slug,
		nullable(provider.LogoURL),
		nullable(provider.Website),
		nullable(provider.Location),
		contactJSON,
	)
	if err != nil {
		return fmt.Errorf("insert provider %q: %w", provider.Slug, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDuplicateSlug
	}
	return nil
}

func scanProvider(scan func(...any) error) (Provider, error) {
	var p Provider
	var logoURL, website, location sql.NullString
	var contactJSON []byte
	if err := scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&logoURL,
		&website,
		&location,
		&contactJSON,
		&p.CreatedAt,
	); err != nil {
		return Provider{}, err
	}
	if logoURL.Valid {
		p.LogoURL = logoURL.String
	}
	if website.Valid {
		p.Website = website.String
	}
	if location.Valid {
		p.Location = location.String
	}
	if len(contactJSON) > 0 {
		if err := json.Unmarshal(contactJSON, &p.ContactInfo); err != nil {
			return Provider{}, fmt.Errorf("decode contact info for %q: %w", p.Slug, err)
		}
	}
	return p, nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
