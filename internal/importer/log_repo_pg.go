package importer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGLogRepo implements LogRepo on Postgres. Rows are never updated.
type PGLogRepo struct {
	DB *sql.DB
}

func (r *PGLogRepo) Insert(ctx context.Context, log ImportLog) error {
	errorsJSON, err := json.Marshal(log.Errors)
	if err != nil {
		return fmt.Errorf("marshal import errors: %w", err)
	}
	query := `
INSERT INTO import_logs (id, filename, provider, archive_key, started_at, finished_at, total_records, successful_imports, errors)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.DB.ExecContext(ctx, query,
		log.ID,
		log.Filename,
		log.Provider,
		nullableText(log.ArchiveKey),
		log.StartedAt,
		log.FinishedAt,
		log.TotalRecords,
		log.SuccessfulImports,
		errorsJSON,
	)
	if err != nil {
		return fmt.Errorf("insert import log: %w", err)
	}
	return nil
}

func (r *PGLogRepo) ListRecent(ctx context.Context, limit int) ([]ImportLog, error) {
	query := `
SELECT id, filename, provider, archive_key, started_at, finished_at, total_records, successful_imports, errors
FROM import_logs
ORDER BY finished_at DESC, id DESC
LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list import logs: %w", err)
	}
	defer rows.Close()

	out := []ImportLog{}
	for rows.Next() {
		var log ImportLog
		var archiveKey sql.NullString
		var errorsJSON []byte
		if err := rows.Scan(
			&log.ID,
			&log.Filename,
			&log.Provider,
			&archiveKey,
			&log.StartedAt,
			&log.FinishedAt,
			&log.TotalRecords,
			&log.SuccessfulImports,
			&errorsJSON,
		); err != nil {
			return nil, err
		}
		if archiveKey.Valid {
			log.ArchiveKey = archiveKey.String
		}
		if len(errorsJSON) > 0 {
			if err := json.Unmarshal(errorsJSON, &log.Errors); err != nil {
				return nil, fmt.Errorf("decode import errors: %w", err)
			}
		}
		if log.Errors == nil {
			log.Errors = []RowError{}
		}
		out = append(out, log)
	}
	return out, rows.Err()
}

func nullableText(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ LogRepo = (*PGLogRepo)(nil)
