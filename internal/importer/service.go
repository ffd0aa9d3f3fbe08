package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"medcompare-backend/internal/catalog"
	"medcompare-backend/internal/shared/metrics"
	"medcompare-backend/internal/shared/telemetry"
)

// Service ingests provider price lists into the canonical catalog.
// Each row is an independent read-modify-write of a single catalog record;
// one row failing never blocks or rolls back the others.
type Service struct {
	Catalog catalog.Repo
	Logs    LogRepo
}

// ApplyRow maps one tabular row through the field mapping and overlays its
// price onto the catalog. rowNum is 1-based and only used for error
// reporting. A non-nil error is always a RowError except for store
// failures wrapped with KindStoreFailure.
func (s *Service) ApplyRow(ctx context.Context, providerSlug string, mapping FieldMapping, rowNum int, row map[string]string) error {
	name := strings.TrimSpace(row[mapping["name"]])
	if name == "" {
		return RowError{Row: rowNum, Kind: KindMissingName, Message: "missing analysis name"}
	}

	priceRaw := strings.TrimSpace(row[mapping["price"]])
	amount, err := ParsePrice(priceRaw)
	if err != nil {
		return RowError{Row: rowNum, Kind: KindInvalidPrice, Message: fmt.Sprintf("invalid price format: %s", priceRaw)}
	}

	currency := strings.TrimSpace(row[mapping["currency"]])
	if currency == "" {
		currency = "RON"
	}

	tier := catalog.TierNormal
	if col := mapping["price_type"]; col != "" {
		if raw := strings.TrimSpace(row[col]); raw != "" {
			tier = strings.ToLower(raw)
		}
	}
	if !catalog.ValidTier(tier) {
		return RowError{Row: rowNum, Kind: KindInvalidTier, Message: fmt.Sprintf("unknown price tier: %s", tier)}
	}

	category := "general"
	if col := mapping["category"]; col != "" {
		if raw := strings.TrimSpace(row[col]); raw != "" {
			category = raw
		}
	}
	description := ""
	if col := mapping["description"]; col != "" {
		description = strings.TrimSpace(row[col])
	}
	var alternatives []string
	if col := mapping["alternative_names"]; col != "" {
		for _, alt := range strings.Split(row[col], ";") {
			if trimmed := strings.TrimSpace(alt); trimmed != "" && trimmed != name {
				alternatives = append(alternatives, trimmed)
			}
		}
	}

	entry := catalog.PriceEntry{Amount: amount, Currency: currency}

	existing, err := s.Catalog.FindByName(ctx, name)
	switch err {
	case nil:
		existing.ApplyPrice(providerSlug, tier, entry)
		if err := s.Catalog.Upsert(ctx, existing); err != nil {
			return fmt.Errorf("%s: update %q: %w", KindStoreFailure, name, err)
		}
	case catalog.ErrNotFound:
		created := catalog.Analysis{
			ID:               uuid.NewString(),
			Name:             name,
			AlternativeNames: alternatives,
			Category:         category,
			Description:      description,
		}
		created.ApplyPrice(providerSlug, tier, entry)
		if err := s.Catalog.Upsert(ctx, created); err != nil {
			return fmt.Errorf("%s: create %q: %w", KindStoreFailure, name, err)
		}
	default:
		return fmt.Errorf("%s: lookup %q: %w", KindStoreFailure, name, err)
	}
	return nil
}

// Run ingests every row sequentially, accumulating row errors, and
// appends an import log entry describing the run. The log write is
// best-effort: a failing audit store does not undo a completed import.
func (s *Service) Run(ctx context.Context, providerSlug, filename, archiveKey string, mapping FieldMapping, rows []map[string]string) Result {
	started := time.Now().UTC()
	result := Result{Errors: []RowError{}}

	for i, row := range rows {
		rowNum := i + 1
		result.TotalRecords++

		err := s.ApplyRow(ctx, providerSlug, mapping, rowNum, row)
		if err == nil {
			result.SuccessfulImports++
			continue
		}
		if rowErr, ok := err.(RowError); ok {
			result.Errors = append(result.Errors, rowErr)
			continue
		}
		result.Errors = append(result.Errors, RowError{Row: rowNum, Kind: KindStoreFailure, Message: err.Error()})
	}

	log := ImportLog{
		ID:                uuid.NewString(),
		Filename:          filename,
		Provider:          providerSlug,
		ArchiveKey:        archiveKey,
		StartedAt:         started,
		FinishedAt:        time.Now().UTC(),
		TotalRecords:      result.TotalRecords,
		SuccessfulImports: result.SuccessfulImports,
		Errors:            result.Errors,
	}
	if s.Logs != nil {
		if err := s.Logs.Insert(ctx, log); err != nil {
			telemetry.Error("import.log_failed", map[string]any{
				"provider": providerSlug,
				"filename": filename,
				"error":    err.Error(),
			})
		}
	}

	metrics.AddImportRows(uint64(result.TotalRecords), uint64(len(result.Errors)))
	metrics.ObserveImportDurationMs(float64(time.Since(started).Microseconds()) / 1000.0)

	telemetry.Info("import.complete", map[string]any{
		"provider":   providerSlug,
		"filename":   filename,
		"total":      result.TotalRecords,
		"successful": result.SuccessfulImports,
		"errors":     len(result.Errors),
	})
	return result
}

// History returns the most recent import logs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]ImportLog, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	return s.Logs.ListRecent(ctx, limit)
}
