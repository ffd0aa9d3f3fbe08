package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Row error kinds. Row errors are recorded, never fatal to a batch.
const (
	KindMissingName  = "missing_name"
	KindInvalidPrice = "invalid_price"
	KindInvalidTier  = "invalid_tier"
	KindStoreFailure = "store_failure"
)

// ErrInvalidMapping is returned for a malformed or incomplete field
// mapping; unlike row errors it fails the whole request.
var ErrInvalidMapping = errors.New("invalid field mapping")

// RowError describes one skipped row of an ingestion run.
type RowError struct {
	Row     int    `json:"row"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// FieldMapping maps logical import fields (name, price, currency, ...) to
// the column headers of the uploaded file.
type FieldMapping map[string]string

var requiredFields = []string{"name", "price", "currency"}

// ParseFieldMapping decodes and validates a mapping supplied as JSON.
func ParseFieldMapping(raw string) (FieldMapping, error) {
	var mapping FieldMapping
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}
	for _, field := range requiredFields {
		if strings.TrimSpace(mapping[field]) == "" {
			return nil, fmt.Errorf("%w: missing required field mapping %q", ErrInvalidMapping, field)
		}
	}
	return mapping, nil
}

// Result summarizes one ingestion run.
type Result struct {
	TotalRecords      int        `json:"total_records"`
	SuccessfulImports int        `json:"successful_imports"`
	Errors            []RowError `json:"errors"`
}

// ImportLog is the append-only audit record of one ingestion run.
type ImportLog struct {
	ID                string     `json:"-"`
	Filename          string     `json:"filename"`
	Provider          string     `json:"provider"`
	ArchiveKey        string     `json:"archive_key,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        time.Time  `json:"finished_at"`
	TotalRecords      int        `json:"total_records"`
	SuccessfulImports int        `json:"successful_imports"`
	Errors            []RowError `json:"errors"`
}
