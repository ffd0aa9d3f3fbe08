package importer

import "context"

// LogRepo is the append-only store for import audit records.
type LogRepo interface {
	Insert(ctx context.Context, log ImportLog) error
	ListRecent(ctx context.Context, limit int) ([]ImportLog, error)
}
