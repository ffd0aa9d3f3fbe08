package importer

import (
	"context"
	"sync"
)

// MemoryLogRepo is an in-memory implementation of LogRepo.
type MemoryLogRepo struct {
	mu   sync.RWMutex
	logs []ImportLog
}

// NewMemoryLogRepo constructs an empty MemoryLogRepo.
func NewMemoryLogRepo() *MemoryLogRepo {
	return &MemoryLogRepo{}
}

// Insert appends an import log.
func (r *MemoryLogRepo) Insert(ctx context.Context, log ImportLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

// ListRecent returns up to limit logs, newest first.
func (r *MemoryLogRepo) ListRecent(ctx context.Context, limit int) ([]ImportLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []ImportLog{}
	for i := len(r.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.logs[i])
	}
	return out, nil
}

var _ LogRepo = (*MemoryLogRepo)(nil)
