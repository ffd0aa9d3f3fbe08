package providers

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no provider matches the slug.
var ErrNotFound = errors.New("provider not found")

// ErrDuplicateSlug is returned when inserting a provider whose slug is
// already taken.
var ErrDuplicateSlug = errors.New("provider slug already exists")

// ErrInvalidInput is returned for malformed provider data.
var ErrInvalidInput = errors.New("invalid provider")

// Repo defines persistence operations for providers.
type Repo interface {
	ListAll(ctx context.Context) ([]Provider, error)
	FindBySlug(ctx context.Context, slug string) (Provider, error)
	InsertIfAbsent(ctx context.Context, provider Provider) error
}
