package catalog

import "errors"

// ErrNotFound is returned by repositories when no analysis matches.
var ErrNotFound = errors.New("analysis not found")

// ErrInvalidInput is returned for malformed caller input.
var ErrInvalidInput = errors.New("invalid input")
