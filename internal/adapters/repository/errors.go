package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateMatch = errors.New("match id already recorded")
	ErrInvalidPath    = errors.New("sqlite path is required")
)
