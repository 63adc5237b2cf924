package domain

import "errors"

var (
	// ErrNotFound is returned when a region name or code cannot be resolved.
	ErrNotFound = errors.New("region not found")

	// ErrMalformedRecord is returned when a provider row has a count that
	// cannot be parsed. Callers drop the row and keep going.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrFetchFailed marks a provider that could not be reached or decoded.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrInvalidRegistry marks a region table that cannot be loaded.
	ErrInvalidRegistry = errors.New("invalid region table")
)
