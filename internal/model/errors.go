package model

import "errors"

// Errors that abort a whole run.
var (
	// ErrInvalidLocator is returned when a URL is neither a track nor a playlist link.
	ErrInvalidLocator = errors.New("invalid Spotify URL")

	// ErrMetadataFetch is returned when the metadata lookup fails.
	ErrMetadataFetch = errors.New("spotify metadata fetch failed")

	// ErrNoFolder is returned when no output folder was chosen.
	ErrNoFolder = errors.New("no folder selected")
)

// Errors that end a single job. Sibling jobs are not affected.
var (
	ErrNoMatch        = errors.New("no YouTube match found")
	ErrFetchFailed    = errors.New("download failed")
	ErrTagWriteFailed = errors.New("metadata update failed")
)
