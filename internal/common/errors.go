// Package common defines sentinel errors and small helpers shared across
// KodJobs packages. Callers should use errors.Is to match the error values.
package common

import "errors"

var (
	// Registration errors.
	ErrMissingFields = errors.New("missing required fields")
	ErrEmailTaken    = errors.New("email already in use")

	// Authentication errors. Unknown email and wrong password are not
	// distinguished.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Asset errors.
	ErrUnknownAssetKind = errors.New("unknown asset kind")
	ErrUnsupportedAsset = errors.New("unsupported asset type")
	ErrAssetNotFound    = errors.New("asset not found")

	// Persistent store errors. These are recovered locally and only logged.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrStorageCorrupt     = errors.New("storage corrupt")

	// Configuration errors.
	ErrUnknownBackend = errors.New("unknown backend")
)
