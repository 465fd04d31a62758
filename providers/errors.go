package providers

import "errors"

var (
	// ErrDatasetUnavailable is returned if database file cannot be
	// opened or parsed. Such dataset contributes nothing.
	ErrDatasetUnavailable = errors.New("dataset is unavailable")

	// ErrUnknownDatabaseType is returned if MaxMind DB file has a
	// database type we do not know how to decode.
	ErrUnknownDatabaseType = errors.New("unknown database type")

	// ErrUnknownKind is returned if dataset kind is not known.
	ErrUnknownKind = errors.New("unknown dataset kind")
)
