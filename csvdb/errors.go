package csvdb

import "errors"

var (
	// ErrEmptySchema is returned if schema has no data columns.
	ErrEmptySchema = errors.New("schema has no columns")

	// ErrNoCSVInArchive is returned if zip archive has no files.
	ErrNoCSVInArchive = errors.New("cannot find a csv file in archive")

	// ErrMalformedLine is returned by RecordMaker if line cannot be
	// converted into an entry.
	ErrMalformedLine = errors.New("malformed line")
)
