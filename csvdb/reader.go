package csvdb

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/9seconds/ipattrib/topolib"
)

// RecordMaker is a type which converts parsed CSV record to the
// RangeEntry.
type RecordMaker func([]string) (topolib.RangeEntry, error)

// CSVReader is a wrapper over csv.Reader to convert each row into
// RangeEntry instance.
type CSVReader struct {
	reader     *csv.Reader
	makeRecord RecordMaker
}

// Read returns a next entry. If line is malformed, it returns nil
// entry and nil error: caller should skip it. io.EOF is returned as
// is.
func (cr *CSVReader) Read() (*topolib.RangeEntry, error) {
	data, err := cr.next()

	var parseErr *csv.ParseError

	switch {
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.As(err, &parseErr):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("cannot read new record: %w", err)
	}

	record, err := cr.makeRecord(data)
	if err != nil {
		return nil, nil
	}

	return &record, nil
}

func (cr *CSVReader) next() (data []string, err error) {
	for err == nil && len(data) == 0 {
		data, err = cr.reader.Read()
	}

	return
}

// NewCSVReader converts given io.Reader instance into CSVReader. Lines
// starting with # are comments.
func NewCSVReader(filefp io.Reader, delimiter rune, makeRecord RecordMaker) *CSVReader {
	reader := csv.NewReader(filefp)
	reader.ReuseRecord = true
	reader.Comment = '#'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if delimiter != 0 {
		reader.Comma = delimiter
	}

	return &CSVReader{reader, makeRecord}
}
