package csvdb

import (
	"archive/zip"
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

type multiCloser struct {
	io.Reader

	closers []io.Closer
}

func (m multiCloser) Close() error {
	var rv error

	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && rv == nil {
			rv = err
		}
	}

	return rv
}

// OpenSource opens a file for streaming. Files with .gz extension are
// decompressed on the fly. For .zip archives, the first .csv file is
// opened (or the first file if there are no .csv files at all).
func OpenSource(fs afero.Fs, path string) (io.ReadCloser, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gzipFile, err := gzip.NewReader(bufio.NewReader(file))
		if err != nil {
			file.Close()

			return nil, fmt.Errorf("incorrect gzip archive: %w", err)
		}

		return multiCloser{Reader: gzipFile, closers: []io.Closer{file, gzipFile}}, nil
	case ".zip":
		member, err := openZipMember(file)
		if err != nil {
			file.Close()

			return nil, err
		}

		return multiCloser{Reader: member, closers: []io.Closer{file, member}}, nil
	}

	return multiCloser{Reader: bufio.NewReader(file), closers: []io.Closer{file}}, nil
}

func openZipMember(file afero.File) (io.ReadCloser, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat archive: %w", err)
	}

	zipReader, err := zip.NewReader(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("cannot open zip archive: %w", err)
	}

	var chosen *zip.File

	for _, zfile := range zipReader.File {
		if zfile.FileInfo().IsDir() {
			continue
		}

		if strings.ToLower(filepath.Ext(zfile.Name)) == ".csv" {
			chosen = zfile

			break
		}

		if chosen == nil {
			chosen = zfile
		}
	}

	if chosen == nil {
		return nil, ErrNoCSVInArchive
	}

	opened, err := chosen.Open()
	if err != nil {
		return nil, fmt.Errorf("cannot extract file from archive: %w", err)
	}

	return opened, nil
}
