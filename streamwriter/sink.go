// Package streamwriter implements a forward-only, single-sheet XLSX
// emitter for datasets too large to hold as an in-memory worksheet.Sheet:
// rows are written once, in ascending order, and flushed to the sink in
// bounded-size chunks rather than buffered in full.
package streamwriter

import (
	"io"
	"os"
)

// Sink is anything a Writer can stream compressed bytes into. A local
// file is the only implementation this module carries (FileSink); the
// interface is intentionally just io.Writer+io.Closer so a caller can
// plug in an object-storage destination without this package depending
// on any particular cloud SDK.
type Sink interface {
	io.Writer
	io.Closer
}

// FileSink writes to a local file, created (truncated if it already
// exists) on construction.
type FileSink struct {
	file *os.File
	path string
}

// NewFileSink opens path for writing.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{file: f, path: path}, nil
}

func (fs *FileSink) Write(p []byte) (int, error) { return fs.file.Write(p) }

func (fs *FileSink) Close() error {
	if fs.file == nil {
		return nil
	}
	return fs.file.Close()
}

// Path returns the file path this sink writes to.
func (fs *FileSink) Path() string { return fs.path }

// Stats reports what a finished stream actually wrote.
type Stats struct {
	TotalRows   int64
	TotalSheets int
	Duration    float64
}
