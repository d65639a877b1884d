package datapak

import (
	"io"

	"github.com/ZILtoid1991/datapak/format"
	"github.com/ZILtoid1991/datapak/reader"
	"github.com/ZILtoid1991/datapak/writer"
)

// Re-exports so callers depend on a single import path for the common
// entry points, instead of reaching into reader/writer directly.

// Reader is an opened archive in read mode. See package reader.
type Reader = reader.Reader

// Writer builds an archive. See package writer.
type Writer = writer.Writer

// Open opens the archive at path. See reader.Open.
func Open(path string, opts ...reader.Option) (*Reader, error) {
	return reader.Open(path, opts...)
}

// NewReader constructs a Reader over an already-open seekable stream.
// See reader.NewReader.
func NewReader(src io.ReadSeeker, opts ...reader.Option) (*Reader, error) {
	return reader.NewReader(src, opts...)
}

// Create begins building a new archive at path. See writer.Create.
func Create(path string, header format.Header, headerExts []format.HeaderExtension, opts ...writer.Option) (*Writer, error) {
	return writer.Create(path, header, headerExts, opts...)
}
