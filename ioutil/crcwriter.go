package ioutil

import (
	"hash"
	"hash/crc32"
	"io"
)

// CRCWriter wraps an io.Writer and accumulates a running CRC32 (IEEE)
// over everything written through it, exposing the running Sum at any
// point. It plays the role ponzu/ioutil.BlockWriter plays for block
// alignment, but for header-checksum accumulation instead: every byte
// the writer serializes for the signature/header/extensions/index region
// (§4.4 Finalize) passes through one CRCWriter so the trailer is computed
// from exactly the bytes written. Per-file archives rewrite index entries
// after that, so the writer then recomputes the trailer by reading the
// region back through a CRCReader.
type CRCWriter struct {
	w    io.Writer
	hash hash.Hash32
}

// NewCRCWriter wraps w, seeding the CRC32 accumulator fresh.
func NewCRCWriter(w io.Writer) *CRCWriter {
	return &CRCWriter{w: w, hash: crc32.NewIEEE()}
}

// Write writes p to the underlying writer and feeds it into the running
// CRC32.
func (c *CRCWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.hash.Write(p[:n])
	}
	return n, err
}

// Sum32 returns the CRC32 accumulated so far.
func (c *CRCWriter) Sum32() uint32 {
	return c.hash.Sum32()
}

// CRCReader wraps an io.Reader and accumulates a running CRC32 over
// everything read through it, using an io.TeeReader internally — the same
// idiom sarchive/sar/open.go uses to tee a table-of-contents read into a
// raw-bytes buffer, applied here to a hash instead of a buffer.
type CRCReader struct {
	tee  io.Reader
	hash hash.Hash32
}

// NewCRCReader wraps r, seeding the CRC32 accumulator fresh.
func NewCRCReader(r io.Reader) *CRCReader {
	h := crc32.NewIEEE()
	return &CRCReader{tee: io.TeeReader(r, h), hash: h}
}

// Read implements io.Reader.
func (c *CRCReader) Read(p []byte) (int, error) {
	return c.tee.Read(p)
}

// Sum32 returns the CRC32 accumulated so far.
func (c *CRCReader) Sum32() uint32 {
	return c.hash.Sum32()
}
