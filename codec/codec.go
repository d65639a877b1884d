// Package codec wraps each compression and checksum primitive DataPak
// supports behind one uniform streaming interface (§4.1), so the reader
// and writer never switch on compMethod or checksumType themselves — they
// ask this package for an Encoder/Decoder/hash.Hash and drive it.
package codec

import (
	"io"

	"github.com/ZILtoid1991/datapak/dpkerr"
	"github.com/ZILtoid1991/datapak/format"
)

// FlushMode selects how an Encoder ends its current output chunk (§4.1).
type FlushMode int

const (
	// FlushContinue buffers as usual; no sync point is emitted.
	FlushContinue FlushMode = iota
	// FlushSync emits a codec-specific sync point a Decoder can resume
	// after, used between files in a jointly compressed archive.
	FlushSync
	// FlushEnd finalizes the stream; no more data may be written.
	FlushEnd
)

// Encoder compresses bytes written to it into an underlying destination
// writer supplied at construction time.
type Encoder interface {
	io.Writer
	// Feed writes p, then applies flush: FlushContinue leaves the stream
	// as a plain write, FlushSync emits a resumable sync point, FlushEnd
	// finalizes the stream. The dst half of §4.1's Feed(dst, p, flush) is
	// already bound at construction (NewEncoder's dst argument).
	Feed(p []byte, flush FlushMode) (int, error)
	// Flush emits a FlushSync-style sync point.
	Flush() error
	// Close finalizes the stream (FlushEnd) and releases codec resources.
	Close() error
}

// flushCloser is the subset of Encoder feed needs to drive; keeping it
// separate from Encoder avoids every concrete encoder's Feed method
// having to reason about its own interface satisfaction.
type flushCloser interface {
	io.Writer
	Flush() error
	Close() error
}

// feed implements the Feed behavior shared by every Encoder
// implementation: write, then apply flush.
func feed(e flushCloser, p []byte, flush FlushMode) (int, error) {
	n, err := e.Write(p)
	if err != nil {
		return n, err
	}
	switch flush {
	case FlushSync:
		if err := e.Flush(); err != nil {
			return n, err
		}
	case FlushEnd:
		if err := e.Close(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// Decoder decompresses bytes from an underlying source reader supplied at
// construction time.
type Decoder interface {
	io.Reader
	Close() error
}

// DictSource supplies the compression dictionary for ZSTD+D, per §4.1:
// either the raw bytes from a CMPRDICT header extension, or bytes read
// from the file named by a CMPRDIxf extension. The writer/reader packages
// resolve which one applies and pass the resulting bytes here.
type DictSource = []byte

// NewEncoder builds the Encoder for method, at the given compression
// level (0-63, clamped into whatever range the underlying library
// supports), writing compressed output to dst. dict is only consulted for
// format.CompZstdDict.
func NewEncoder(method format.CompMethod, level int, dict DictSource, dst io.Writer) (Encoder, error) {
	switch method {
	case format.CompUncompressed:
		return newPassthroughEncoder(dst), nil
	case format.CompZlib:
		return newZlibEncoder(dst, level)
	case format.CompZstd:
		return newZstdEncoder(dst, level, nil)
	case format.CompZstdDict:
		return newZstdEncoder(dst, level, dict)
	case format.CompLZ4:
		return newLZ4Encoder(dst, level)
	default:
		return nil, dpkerr.New(dpkerr.UnknownCompressionExtension, method.String())
	}
}

// NewDecoder builds the Decoder for method, reading compressed input from
// src. dict is only consulted for format.CompZstdDict.
func NewDecoder(method format.CompMethod, dict DictSource, src io.Reader) (Decoder, error) {
	switch method {
	case format.CompUncompressed:
		return newPassthroughDecoder(src), nil
	case format.CompZlib:
		return newZlibDecoder(src)
	case format.CompZstd:
		return newZstdDecoder(src, nil)
	case format.CompZstdDict:
		return newZstdDecoder(src, dict)
	case format.CompLZ4:
		return newLZ4Decoder(src)
	default:
		return nil, dpkerr.New(dpkerr.UnknownCompressionExtension, method.String())
	}
}
