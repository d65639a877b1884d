// Package reader implements the DataPak archive reader (§4.3): opening
// an archive, validating its header region, and iterating or randomly
// accessing its files.
package reader

import (
	"io"
	"os"

	"github.com/ZILtoid1991/datapak/codec"
	"github.com/ZILtoid1991/datapak/dpkerr"
	"github.com/ZILtoid1991/datapak/ext"
	"github.com/ZILtoid1991/datapak/format"
	dpkio "github.com/ZILtoid1991/datapak/ioutil"
	"github.com/pkg/errors"
)

// Reader is an opened DataPak archive in read mode. Per §3's lifecycle
// rule, once constructed it is immutable except for the decompression
// cursor state PeekIndex/NextBytes/SeekTo advance.
type Reader struct {
	src    io.ReadSeeker
	closer io.Closer

	header     format.Header
	headerExts []format.HeaderExtension
	indexes    []format.IndexEntry
	indexExts  [][]format.IndexExtension

	opts optionData

	nextIndex int
	dict      codec.DictSource
	dec       codec.Decoder

	// dataRegionStart marks where the data region begins for per-file or
	// uncompressed archives, so SeekTo can combine it with entry.Offset.
	dataRegionStart int64
}

// Open opens the archive at path and constructs a Reader over it.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "reader: open")
	}
	r, err := NewReader(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader constructs a Reader over src, an already-open stream
// supporting seeking (required for SeekTo on random-access archives).
func NewReader(src io.ReadSeeker, opts ...Option) (*Reader, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	r := &Reader{src: src, opts: o}
	if err := r.readHeaderRegion(); err != nil {
		return nil, err
	}
	if err := r.initCodec(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reader) readHeaderRegion() error {
	crc := dpkio.NewCRCReader(r.src)

	sigBuf := make([]byte, format.SignatureSize)
	if _, err := io.ReadFull(crc, sigBuf); err != nil {
		return dpkerr.Wrap(dpkerr.UnexpectedEof, err, "reading signature")
	}
	if r.opts.signatureCheck {
		for i, want := range format.DefaultSignature {
			if sigBuf[i] != want {
				return dpkerr.New(dpkerr.BadSignature, string(sigBuf))
			}
		}
	}

	headerBuf := make([]byte, format.HeaderSize)
	if _, err := io.ReadFull(crc, headerBuf); err != nil {
		return dpkerr.Wrap(dpkerr.UnexpectedEof, err, "reading header")
	}
	if err := r.header.UnmarshalBinary(headerBuf); err != nil {
		return errors.Wrap(err, "reader: unmarshal header")
	}
	if !r.header.CompMethod.Valid() {
		return dpkerr.New(dpkerr.UnknownCompressionExtension, r.header.CompMethod.String())
	}

	if err := r.readHeaderExtensions(crc); err != nil {
		return err
	}
	if err := r.readIndexes(crc); err != nil {
		return err
	}

	trailer := make([]byte, 4)
	if _, err := io.ReadFull(r.src, trailer); err != nil {
		return dpkerr.Wrap(dpkerr.UnexpectedEof, err, "reading CRC trailer")
	}
	want := uint32(trailer[0]) | uint32(trailer[1])<<8 | uint32(trailer[2])<<16 | uint32(trailer[3])<<24
	if want != crc.Sum32() && r.opts.headerChecksumError {
		return dpkerr.New(dpkerr.BadChecksum, "header region CRC32 mismatch")
	}

	if pos, err := r.src.Seek(0, io.SeekCurrent); err == nil {
		r.dataRegionStart = pos
	}
	return nil
}

func (r *Reader) readHeaderExtensions(crc io.Reader) error {
	remaining := int(r.header.ExtFieldSize)
	for remaining > 0 {
		prefix := make([]byte, format.HeaderExtPrefixSize)
		if _, err := io.ReadFull(crc, prefix); err != nil {
			return dpkerr.Wrap(dpkerr.UnexpectedEof, err, "reading header extension prefix")
		}
		sig, size, err := format.UnmarshalHeaderExtPrefix(prefix)
		if err != nil {
			return errors.Wrap(err, "reader: header extension prefix")
		}
		payload := make([]byte, int(size)-format.HeaderExtPrefixSize)
		if len(payload) > 0 {
			if _, err := io.ReadFull(crc, payload); err != nil {
				return dpkerr.Wrap(dpkerr.UnexpectedEof, err, "reading header extension payload")
			}
		}
		he := format.HeaderExtension{Signature: sig, Size: size, Payload: payload}
		r.headerExts = append(r.headerExts, he)
		if sig == format.SigCompressionDict {
			if d, err := ext.UnmarshalCompressionDict(payload); err == nil {
				r.dict = d.Dictionary
			}
		} else if sig == format.SigCompressionDictExt {
			if d, err := ext.UnmarshalCompressionDictRef(payload); err == nil {
				dict, derr := os.ReadFile(d.Path)
				if derr != nil {
					return dpkerr.Wrap(dpkerr.Compression, derr, "loading external dictionary "+d.Path)
				}
				r.dict = dict
			}
		}
		remaining -= int(size)
	}
	return nil
}

func (r *Reader) readIndexes(crc io.Reader) error {
	r.indexes = make([]format.IndexEntry, 0, r.header.NumOfIndexes)
	r.indexExts = make([][]format.IndexExtension, 0, r.header.NumOfIndexes)
	for i := uint32(0); i < r.header.NumOfIndexes; i++ {
		entryBuf := make([]byte, format.IndexEntrySize)
		if _, err := io.ReadFull(crc, entryBuf); err != nil {
			return dpkerr.Wrap(dpkerr.UnexpectedEof, err, "reading index entry")
		}
		var entry format.IndexEntry
		if err := entry.UnmarshalBinary(entryBuf); err != nil {
			return errors.Wrap(err, "reader: unmarshal index entry")
		}

		var exts []format.IndexExtension
		remaining := int(entry.ExtFieldSize)
		for remaining > 0 {
			prefix := make([]byte, format.IndexExtPrefixSize)
			if _, err := io.ReadFull(crc, prefix); err != nil {
				return dpkerr.Wrap(dpkerr.UnexpectedEof, err, "reading index extension prefix")
			}
			sig, size, err := format.UnmarshalIndexExtPrefix(prefix)
			if err != nil {
				return errors.Wrap(err, "reader: index extension prefix")
			}
			payload := make([]byte, int(size)-format.IndexExtPrefixSize)
			if len(payload) > 0 {
				if _, err := io.ReadFull(crc, payload); err != nil {
					return dpkerr.Wrap(dpkerr.UnexpectedEof, err, "reading index extension payload")
				}
			}
			exts = append(exts, format.IndexExtension{Signature: sig, Size: size, Payload: payload})
			remaining -= int(size)
		}

		r.indexes = append(r.indexes, entry)
		r.indexExts = append(r.indexExts, exts)
	}
	return nil
}

func (r *Reader) initCodec() error {
	chunk := dpkio.NewChunkReader(r.src, r.opts.readBufferSize)
	dec, err := codec.NewDecoder(r.header.CompMethod, r.dict, chunk)
	if err != nil {
		return dpkerr.Wrap(dpkerr.Compression, err, "initializing decoder")
	}
	r.dec = dec
	return nil
}

// PeekIndex returns the next unread index entry without advancing the
// cursor.
func (r *Reader) PeekIndex() (format.IndexEntry, bool) {
	if r.nextIndex >= len(r.indexes) {
		return format.IndexEntry{}, false
	}
	return r.indexes[r.nextIndex], true
}

// GetIndex returns the i-th index entry regardless of cursor position.
func (r *Reader) GetIndex(i int) (format.IndexEntry, bool) {
	if i < 0 || i >= len(r.indexes) {
		return format.IndexEntry{}, false
	}
	return r.indexes[i], true
}

// NumEntries reports the total number of files in the archive.
func (r *Reader) NumEntries() int { return len(r.indexes) }

// RandomAccess reports whether SeekTo is usable on this archive (§3
// invariants, §8 property 5).
func (r *Reader) RandomAccess() bool { return r.header.RandomAccess() }

// NextBytes decompresses and returns the next file's full contents,
// advancing the cursor. Per-file checksum mismatches are reported via
// dpkerr.BadChecksum but leave the Reader usable for subsequent entries
// (§7 propagation rules).
func (r *Reader) NextBytes() ([]byte, error) {
	entry, ok := r.PeekIndex()
	if !ok {
		return nil, io.EOF
	}

	if r.header.Flags.PerFileComp && r.nextIndex > 0 {
		if err := r.resetCodecAt(entry.Offset); err != nil {
			return nil, err
		}
	}

	buf, err := r.decompressExact(int(entry.UncompSize))
	if err != nil {
		return nil, err
	}

	r.nextIndex++

	if r.opts.fileChecksumError {
		checksumType := r.header.ChecksumType()
		if n, ok := format.ChecksumLength(checksumType); ok && n > 0 {
			h, cerr := codec.NewChecksum(checksumType)
			if cerr != nil {
				return buf, dpkerr.Wrap(dpkerr.Compression, cerr, "building checksum")
			}
			h.Write(buf)
			if got := h.Sum(nil); !bytesEqual(got, entry.Checksum(n)) {
				return buf, dpkerr.New(dpkerr.BadChecksum, entry.Name())
			}
		}
	}
	return buf, nil
}

// SeekTo repositions the reader at index i's data, for archives that
// support random access (§4.3).
func (r *Reader) SeekTo(i int) (format.IndexEntry, error) {
	if !r.RandomAccess() {
		return format.IndexEntry{}, dpkerr.New(dpkerr.UnsupportedAccessMode, "archive is jointly compressed")
	}
	entry, ok := r.GetIndex(i)
	if !ok {
		return format.IndexEntry{}, dpkerr.New(dpkerr.UnexpectedEof, "index out of range")
	}
	if err := r.resetCodecAt(entry.Offset); err != nil {
		return format.IndexEntry{}, err
	}
	r.nextIndex = i
	return entry, nil
}

func (r *Reader) resetCodecAt(offset uint64) error {
	abs := r.dataRegionStart + int64(offset)
	if _, err := r.src.Seek(abs, io.SeekStart); err != nil {
		return errors.Wrap(err, "reader: seek")
	}
	chunk := dpkio.NewChunkReader(r.src, r.opts.readBufferSize)
	dec, err := codec.NewDecoder(r.header.CompMethod, r.dict, chunk)
	if err != nil {
		return dpkerr.Wrap(dpkerr.Compression, err, "reinitializing decoder")
	}
	if r.dec != nil {
		r.dec.Close()
	}
	r.dec = dec
	return nil
}

// decompressExact repeatedly drains the codec until exactly n bytes have
// been produced (§4.3 "Decompression loop").
func (r *Reader) decompressExact(n int) ([]byte, error) {
	out := make([]byte, n)
	read := 0
	for read < n {
		m, err := r.dec.Read(out[read:])
		read += m
		if err != nil {
			if err == io.EOF && read == n {
				break
			}
			return out[:read], dpkerr.Wrap(dpkerr.UnexpectedEof, err, "decompressing file body")
		}
	}
	return out, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Close releases the decoder and, if the Reader was constructed via
// Open, the underlying file handle.
func (r *Reader) Close() error {
	var err error
	if r.dec != nil {
		err = r.dec.Close()
	}
	if r.closer != nil {
		if cerr := r.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
