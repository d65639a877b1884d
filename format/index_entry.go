package format

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// IndexEntrySize is the fixed byte length of a serialized IndexEntry.
const IndexEntrySize = 128

// IndexEntry is the fixed 128-byte per-file record (§3 IndexEntry).
type IndexEntry struct {
	Offset       uint64
	UncompSize   uint64
	CompSize     uint64
	ExtFieldSize uint32
	Field        [IndexFieldSize]byte
}

// NewIndexEntry builds an IndexEntry, writing name and checksum into
// Field and validating the "filename + checksum tail fits in 99 bytes"
// invariant from §3.
func NewIndexEntry(offset, uncompSize, compSize uint64, extFieldSize uint32, name string, checksum []byte) (IndexEntry, error) {
	e := IndexEntry{
		Offset:       offset,
		UncompSize:   uncompSize,
		CompSize:     compSize,
		ExtFieldSize: extFieldSize,
	}
	if err := e.SetName(name, len(checksum)); err != nil {
		return IndexEntry{}, err
	}
	copy(e.Field[IndexFieldSize-len(checksum):], checksum)
	return e, nil
}

// SetName writes name into Field starting at offset 0, NUL-terminated,
// verifying it does not collide with a trailing checksum of checksumLen
// bytes (§3: "Filename length + checksum length <= 99").
func (e *IndexEntry) SetName(name string, checksumLen int) error {
	b := []byte(name)
	if len(b)+checksumLen > IndexFieldSize-1 {
		return errors.Errorf("format: filename %q (%d bytes) plus checksum (%d bytes) exceeds %d-byte field", name, len(b), checksumLen, IndexFieldSize-1)
	}
	for i := range e.Field {
		e.Field[i] = 0
	}
	copy(e.Field[:], b)
	e.Field[len(b)] = 0
	return nil
}

// Name returns the NUL- or (legacy) 0xFF-terminated filename stored at
// the start of Field, per §9's terminator note: new archives always write
// 0x00, but a reader accepts either terminator for compatibility with
// older-generation archives.
func (e IndexEntry) Name() string {
	for i, c := range e.Field {
		if c == 0 || c == 0xFF {
			return string(e.Field[:i])
		}
	}
	return string(e.Field[:])
}

// Checksum returns the trailing checksumLen bytes of Field, the per-file
// digest for the archive's checksumType. Digests are stored as the raw
// hash.Hash.Sum(nil) output of their algorithm, an opaque byte string, not
// reinterpreted as a little-endian integer: CRC32("A") is stored here as
// {0xD3, 0xD9, 0x9E, 0x8B}, not byte-reversed.
func (e IndexEntry) Checksum(checksumLen int) []byte {
	if checksumLen <= 0 {
		return nil
	}
	return e.Field[IndexFieldSize-checksumLen:]
}

// MarshalBinary writes the entry's 128-byte wire form.
func (e IndexEntry) MarshalBinary() ([]byte, error) {
	buf := make([]byte, IndexEntrySize)
	binary.LittleEndian.PutUint64(buf[0:8], e.Offset)
	binary.LittleEndian.PutUint64(buf[8:16], e.UncompSize)
	binary.LittleEndian.PutUint64(buf[16:24], e.CompSize)
	binary.LittleEndian.PutUint32(buf[24:28], e.ExtFieldSize)
	copy(buf[28:128], e.Field[:])
	return buf, nil
}

// UnmarshalBinary reads a 128-byte wire form produced by MarshalBinary.
func (e *IndexEntry) UnmarshalBinary(b []byte) error {
	if len(b) < IndexEntrySize {
		return errors.Errorf("format: short index entry, got %d bytes, want %d", len(b), IndexEntrySize)
	}
	e.Offset = binary.LittleEndian.Uint64(b[0:8])
	e.UncompSize = binary.LittleEndian.Uint64(b[8:16])
	e.CompSize = binary.LittleEndian.Uint64(b[16:24])
	e.ExtFieldSize = binary.LittleEndian.Uint32(b[24:28])
	copy(e.Field[:], b[28:128])
	return nil
}
