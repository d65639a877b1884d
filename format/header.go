package format

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// HeaderSize is the fixed byte length of a serialized Header (§3 Header).
const HeaderSize = 28

// Header is the fixed 28-byte archive header (§3 Header). It is never
// reinterpreted from an in-memory struct image — MarshalBinary/
// UnmarshalBinary write and read each field explicitly in declared order
// and width, per §4.2 and §9 "Packed-record serialization".
type Header struct {
	IndexSize    uint64
	CompMethod   CompMethod
	ExtFieldSize uint32
	NumOfIndexes uint32
	Flags        Bitfield
}

// MarshalBinary writes the header's 28-byte wire form.
func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], h.IndexSize)
	copy(buf[8:16], h.CompMethod[:])
	binary.LittleEndian.PutUint32(buf[16:20], h.ExtFieldSize)
	binary.LittleEndian.PutUint32(buf[20:24], h.NumOfIndexes)
	binary.LittleEndian.PutUint32(buf[24:28], h.Flags.Pack())
	return buf, nil
}

// UnmarshalBinary reads a 28-byte wire form produced by MarshalBinary.
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return errors.Errorf("format: short header, got %d bytes, want %d", len(b), HeaderSize)
	}
	h.IndexSize = binary.LittleEndian.Uint64(b[0:8])
	copy(h.CompMethod[:], b[8:16])
	h.ExtFieldSize = binary.LittleEndian.Uint32(b[16:20])
	h.NumOfIndexes = binary.LittleEndian.Uint32(b[20:24])
	h.Flags = UnpackBitfield(binary.LittleEndian.Uint32(b[24:28]))
	return nil
}

// ChecksumType is a convenience accessor for Flags.ChecksumType.
func (h Header) ChecksumType() ChecksumType { return h.Flags.ChecksumType }

// RandomAccess reports whether the archive described by h supports
// SeekTo: uncompressed archives are always random-access, and so are
// per-file-compressed ones (§3 invariants, §8 property 5).
func (h Header) RandomAccess() bool {
	return h.CompMethod == CompUncompressed || h.Flags.PerFileComp
}
