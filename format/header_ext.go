package format

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// HeaderExtSignatureSize is the fixed signature width of a HeaderExtension.
const HeaderExtSignatureSize = 8

// HeaderExtPrefixSize is the fixed {signature, size} prefix width.
const HeaderExtPrefixSize = HeaderExtSignatureSize + 4

// Recognized HeaderExtension signatures (§3 HeaderExtension).
var (
	SigCompressionDict      = [HeaderExtSignatureSize]byte{'C', 'M', 'P', 'R', 'D', 'I', 'C', 'T'}
	SigCompressionDictExt   = [HeaderExtSignatureSize]byte{'C', 'M', 'P', 'R', 'D', 'I', 'x', 'f'}
)

// HeaderExtension is a 12-byte-prefixed, variable-length record attached
// to the archive header (§3 HeaderExtension). Size counts the prefix.
type HeaderExtension struct {
	Signature [HeaderExtSignatureSize]byte
	Size      uint32
	Payload   []byte
}

// NewHeaderExtension builds a HeaderExtension from a signature and
// payload, computing Size.
func NewHeaderExtension(sig [HeaderExtSignatureSize]byte, payload []byte) HeaderExtension {
	return HeaderExtension{
		Signature: sig,
		Size:      uint32(HeaderExtPrefixSize + len(payload)),
		Payload:   payload,
	}
}

// MarshalBinary writes the extension's full wire form (prefix + payload).
func (e HeaderExtension) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderExtPrefixSize+len(e.Payload))
	copy(buf[0:HeaderExtSignatureSize], e.Signature[:])
	binary.LittleEndian.PutUint32(buf[HeaderExtSignatureSize:HeaderExtPrefixSize], e.Size)
	copy(buf[HeaderExtPrefixSize:], e.Payload)
	return buf, nil
}

// UnmarshalHeaderExtPrefix reads just the 12-byte prefix; callers then
// read Size-12 more bytes for the payload.
func UnmarshalHeaderExtPrefix(b []byte) (sig [HeaderExtSignatureSize]byte, size uint32, err error) {
	if len(b) < HeaderExtPrefixSize {
		return sig, 0, errors.Errorf("format: short header extension prefix, got %d bytes, want %d", len(b), HeaderExtPrefixSize)
	}
	copy(sig[:], b[0:HeaderExtSignatureSize])
	size = binary.LittleEndian.Uint32(b[HeaderExtSignatureSize:HeaderExtPrefixSize])
	if size < HeaderExtPrefixSize {
		return sig, size, errors.Errorf("format: header extension size %d smaller than prefix", size)
	}
	return sig, size, nil
}
