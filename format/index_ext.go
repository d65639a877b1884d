package format

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// IndexExtSignatureSize is the fixed signature width of an IndexExtension.
const IndexExtSignatureSize = 6

// IndexExtPrefixSize is the fixed {signature, size} prefix width.
const IndexExtPrefixSize = IndexExtSignatureSize + 2

// Recognized IndexExtension signatures (§3 IndexExtension, §4.5).
var (
	SigOSExt  = [IndexExtSignatureSize]byte{'O', 'S', 'E', 'x', 't', ' '}
	SigOSExtP = [IndexExtSignatureSize]byte{'O', 'S', 'E', 'x', 't', 'P'}
	SigRandAc = [IndexExtSignatureSize]byte{'R', 'a', 'n', 'd', 'A', 'c'}
)

// IndexExtension is an 8-byte-prefixed, variable-length record attached
// to an index entry (§3 IndexExtension). Size counts the prefix.
type IndexExtension struct {
	Signature [IndexExtSignatureSize]byte
	Size      uint16
	Payload   []byte
}

// NewIndexExtension builds an IndexExtension, computing Size.
func NewIndexExtension(sig [IndexExtSignatureSize]byte, payload []byte) IndexExtension {
	return IndexExtension{
		Signature: sig,
		Size:      uint16(IndexExtPrefixSize + len(payload)),
		Payload:   payload,
	}
}

// MarshalBinary writes the extension's full wire form (prefix + payload).
func (e IndexExtension) MarshalBinary() ([]byte, error) {
	buf := make([]byte, IndexExtPrefixSize+len(e.Payload))
	copy(buf[0:IndexExtSignatureSize], e.Signature[:])
	binary.LittleEndian.PutUint16(buf[IndexExtSignatureSize:IndexExtPrefixSize], e.Size)
	copy(buf[IndexExtPrefixSize:], e.Payload)
	return buf, nil
}

// UnmarshalIndexExtPrefix reads just the 8-byte prefix; callers then read
// Size-8 more bytes for the payload.
func UnmarshalIndexExtPrefix(b []byte) (sig [IndexExtSignatureSize]byte, size uint16, err error) {
	if len(b) < IndexExtPrefixSize {
		return sig, 0, errors.Errorf("format: short index extension prefix, got %d bytes, want %d", len(b), IndexExtPrefixSize)
	}
	copy(sig[:], b[0:IndexExtSignatureSize])
	size = binary.LittleEndian.Uint16(b[IndexExtSignatureSize:IndexExtPrefixSize])
	if size < IndexExtPrefixSize {
		return sig, size, errors.Errorf("format: index extension size %d smaller than prefix", size)
	}
	return sig, size, nil
}
