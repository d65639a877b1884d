package ext

import (
	"encoding/binary"

	"github.com/ZILtoid1991/datapak/format"
	"github.com/pkg/errors"
)

const (
	randAcStateSize   = 16
	randAcPayloadSize = 8 + randAcStateSize
)

// RandomAccessIndex is the decoded RandAc index extension: the entry's
// absolute data-region offset plus codec-dependent auxiliary state
// (supplemented feature: actually populated by the writer, not just a
// layout the reader must tolerate). reader.SeekTo does not consult it; it
// seeks using the index entry's own Offset.
type RandomAccessIndex struct {
	Position uint64
	State    [randAcStateSize]byte
}

// NewRandomAccessIndex builds the RandAc index extension.
func NewRandomAccessIndex(position uint64, state [randAcStateSize]byte) format.IndexExtension {
	payload := make([]byte, randAcPayloadSize)
	binary.LittleEndian.PutUint64(payload[0:8], position)
	copy(payload[8:], state[:])
	return format.NewIndexExtension(format.SigRandAc, payload)
}

// UnmarshalRandomAccessIndex decodes a RandAc payload.
func UnmarshalRandomAccessIndex(payload []byte) (RandomAccessIndex, error) {
	if len(payload) < randAcPayloadSize {
		return RandomAccessIndex{}, errors.Errorf("ext: short RandAc payload, got %d bytes, want %d", len(payload), randAcPayloadSize)
	}
	var out RandomAccessIndex
	out.Position = binary.LittleEndian.Uint64(payload[0:8])
	copy(out.State[:], payload[8:8+randAcStateSize])
	return out, nil
}
