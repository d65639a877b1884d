package ext

import (
	"encoding/binary"

	"github.com/ZILtoid1991/datapak/format"
	"github.com/pkg/errors"
)

// osExtPathSize is the fixed width of the relative-path field (§4.5
// OSExt), 0xFF-padded rather than NUL-padded since a relative path may
// legitimately contain embedded NUL-adjacent byte values on some
// filesystems the index filename field does not need to worry about.
const osExtPathSize = 200

const osExtPayloadSize = osExtPathSize + 8 + 8 + 4 + 4

// OSExt is the decoded OSExt index extension: the archived file's
// relative path (including its filename extension) plus POSIX
// creation/modify timestamps and two free-form attribute banks.
type OSExt struct {
	Path         string
	CreationTime uint64
	ModifyTime   uint64
	AttrBank1    uint32
	AttrBank2    uint32
}

// NewOSExt builds the OSExt index extension.
func NewOSExt(path string, creationTime, modifyTime uint64, attrBank1, attrBank2 uint32) (format.IndexExtension, error) {
	if len(path) > osExtPathSize {
		return format.IndexExtension{}, errors.Errorf("ext: OSExt path %q longer than %d bytes", path, osExtPathSize)
	}
	payload := make([]byte, osExtPayloadSize)
	for i := range payload[:osExtPathSize] {
		payload[i] = 0xFF
	}
	copy(payload[:osExtPathSize], path)
	binary.LittleEndian.PutUint64(payload[osExtPathSize:osExtPathSize+8], creationTime)
	binary.LittleEndian.PutUint64(payload[osExtPathSize+8:osExtPathSize+16], modifyTime)
	binary.LittleEndian.PutUint32(payload[osExtPathSize+16:osExtPathSize+20], attrBank1)
	binary.LittleEndian.PutUint32(payload[osExtPathSize+20:osExtPathSize+24], attrBank2)
	return format.NewIndexExtension(format.SigOSExt, payload), nil
}

// UnmarshalOSExt decodes an OSExt payload.
func UnmarshalOSExt(payload []byte) (OSExt, error) {
	if len(payload) < osExtPayloadSize {
		return OSExt{}, errors.Errorf("ext: short OSExt payload, got %d bytes, want %d", len(payload), osExtPayloadSize)
	}
	end := osExtPathSize
	for end > 0 && payload[end-1] == 0xFF {
		end--
	}
	return OSExt{
		Path:         string(payload[:end]),
		CreationTime: binary.LittleEndian.Uint64(payload[osExtPathSize : osExtPathSize+8]),
		ModifyTime:   binary.LittleEndian.Uint64(payload[osExtPathSize+8 : osExtPathSize+16]),
		AttrBank1:    binary.LittleEndian.Uint32(payload[osExtPathSize+16 : osExtPathSize+20]),
		AttrBank2:    binary.LittleEndian.Uint32(payload[osExtPathSize+20 : osExtPathSize+24]),
	}, nil
}
