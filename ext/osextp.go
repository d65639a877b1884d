package ext

import (
	"bytes"
	"encoding/binary"

	"github.com/ZILtoid1991/datapak/format"
	"github.com/pkg/errors"
)

// Access flag bits for OSExtP.AccessFlags (§4.5).
const (
	OutExec    uint32 = 0x001
	OutWrite   uint32 = 0x002
	OutRead    uint32 = 0x004
	GroupExec  uint32 = 0x008
	GroupWrite uint32 = 0x010
	GroupRead  uint32 = 0x020
	OwnerExec  uint32 = 0x040
	OwnerWrite uint32 = 0x080
	OwnerRead  uint32 = 0x100
)

const (
	osExtPNameSize    = 32
	osExtPPayloadSize = 4 + 4 + osExtPNameSize + osExtPNameSize + 4
)

// OSExtP is the decoded OSExtP index extension: POSIX ownership and mode
// bits for the archived file.
type OSExtP struct {
	UserID      uint32
	GroupID     uint32
	UserName    string
	GroupName   string
	AccessFlags uint32
}

// NewOSExtP builds the OSExtP index extension.
func NewOSExtP(userID, groupID uint32, userName, groupName string, accessFlags uint32) (format.IndexExtension, error) {
	if len(userName) > osExtPNameSize || len(groupName) > osExtPNameSize {
		return format.IndexExtension{}, errors.Errorf("ext: OSExtP user/group name longer than %d bytes", osExtPNameSize)
	}
	payload := make([]byte, osExtPPayloadSize)
	binary.LittleEndian.PutUint32(payload[0:4], userID)
	binary.LittleEndian.PutUint32(payload[4:8], groupID)
	copy(payload[8:8+osExtPNameSize], userName)
	copy(payload[8+osExtPNameSize:8+2*osExtPNameSize], groupName)
	binary.LittleEndian.PutUint32(payload[8+2*osExtPNameSize:], accessFlags)
	return format.NewIndexExtension(format.SigOSExtP, payload), nil
}

// UnmarshalOSExtP decodes an OSExtP payload.
func UnmarshalOSExtP(payload []byte) (OSExtP, error) {
	if len(payload) < osExtPPayloadSize {
		return OSExtP{}, errors.Errorf("ext: short OSExtP payload, got %d bytes, want %d", len(payload), osExtPPayloadSize)
	}
	userName := bytes.TrimRight(payload[8:8+osExtPNameSize], "\x00")
	groupName := bytes.TrimRight(payload[8+osExtPNameSize:8+2*osExtPNameSize], "\x00")
	return OSExtP{
		UserID:      binary.LittleEndian.Uint32(payload[0:4]),
		GroupID:     binary.LittleEndian.Uint32(payload[4:8]),
		UserName:    string(userName),
		GroupName:   string(groupName),
		AccessFlags: binary.LittleEndian.Uint32(payload[8+2*osExtPNameSize:]),
	}, nil
}
