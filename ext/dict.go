package ext

import (
	"bytes"

	"github.com/ZILtoid1991/datapak/format"
)

// CompressionDict is the decoded CMPRDICT header extension: the raw
// dictionary bytes a ZSTD+D archive was built with, carried inline.
type CompressionDict struct {
	Dictionary []byte
}

// NewCompressionDict builds the CMPRDICT header extension wrapping dict
// verbatim.
func NewCompressionDict(dict []byte) format.HeaderExtension {
	return format.NewHeaderExtension(format.SigCompressionDict, dict)
}

// UnmarshalCompressionDict decodes a CMPRDICT payload.
func UnmarshalCompressionDict(payload []byte) (CompressionDict, error) {
	return CompressionDict{Dictionary: payload}, nil
}

// CompressionDictRef is the decoded CMPRDIxf header extension: the path
// to a file holding the dictionary bytes. The reader and writer open the
// path as given, so a relative path resolves against the process working
// directory, not the archive's location.
type CompressionDictRef struct {
	Path string
}

// NewCompressionDictRef builds the CMPRDIxf header extension, NUL-
// terminating path per §3.
func NewCompressionDictRef(path string) format.HeaderExtension {
	payload := append([]byte(path), 0)
	return format.NewHeaderExtension(format.SigCompressionDictExt, payload)
}

// UnmarshalCompressionDictRef decodes a CMPRDIxf payload.
func UnmarshalCompressionDictRef(payload []byte) (CompressionDictRef, error) {
	if i := bytes.IndexByte(payload, 0); i >= 0 {
		payload = payload[:i]
	}
	return CompressionDictRef{Path: string(payload)}, nil
}
