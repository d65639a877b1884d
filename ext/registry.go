// Package ext implements the closed extension registry (§4.5): typed
// records for the recognized header- and index-extension signatures, with
// MarshalBinary/UnmarshalBinary pairs so writer and reader never hand-roll
// extension payload bytes. Unrecognized signatures round-trip as Unknown.
package ext

import "github.com/ZILtoid1991/datapak/format"

// Unknown preserves an extension whose signature is not in the closed
// registry, so an archive carrying a signature this build does not
// recognize still round-trips byte-for-byte when re-serialized.
type Unknown struct {
	Signature string
	Data      []byte
}

// DecodeHeaderExt dispatches a header-extension payload (the bytes after
// the 12-byte prefix) to its typed record by signature, or wraps it as
// Unknown.
func DecodeHeaderExt(sig [format.HeaderExtSignatureSize]byte, payload []byte) (interface{}, error) {
	switch sig {
	case format.SigCompressionDict:
		return UnmarshalCompressionDict(payload)
	case format.SigCompressionDictExt:
		return UnmarshalCompressionDictRef(payload)
	default:
		return Unknown{Signature: string(sig[:]), Data: payload}, nil
	}
}

// DecodeIndexExt dispatches an index-extension payload (the bytes after
// the 8-byte prefix) to its typed record by signature, or wraps it as
// Unknown.
func DecodeIndexExt(sig [format.IndexExtSignatureSize]byte, payload []byte) (interface{}, error) {
	switch sig {
	case format.SigOSExt:
		return UnmarshalOSExt(payload)
	case format.SigOSExtP:
		return UnmarshalOSExtP(payload)
	case format.SigRandAc:
		return UnmarshalRandomAccessIndex(payload)
	default:
		return Unknown{Signature: string(sig[:]), Data: payload}, nil
	}
}
