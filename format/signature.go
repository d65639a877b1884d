package format

// SignatureSize is the fixed byte length of the archive signature.
const SignatureSize = 8

// DefaultSignature is the 8-byte magic every DataPak archive begins with.
var DefaultSignature = [SignatureSize]byte{'D', 'a', 't', 'a', 'P', 'a', 'k', '.'}
