package format

// ChecksumType is the closed u6 checksum algorithm id stored in the header
// bitfield (§3 Checksum catalog).
type ChecksumType uint8

const (
	ChecksumNone             ChecksumType = 0
	ChecksumRIPEMD160        ChecksumType = 1
	ChecksumMurmur3_32       ChecksumType = 2
	ChecksumMurmur3_128_32   ChecksumType = 3
	ChecksumMurmur3_128_64   ChecksumType = 4
	ChecksumSHA224           ChecksumType = 5
	ChecksumSHA256           ChecksumType = 6
	ChecksumSHA384           ChecksumType = 7
	ChecksumSHA512           ChecksumType = 8
	ChecksumSHA512_224       ChecksumType = 9
	ChecksumSHA512_256       ChecksumType = 10
	ChecksumMD5              ChecksumType = 11
	ChecksumCRC32            ChecksumType = 12
	ChecksumCRC64ISO         ChecksumType = 13
	ChecksumCRC64ECMA        ChecksumType = 14
)

// checksumLengths is the CHECKSUM_LENGTH table from §3, indexed by
// ChecksumType. Both reader and writer size the IndexEntry.Field checksum
// tail from this single table instead of duplicating it.
var checksumLengths = map[ChecksumType]int{
	ChecksumNone:           0,
	ChecksumRIPEMD160:      20,
	ChecksumMurmur3_32:     4,
	ChecksumMurmur3_128_32: 16,
	ChecksumMurmur3_128_64: 16,
	ChecksumSHA224:         28,
	ChecksumSHA256:         32,
	ChecksumSHA384:         48,
	ChecksumSHA512:         64,
	ChecksumSHA512_224:     28,
	ChecksumSHA512_256:     32,
	ChecksumMD5:            16,
	ChecksumCRC32:          4,
	ChecksumCRC64ISO:       8,
	ChecksumCRC64ECMA:      8,
}

// ChecksumLength returns the digest length in bytes for a checksum type,
// and false if the id is outside the closed catalog.
func ChecksumLength(t ChecksumType) (int, bool) {
	n, ok := checksumLengths[t]
	return n, ok
}

// IndexFieldSize is the total size of IndexEntry.Field (§3 IndexEntry).
const IndexFieldSize = 100

// MaxFilenameLen bounds filename length so that filename + checksum tail
// never exceeds IndexFieldSize - 1 (the terminator byte), per the
// "Filename length + checksum length <= 99" invariant.
func MaxFilenameLen(t ChecksumType) int {
	n, ok := ChecksumLength(t)
	if !ok {
		n = 0
	}
	return IndexFieldSize - 1 - n
}
