package codec

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"hash/crc32"
	"hash/crc64"

	"github.com/ZILtoid1991/datapak/dpkerr"
	"github.com/ZILtoid1991/datapak/format"
	"golang.org/x/crypto/ripemd160" //lint:ignore SA1019 catalog entry, not our choice of algorithm
)

var (
	crc64ISOTable  = crc64.MakeTable(crc64.ISO)
	crc64ECMATable = crc64.MakeTable(crc64.ECMA)
)

// ChecksumOption configures NewChecksum (currently just the MurmurHash3
// seed; most catalog entries ignore it).
type ChecksumOption func(*checksumOptions)

type checksumOptions struct {
	seed uint64
}

// WithSeed sets the MurmurHash3 seed. Defaults to 0 (§9 Open Question (c):
// new archives use the default; codec.LegacySeed is opt-in, for reading
// archives produced by older source revisions).
func WithSeed(seed uint64) ChecksumOption {
	return func(o *checksumOptions) { o.seed = seed }
}

// NewChecksum builds the hash.Hash for a closed checksum catalog entry
// (§3 Checksum catalog). The reader and writer never construct a hash
// directly; they always go through here so the catalog has exactly one
// implementation.
func NewChecksum(t format.ChecksumType, opts ...ChecksumOption) (hash.Hash, error) {
	var o checksumOptions
	for _, fn := range opts {
		fn(&o)
	}
	switch t {
	case format.ChecksumNone:
		return nil, nil
	case format.ChecksumRIPEMD160:
		return ripemd160.New(), nil
	case format.ChecksumMurmur3_32:
		return newMurmur32Hash(uint32(o.seed)), nil
	case format.ChecksumMurmur3_128_32:
		return newMurmur128Hash(o.seed, 0), nil
	case format.ChecksumMurmur3_128_64:
		return newMurmur128Hash(o.seed, 0), nil
	case format.ChecksumSHA224:
		return sha256.New224(), nil
	case format.ChecksumSHA256:
		return sha256.New(), nil
	case format.ChecksumSHA384:
		return sha512.New384(), nil
	case format.ChecksumSHA512:
		return sha512.New(), nil
	case format.ChecksumSHA512_224:
		return sha512.New512_224(), nil
	case format.ChecksumSHA512_256:
		return sha512.New512_256(), nil
	case format.ChecksumMD5:
		return md5.New(), nil
	case format.ChecksumCRC32:
		return crc32.NewIEEE(), nil
	case format.ChecksumCRC64ISO:
		return crc64.New(crc64ISOTable), nil
	case format.ChecksumCRC64ECMA:
		return crc64.New(crc64ECMATable), nil
	default:
		return nil, dpkerr.New(dpkerr.Compression, "checksum type not in catalog")
	}
}
