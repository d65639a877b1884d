package codec

import (
	"hash"

	"github.com/twmb/murmur3"
)

// LegacySeed is the fixed murmur3 seed older source revisions used for
// every Murmur3_32/Murmur3_128 checksum. It is opt-in, passed via WithSeed
// when reading archives produced by those revisions (§9 Open Question (c));
// new archives use the library's default seed of 0.
const LegacySeed = 0x66696c65

func newMurmur32Hash(seed uint32) hash.Hash {
	return murmur3.SeedNew32(seed)
}

// newMurmur128Hash builds the 128-bit murmur3 hash seeded with (seed1,
// seed2). twmb/murmur3 has no separate x86/32-bit 128-bit variant, so
// Murmur3_128_32 and Murmur3_128_64 both resolve to the same x64
// implementation here; the catalog's distinction between them has no
// effect beyond the seed NewChecksum's caller supplies.
func newMurmur128Hash(seed1, seed2 uint64) hash.Hash {
	return murmur3.SeedNew128(seed1, seed2)
}
