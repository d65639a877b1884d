package format

// Bitfield is the decoded form of the Header's packed 32-bit flag word
// (§3 Header, §9 "Bitfield layout"). Fields are listed MSB->LSB in the
// spec; Pack/Unpack below encode/decode that exact layout inside a
// little-endian uint32 so implementations never rely on in-memory struct
// packing (§4.2).
type Bitfield struct {
	CompIndex     bool         // deprecated, MUST be false on write
	CompExtField  bool         // deprecated, MUST be false on write
	ChecksumType  ChecksumType // 6 bits
	CompLevel     uint8        // 6 bits
	PerFileComp   bool
	FilesizeLimit uint8 // 3 bits
	Reserved      uint16 // 14 bits
}

const (
	bitCompIndex     = 31
	bitCompExtField  = 30
	shiftChecksum    = 24
	maskChecksum     = 0x3F
	shiftCompLevel   = 18
	maskCompLevel    = 0x3F
	bitPerFileComp   = 17
	shiftFilesize    = 14
	maskFilesize     = 0x7
	maskReserved     = 0x3FFF
)

// Pack encodes the bitfield into its 32-bit wire representation.
func (b Bitfield) Pack() uint32 {
	var v uint32
	if b.CompIndex {
		v |= 1 << bitCompIndex
	}
	if b.CompExtField {
		v |= 1 << bitCompExtField
	}
	v |= (uint32(b.ChecksumType) & maskChecksum) << shiftChecksum
	v |= (uint32(b.CompLevel) & maskCompLevel) << shiftCompLevel
	if b.PerFileComp {
		v |= 1 << bitPerFileComp
	}
	v |= (uint32(b.FilesizeLimit) & maskFilesize) << shiftFilesize
	v |= uint32(b.Reserved) & maskReserved
	return v
}

// UnpackBitfield decodes the 32-bit wire representation into a Bitfield.
func UnpackBitfield(v uint32) Bitfield {
	return Bitfield{
		CompIndex:     v&(1<<bitCompIndex) != 0,
		CompExtField:  v&(1<<bitCompExtField) != 0,
		ChecksumType:  ChecksumType((v >> shiftChecksum) & maskChecksum),
		CompLevel:     uint8((v >> shiftCompLevel) & maskCompLevel),
		PerFileComp:   v&(1<<bitPerFileComp) != 0,
		FilesizeLimit: uint8((v >> shiftFilesize) & maskFilesize),
		Reserved:      uint16(v & maskReserved),
	}
}
