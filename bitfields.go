package lz4

// Magic numbers, always read little-endian.
const (
	magicGeneral       uint32 = 0x184D2204
	magicLegacy        uint32 = 0x184C2102
	skippableMagicBase uint32 = 0x184D2A50
	skippableMagicMask uint32 = 0xFFFFFFF0
)

func isSkippableMagic(magic uint32) bool {
	return magic&skippableMagicMask == skippableMagicBase
}

// frameFlags is the frame descriptor flags byte:
//
//	[V1 V0 BI BC CS CC R1 DI]  (bit 7 .. bit 0)
//
// V = version, BI = block independent, BC = block checksum present,
// CS = content size present, CC = content checksum present, R1 = reserved
// (must be 0), DI = dictionary id present.
type frameFlags byte

func (f frameFlags) version() byte                { return byte(f) >> 6 }
func (f frameFlags) blockIndependent() bool       { return f&0x20 != 0 }
func (f frameFlags) blockChecksumPresent() bool   { return f&0x10 != 0 }
func (f frameFlags) contentSizePresent() bool     { return f&0x08 != 0 }
func (f frameFlags) contentChecksumPresent() bool { return f&0x04 != 0 }
func (f frameFlags) reservedSet() bool            { return f&0x02 != 0 }
func (f frameFlags) dictIDPresent() bool          { return f&0x01 != 0 }

// blockDataByte is the frame descriptor's block-data byte:
//
//	[R7 S2 S1 S0 R3 R2 R1 R0]
//
// S = max_size enum, R bits reserved (must be 0).
type blockDataByte byte

func (b blockDataByte) reservedSet() bool { return b&0x8F != 0 }
func (b blockDataByte) maxSizeCode() byte { return byte(b>>4) & 0x7 }

// blockMaxSize maps the 3-bit max_size enum to its byte count:
// 4→64KiB, 5→256KiB, 6→1MiB, 7→4MiB.
func blockMaxSize(code byte) (int, bool) {
	switch code {
	case 4:
		return 64 << 10, true
	case 5:
		return 256 << 10, true
	case 6:
		return 1 << 20, true
	case 7:
		return 4 << 20, true
	default:
		return 0, false
	}
}

// legacyMaxBlockSize is the fixed block size ceiling for Legacy frames.
const legacyMaxBlockSize = 8 << 20

// blockHeaderWord is a General frame's 32-bit little-endian block header:
// top bit = uncompressed flag, low 31 bits = size. All zero is the
// end-of-frame mark.
type blockHeaderWord uint32

func (w blockHeaderWord) isEndMark() bool    { return w == 0 }
func (w blockHeaderWord) uncompressed() bool { return w&0x80000000 != 0 }
func (w blockHeaderWord) size() uint32       { return uint32(w) &^ 0x80000000 }
