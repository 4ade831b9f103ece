package lz4

import (
	"encoding/binary"
	"hash"

	"github.com/pierrec/xxHash/xxHash32"
)

// frameEncoder writes the LZ4 frame format for any of the four max_size
// codes and an optional content checksum. The flags and block-data bytes
// are written by hand in the frameFlags/blockDataByte bit layout; the
// header checksum comes from frameHeaderChecksum, the same routine the
// decoder's header parser verifies with. It exists only to produce compressed fixtures for the
// decoder's round-trip tests; see DESIGN.md.
type frameEncoder struct {
	finder          matchFinder
	maxSizeCode     byte
	contentChecksum bool

	started bool
	hasher  hash.Hash32
	scratch []byte
}

func newFrameEncoder(finder matchFinder, maxSizeCode byte, contentChecksum bool) *frameEncoder {
	return &frameEncoder{finder: finder, maxSizeCode: maxSizeCode, contentChecksum: contentChecksum}
}

func (f *frameEncoder) reset() {
	f.started = false
	f.hasher = nil
	f.finder.reset()
}

// encode appends the encoded form of one block of src to dst. lastBlock
// also appends the end-of-frame mark and, if enabled, the content
// checksum trailer.
func (f *frameEncoder) encode(dst []byte, src []byte, lastBlock bool) []byte {
	if !f.started {
		dst = binary.LittleEndian.AppendUint32(dst, magicGeneral)

		var flags byte = 1 << 6 // version 1
		var blockData byte = f.maxSizeCode << 4
		if f.contentChecksum {
			flags |= 0x04
			f.hasher = xxHash32.New(0)
		}
		hdr := []byte{flags, blockData}
		dst = append(dst, hdr...)
		dst = append(dst, frameHeaderChecksum(hdr))

		f.started = true
	}

	var matches []match
	matches = f.finder.findMatches(matches[:0], src)

	var be blockEncoder
	f.scratch = be.encode(f.scratch[:0], src, matches, true)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(f.scratch)))
	dst = append(dst, f.scratch...)

	if f.contentChecksum {
		f.hasher.Write(src)
	}

	if lastBlock {
		dst = append(dst, 0, 0, 0, 0)
		if f.contentChecksum {
			dst = binary.LittleEndian.AppendUint32(dst, f.hasher.Sum32())
		}
	}

	return dst
}
