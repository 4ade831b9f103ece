package lz4

import "encoding/binary"

// blockEncoder writes the LZ4 block format. It serves as a non-circular
// reference encoder for the decoder's round-trip tests; see DESIGN.md.
type blockEncoder struct{}

func (blockEncoder) reset() {}

func (blockEncoder) encode(dst []byte, src []byte, matches []match, lastBlock bool) []byte {
	// Ensure that the block ends with at least 5 literal bytes,
	// and the last match is at least 12 bytes before the end of the block.
	trailingLiterals := 0
	for len(matches) > 0 && (trailingLiterals < 5 || trailingLiterals+matches[len(matches)-1].length < 12) {
		lastMatch := matches[len(matches)-1]
		matches = matches[:len(matches)-1]
		trailingLiterals += lastMatch.unmatched + lastMatch.length
	}

	pos := 0
	for _, m := range matches {
		token := byte(0)
		if m.unmatched > 14 {
			token |= 0xf0
		} else {
			token |= byte(m.unmatched << 4)
		}
		if m.length > 18 {
			token |= 0x0f
		} else {
			token |= byte(m.length - 4)
		}
		dst = append(dst, token)

		if m.unmatched > 14 {
			dst = appendVarInt(dst, m.unmatched-15)
		}
		dst = append(dst, src[pos:pos+m.unmatched]...)

		dst = binary.LittleEndian.AppendUint16(dst, uint16(m.distance))
		if m.length > 18 {
			dst = appendVarInt(dst, m.length-19)
		}

		pos += m.unmatched + m.length
	}

	// Write the final, literals-only sequence.
	token := byte(0)
	if trailingLiterals > 14 {
		token |= 0xf0
	} else {
		token |= byte(trailingLiterals << 4)
	}
	dst = append(dst, token)
	if trailingLiterals > 14 {
		dst = appendVarInt(dst, trailingLiterals-15)
	}
	dst = append(dst, src[pos:]...)

	return dst
}

// appendVarInt appends n to dst in LZ4's variable-length integer format,
// the encode-side mirror of readVarLen in varint.go.
func appendVarInt(dst []byte, n int) []byte {
	for n >= 255 {
		dst = append(dst, 255)
		n -= 255
	}
	dst = append(dst, byte(n))
	return dst
}
