package lz4

import (
	"encoding/binary"
	"io"

	"github.com/pierrec/xxHash/xxHash32"
)

// frameKind is the tagged frame variant. Skippable never survives past
// header parsing: loadFrameHeader consumes and discards it before a Reader
// ever sees it, so it has no case anywhere else in this package.
type frameKind int

const (
	frameGeneral frameKind = iota
	frameLegacy
)

// frameDescriptor holds a General frame's parsed descriptor.
type frameDescriptor struct {
	independent        bool
	blockChecksum      bool
	contentSize        uint64
	hasContentSize     bool
	contentChecksum    bool
	dictID             uint32
	hasDictID          bool
	maxSizeCode        byte
	maxBlockSize       int
	headerChecksum     byte
}

// readFrameDescriptor parses the portion of a General frame that follows
// the magic number: flags byte, block-data byte, optional content size,
// optional dictionary id, and the header checksum byte.
//
// Grounded on other_examples/weirdgiraffe-lz4__fdesc.go's field layout and
// other_examples/prequel-dev-plz4__read.go's incremental-read-then-checksum
// shape.
func readFrameDescriptor(r io.Reader, verify bool) (frameDescriptor, error) {
	var desc frameDescriptor

	// buf accumulates every byte that feeds the header checksum: flags,
	// block-data, optional content-size, optional dictionary-id.
	var buf [2 + 8 + 4]byte
	n := 2
	if _, err := io.ReadFull(r, buf[:n]); err != nil {
		return desc, wrapUnexpectedEOF(err)
	}

	flags := frameFlags(buf[0])
	if flags.version() != 1 {
		return desc, ErrUnsupportedVersion
	}
	if flags.reservedSet() {
		return desc, ErrReservedBitsNonZero
	}

	bd := blockDataByte(buf[1])
	if bd.reservedSet() {
		return desc, ErrReservedBitsNonZero
	}
	maxSize, ok := blockMaxSize(bd.maxSizeCode())
	if !ok {
		return desc, ErrInvalidBlockSize
	}

	desc.independent = flags.blockIndependent()
	desc.blockChecksum = flags.blockChecksumPresent()
	desc.contentChecksum = flags.contentChecksumPresent()
	desc.hasDictID = flags.dictIDPresent()
	desc.maxSizeCode = bd.maxSizeCode()
	desc.maxBlockSize = maxSize

	if flags.contentSizePresent() {
		if _, err := io.ReadFull(r, buf[n:n+8]); err != nil {
			return desc, wrapUnexpectedEOF(err)
		}
		desc.contentSize = binary.LittleEndian.Uint64(buf[n : n+8])
		desc.hasContentSize = true
		n += 8
	}

	if desc.hasDictID {
		if _, err := io.ReadFull(r, buf[n:n+4]); err != nil {
			return desc, wrapUnexpectedEOF(err)
		}
		desc.dictID = binary.LittleEndian.Uint32(buf[n : n+4])
		n += 4
	}

	var checksumByte [1]byte
	if _, err := io.ReadFull(r, checksumByte[:]); err != nil {
		return desc, wrapUnexpectedEOF(err)
	}
	desc.headerChecksum = checksumByte[0]

	if verify {
		if expected := frameHeaderChecksum(buf[:n]); expected != desc.headerChecksum {
			return desc, ErrBadFrameHeader
		}
	}

	return desc, nil
}

// frameHeaderChecksum computes the checksum byte for the concatenation of
// a frame descriptor's flags byte, block-data byte, and any optional
// fields: the second-lowest byte of XXH32(seed=0) over that run of bytes.
// Shared by readFrameDescriptor's verification and frameEncoder's header
// writer so the two never disagree.
func frameHeaderChecksum(buf []byte) byte {
	h := xxHash32.New(0)
	h.Write(buf)
	return byte(h.Sum32() >> 8)
}

// wrapUnexpectedEOF turns an io.ReadFull EOF/ErrUnexpectedEOF into this
// package's ErrUnexpectedEOF: EOF in the middle of a frame is a genuine
// error, unlike EOF at a frame boundary, which callers handle separately
// before reaching a point that needs this wrapper.
func wrapUnexpectedEOF(err error) error {
	return &wrappedError{kind: ErrUnexpectedEOF, cause: err}
}

type wrappedError struct {
	kind  error
	cause error
}

func (e *wrappedError) Error() string { return e.kind.Error() + ": " + e.cause.Error() }
func (e *wrappedError) Unwrap() error { return e.kind }
