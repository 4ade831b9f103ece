package lz4

import (
	"encoding/binary"
	"io"
)

// readerState names the per-frame state machine:
//
//	Idle → HaveFrameHeader → (HaveBlockHeader → HaveDecodedBlock → Draining)* → EndOfFrame → Idle | Done
//
// HaveDecodedBlock collapses into the Draining transition in this
// implementation (decoding and resetting the read cursor happen in the same
// step, see decodeInto), and Idle/EndOfFrame both route straight through
// loadFrameHeader, so only three states are represented explicitly.
type readerState int

const (
	stateHaveFrameHeader readerState = iota // frame descriptor parsed, no block loaded yet
	stateDraining                           // decoded buffer has unread bytes at d.decoded[d.off:d.decodedLen]
	stateDone                               // clean end of stream
)

// Reader streams the decoded content of a sequence of LZ4 frames
// (General, Legacy, and transparently-skipped Skippable frames). It
// implements io.Reader and io.Closer.
//
// A Reader is not safe for concurrent use; distinct Readers are
// independent.
type Reader struct {
	src   io.Reader
	verify bool

	state readerState
	err   error // sticky: once set, every Read returns (0, err)

	kind         frameKind
	desc         frameDescriptor
	maxBlockSize int

	// pendingMagic holds 4 bytes already read from src that turned out to
	// be the next frame's magic number instead of a legacy block length
	// (see DESIGN.md's Open Question decision). loadFrameHeader consults
	// this before reading from src.
	pendingMagic []byte

	staging []byte // compressed staging buffer; grows monotonically
	decoded []byte // decoded output buffer, capacity >= maxBlockSize
	off     int
	decodedLen int
}

// Option configures a Reader at construction time.
type Option func(*Reader)

// WithChecksumVerification toggles frame-header checksum verification.
// Enabled by default.
func WithChecksumVerification(verify bool) Option {
	return func(r *Reader) { r.verify = verify }
}

// NewReader constructs a Reader over r, reading the first frame header
// immediately and skipping any leading skippable frames. An empty source
// is not an error: the Reader is simply constructed already at EOF.
func NewReader(src io.Reader, opts ...Option) (*Reader, error) {
	d := &Reader{src: src, verify: true}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.loadFrameHeader(); err != nil {
		return nil, err
	}
	return d, nil
}

// DictionaryID returns the current frame's dictionary id and whether one
// was present, matching the surfacing other_examples/prequel-dev-plz4
// does with its exported HeaderT.DictId field. A Legacy frame never has
// one and always reports (0, false).
func (d *Reader) DictionaryID() (uint32, bool) {
	return d.desc.dictID, d.desc.hasDictID
}

// Close releases the Reader's buffers.
func (d *Reader) Close() error {
	d.staging = nil
	d.decoded = nil
	d.state = stateDone
	return nil
}

// Read implements io.Reader. It returns (0, io.EOF) at a clean end of
// stream.
func (d *Reader) Read(p []byte) (int, error) {
	for {
		if d.err != nil {
			return 0, d.err
		}
		switch {
		case d.state == stateDone:
			return 0, io.EOF

		case d.off < d.decodedLen:
			n := copy(p, d.decoded[d.off:d.decodedLen])
			d.off += n
			if d.off == d.decodedLen {
				d.state = stateHaveFrameHeader
			}
			return n, nil

		default:
			var direct []byte
			if len(p) >= d.maxBlockSize {
				// Fast-path bypass: decode straight into the caller's buffer
				// instead of the internal decoded buffer when it is already
				// large enough.
				direct = p
			}
			n, err := d.loadBlock(direct)
			if err != nil {
				d.err = err
				return 0, err
			}
			if direct != nil && n > 0 {
				return n, nil
			}
			// Either the internal decoded buffer now has bytes to serve
			// (loop back to the case above), or loadBlock advanced past
			// an end-of-frame / skippable chain and state reflects that
			// (including stateDone), or the fast path produced an
			// end-of-frame with nothing to return: loop and re-check.
		}
	}
}

// loadBlock reads one block header and, if it names a real block, decodes
// it. If direct is non-nil and a real block was decoded, the block is
// written straight into direct and its length is returned; otherwise the
// block (if any) lands in d.decoded and 0 is returned, with d.state
// advanced to stateDraining.
//
// A zero-valued General block header, or a Legacy length field matching
// any recognised frame magic number (General, Legacy or Skippable), or
// legacy EOF, all transition through
// endOfFrame instead of decoding anything.
func (d *Reader) loadBlock(direct []byte) (int, error) {
	switch d.kind {
	case frameGeneral:
		var buf [4]byte
		if _, err := io.ReadFull(d.src, buf[:]); err != nil {
			return 0, wrapUnexpectedEOF(err)
		}
		word := blockHeaderWord(binary.LittleEndian.Uint32(buf[:]))
		if word.isEndMark() {
			return 0, d.endOfFrame()
		}
		return d.decodeInto(direct, int(word.size()), word.uncompressed())

	case frameLegacy:
		var buf [4]byte
		n, err := io.ReadFull(d.src, buf[:])
		if err != nil {
			if err == io.EOF && n == 0 {
				// Legacy frames have no explicit end mark; EOF here is the
				// clean terminator.
				return 0, d.endOfFrame()
			}
			return 0, wrapUnexpectedEOF(err)
		}
		val := binary.LittleEndian.Uint32(buf[:])
		if val == magicGeneral || val == magicLegacy || isSkippableMagic(val) {
			// Option (a): the next frame's magic (General, Legacy, or
			// Skippable - e.g. two concatenated Legacy frames) landed in
			// the length field. End this frame without consuming the
			// bytes; they are re-read as a magic number by the next
			// loadFrameHeader.
			d.pendingMagic = append(d.pendingMagic[:0], buf[:]...)
			return 0, d.endOfFrame()
		}
		return d.decodeInto(direct, int(val), false)

	default:
		// Skippable never reaches here: loadFrameHeader consumes it
		// entirely before a frame kind is ever recorded.
		panic("lz4: unreachable frame kind in loadBlock")
	}
}

// decodeInto fills the staging buffer with the block's compressed payload
// and decodes it (or copies it verbatim, if uncompressed) into either
// direct (fast path) or d.decoded (normal path).
func (d *Reader) decodeInto(direct []byte, size int, uncompressed bool) (int, error) {
	d.growStaging(size)
	if _, err := io.ReadFull(d.src, d.staging[:size]); err != nil {
		return 0, &wrappedError{kind: ErrShortRead, cause: err}
	}

	dst := direct
	if dst == nil {
		d.ensureDecodedCapacity(d.maxBlockSize)
		dst = d.decoded
	}

	var n int
	var err error
	if uncompressed {
		if size > len(dst) {
			return 0, ErrOutputOverflow
		}
		n = copy(dst, d.staging[:size])
	} else {
		n, err = decodeBlock(dst, d.staging[:size])
		if err != nil {
			return 0, err
		}
	}

	if direct != nil {
		return n, nil
	}
	d.decodedLen = n
	d.off = 0
	d.state = stateDraining
	return 0, nil
}

// endOfFrame implements the EndOfFrame state: skip the content checksum
// trailer if present, then attempt to load the next frame header.
func (d *Reader) endOfFrame() error {
	if d.kind == frameGeneral && d.desc.contentChecksum {
		var buf [4]byte
		if _, err := io.ReadFull(d.src, buf[:]); err != nil {
			return wrapUnexpectedEOF(err)
		}
	}
	return d.loadFrameHeader()
}

// loadFrameHeader implements Idle → HaveFrameHeader, transparently
// consuming any chain of Skippable frames first. A clean EOF here (no
// bytes read at all) is the terminal Done state, not an error.
func (d *Reader) loadFrameHeader() error {
	for {
		magic, err := d.readMagic()
		if err != nil {
			if err == io.EOF {
				d.state = stateDone
				return nil
			}
			return err
		}

		switch {
		case magic == magicGeneral:
			desc, err := readFrameDescriptor(d.src, d.verify)
			if err != nil {
				return err
			}
			d.kind = frameGeneral
			d.desc = desc
			d.maxBlockSize = desc.maxBlockSize
			d.state = stateHaveFrameHeader
			return nil

		case magic == magicLegacy:
			d.kind = frameLegacy
			d.desc = frameDescriptor{}
			d.maxBlockSize = legacyMaxBlockSize
			d.state = stateHaveFrameHeader
			return nil

		case isSkippableMagic(magic):
			var lenBuf [4]byte
			if _, err := io.ReadFull(d.src, lenBuf[:]); err != nil {
				return wrapUnexpectedEOF(err)
			}
			n := int64(binary.LittleEndian.Uint32(lenBuf[:]))
			if _, err := io.CopyN(io.Discard, d.src, n); err != nil {
				return wrapUnexpectedEOF(err)
			}
			continue

		default:
			return ErrInvalidMagic
		}
	}
}

// readMagic returns the next 4-byte magic number, preferring a pending
// one saved by the Legacy-frame-termination ambiguity (see loadBlock).
func (d *Reader) readMagic() (uint32, error) {
	if d.pendingMagic != nil {
		v := binary.LittleEndian.Uint32(d.pendingMagic)
		d.pendingMagic = nil
		return v, nil
	}
	var buf [4]byte
	n, err := io.ReadFull(d.src, buf[:])
	if err != nil {
		if err == io.EOF && n == 0 {
			return 0, io.EOF
		}
		return 0, wrapUnexpectedEOF(err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (d *Reader) growStaging(n int) {
	if cap(d.staging) < n {
		d.staging = make([]byte, n)
		return
	}
	d.staging = d.staging[:n]
}

func (d *Reader) ensureDecodedCapacity(n int) {
	if cap(d.decoded) < n {
		d.decoded = make([]byte, n)
		return
	}
	d.decoded = d.decoded[:cap(d.decoded)]
}
