package lz4

import (
	"bytes"
	"testing"
)

// TestReadVarLen covers the variable-length continuation decoder.
func TestReadVarLen(t *testing.T) {
	cases := []struct {
		name       string
		n          byte
		src        []byte
		wantLen    int
		wantNext   int
		wantErr    error
	}{
		{"short literal", 7, nil, 7, 0, nil},
		{"14, below 15 so no continuation needed", 14, []byte{0, 0}, 14, 0, nil},
		{"S4: 0xF then 0x21 0x04", 15, []byte{0x21, 0x04}, 48, 1, nil},
		{"continuation chain of 0xFF", 15, []byte{0xFF, 0xFF, 2}, 15 + 255 + 255 + 2, 3, nil},
		{"truncated mid-continuation", 15, []byte{0xFF}, 15 + 255, 1, ErrIncompleteData},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			length, next, err := readVarLen(c.n, c.src, 0)
			if err != c.wantErr {
				t.Fatalf("err = %v, want %v", err, c.wantErr)
			}
			if length != c.wantLen {
				t.Errorf("length = %d, want %d", length, c.wantLen)
			}
			if err == nil && next != c.wantNext {
				t.Errorf("next = %d, want %d", next, c.wantNext)
			}
		})
	}
}

// TestDecodeBlockS2 exercises the block decoder alone, no frame involved:
// a 13-byte payload turns into 8 literals followed by a 278-byte offset-2
// match.
func TestDecodeBlockS2(t *testing.T) {
	src := []byte{0x8F, 1, 2, 3, 4, 5, 6, 7, 8, 2, 0, 0xFF, 4}
	dst := make([]byte, 8+278)
	n, err := decodeBlock(dst, src)
	if err != nil {
		t.Fatalf("decodeBlock: %v", err)
	}
	if n != 286 {
		t.Fatalf("n = %d, want 286", n)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	for i := 0; i < 139; i++ {
		want = append(want, 7, 8)
	}
	if !bytes.Equal(dst[:n], want) {
		t.Fatalf("decoded mismatch:\ngot  %v\nwant %v", dst[:n], want)
	}
}

// TestDecodeBlockOverlapS3 covers offset < match_length run-length
// expansion, the defining overlapping-copy case.
func TestDecodeBlockOverlapS3(t *testing.T) {
	// Token: literal_length=4, match_length nibble encodes 10-4=6.
	// Literals 01 02 03 04, then offset=1 (LE), match_length=6+4=10.
	src := []byte{0x46, 1, 2, 3, 4, 1, 0}
	dst := make([]byte, 32)
	n, err := decodeBlock(dst, src)
	if err != nil {
		t.Fatalf("decodeBlock: %v", err)
	}
	want := []byte{1, 2, 3, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4}
	if !bytes.Equal(dst[:n], want) {
		t.Fatalf("decoded mismatch:\ngot  %v\nwant %v", dst[:n], want)
	}
}

func TestDecodeBlockTrailingLiteralsOnly(t *testing.T) {
	// A block may end after literals with no trailing match.
	src := []byte{0x30, 1, 2, 3}
	dst := make([]byte, 8)
	n, err := decodeBlock(dst, src)
	if err != nil {
		t.Fatalf("decodeBlock: %v", err)
	}
	if !bytes.Equal(dst[:n], []byte{1, 2, 3}) {
		t.Fatalf("got %v", dst[:n])
	}
}

func TestDecodeBlockIncompleteLiterals(t *testing.T) {
	// literal_length = 5 but only 2 bytes remain.
	src := []byte{0x50, 1, 2}
	dst := make([]byte, 8)
	n, err := decodeBlock(dst, src)
	if err != ErrIncompleteData {
		t.Fatalf("err = %v, want ErrIncompleteData", err)
	}
	if !bytes.Equal(dst[:n], []byte{1, 2}) {
		t.Fatalf("partial literals = %v, want [1 2]", dst[:n])
	}
}

func TestDecodeBlockNotEnoughDataForOffset(t *testing.T) {
	// literal_length=0, then only 1 byte left for a 2-byte offset.
	src := []byte{0x00, 0x05}
	dst := make([]byte, 8)
	if _, err := decodeBlock(dst, src); err != ErrNotEnoughData {
		t.Fatalf("err = %v, want ErrNotEnoughData", err)
	}
}

func TestDecodeBlockOffsetBeforeStart(t *testing.T) {
	// A match offset that reaches before the start of the output is
	// malformed.
	src := []byte{0x00, 5, 0, 0}
	dst := make([]byte, 8)
	if _, err := decodeBlock(dst, src); err != ErrNotEnoughData {
		t.Fatalf("err = %v, want ErrNotEnoughData", err)
	}
}

func TestDecodeBlockLiteralOverflow(t *testing.T) {
	// literal_length=5 but dst only has room for 4 bytes: must report
	// ErrOutputOverflow rather than panic or silently truncate.
	src := []byte{0x50, 1, 2, 3, 4, 5}
	dst := make([]byte, 4)
	n, err := decodeBlock(dst, src)
	if err != ErrOutputOverflow {
		t.Fatalf("err = %v, want ErrOutputOverflow", err)
	}
	if n != 4 {
		t.Fatalf("n = %d, want 4", n)
	}
}

func TestDecodeBlockMatchOverflow(t *testing.T) {
	// 4 literal bytes fit, but the offset-1 match that follows is encoded
	// to expand far past the remaining capacity of a 10-byte dst.
	src := []byte{0x4F, 1, 2, 3, 4, 1, 0, 250}
	dst := make([]byte, 10)
	n, err := decodeBlock(dst, src)
	if err != ErrOutputOverflow {
		t.Fatalf("err = %v, want ErrOutputOverflow", err)
	}
	if n != len(dst) {
		t.Fatalf("n = %d, want %d", n, len(dst))
	}
}
