package lz4

// match is the basic unit of LZ77 compression, as produced by a matchFinder.
// It is used only by the reference encoder kept for round-trip testing; the
// decoder never constructs one.
type match struct {
	unmatched int // number of unmatched bytes since the previous match
	length    int // number of bytes in the matched string
	distance  int // how far back in the stream to copy from
}

// matchFinder performs the LZ77 stage of compression, looking for matches.
// bestSpeedFinder and hashChainFinder are the two implementations; see
// DESIGN.md.
type matchFinder interface {
	findMatches(dst []match, src []byte) []match
	reset()
}
