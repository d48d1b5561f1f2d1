package parser

import "sort"

// LineIndex maps byte offsets to 1-based line/column positions. It stores
// the starting offset of every line and answers lookups with a binary
// search, so building it once per parse keeps error reporting cheap even
// for large expressions.
type LineIndex struct {
	lineStarts []int
}

// NewLineIndex builds an index over the newline offsets of input.
func NewLineIndex(input string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{lineStarts: starts}
}

// Position converts a byte offset to a 1-based line and column.
// Offsets past the end of input resolve to the final line.
func (ix *LineIndex) Position(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	// First line whose start is beyond the offset; the line containing the
	// offset is the one before it.
	i := sort.Search(len(ix.lineStarts), func(i int) bool {
		return ix.lineStarts[i] > offset
	}) - 1
	return i + 1, offset - ix.lineStarts[i] + 1
}
