// Package compression provides the two codecs used to shrink tile maps so they
// fit in the ROM banks of an 8-bit target.
//
// Tile maps are mostly made of a handful of tiles repeated over large areas:
// floors, walls, sky. Both codecs take advantage of that, in different ways.
//
// # Run-length encoding
//
// The RLE stream is a sequence of tokens, each starting with a signed count.
// A positive count N is followed by a single tile that is repeated N times. A
// negative count -N is followed by N tiles copied verbatim. For example:
//
//	7 7 7 7 7 1 2 3 3 9 9 9
//	5 7  -4 1 2 3 3  3 9
//
// Counts never exceed 255 in either direction, so a run of 300 identical tiles
// is written as two runs, `255 X 45 X`. A zero count marks the end of the
// stream.
//
// Literal stretches are allowed to swallow a pair of identical tiles (a run of
// two costs as much as two literal tiles) but stop as soon as three in a row
// show up. When a literal has to end in the middle of a repeat, it's shortened
// so the whole repeat goes into the following run token instead.
//
// # Block dictionary
//
// The block codec splits the grid into 2x2 groups of tiles and replaces each
// group with an index into a dictionary of the distinct groups seen so far.
// The dictionary is stored alongside the indices, four tiles per entry.
// Because the indices are written as single bytes, a dictionary with more than
// 255 entries is rejected rather than truncated. In practice a room-sized
// region rarely gets anywhere near that, and the block codec typically shrinks
// a region to a quarter of its size.
package compression
