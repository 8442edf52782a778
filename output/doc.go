// Package output writes planner artifacts in the forms the rest of a build
// consumes: binary bank images to link into a ROM, and a CSV report comparing
// the size of every mode.
//
// # Bank images
//
// All multi-byte values are little-endian.
//
//	u8   mode
//	u8   number of regions
//	then for each region:
//	  u8   width in tiles
//	  u8   height in tiles
//	  u16  number of dictionary entries
//	  u16  number of stream elements
//	  u8   bytes per stream element (1 or 2)
//	then for each region:
//	  dictionary, four bytes per entry
//	  stream
//
// RLE streams are stored as signed 16-bit words so that literal counts fit.
// Whole-grid block indices are unsigned 16-bit words. Everything else takes a
// byte per element.
package output
