// Package engine checks firmware layouts and composes images from them.
//
// Check walks a layout in listed order with a cursor marking the end of the
// previous region. An entry is accepted when its offset is at or past the
// cursor, its source file exists and fits the reserved size; the cursor then
// moves to offset+size. Entries are never reordered, so the description's
// order is also the order regions are written in.
//
// Compose seeks to each region's offset in the output and streams the source
// file in. Bytes between regions are never written: they read back as zero
// whether the filesystem stores holes or not. The MD5 of the finished image
// is returned.
//
// The engine keeps only its configuration. Concurrent calls are safe as long
// as they target different output files.
package engine
