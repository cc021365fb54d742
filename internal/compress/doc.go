// Package compress wraps snapshot payloads in a self-sizing block that is
// either LZ4 or ZSTD compressed, or stored raw when compression does not pay.
//
// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...].
// A CompressedSize of 0 marks a raw block.
package compress
