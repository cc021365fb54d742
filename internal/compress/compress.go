package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type identifies the compression algorithm. Values are persisted.
type Type uint8

const (
	// None stores payloads raw.
	None Type = 0
	// LZ4 uses LZ4 block compression (fast).
	LZ4 Type = 1
	// ZSTD uses ZSTD compression (better ratio).
	ZSTD Type = 2
)

var (
	// ErrUnknownType is returned for an unrecognised compression type.
	ErrUnknownType = errors.New("unknown compression type")

	// ErrCorrupt is returned when a block header does not match its data.
	ErrCorrupt = errors.New("corrupt compressed block")
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParseType parses "none", "lz4" or "zstd" (case-insensitive). The empty
// string means None.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	return t <= ZSTD
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

const headerSize = 8

// Encode compresses data into a block. If the compressed form is not at least
// 10% smaller the block stores data raw.
func Encode(data []byte, t Type) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("compress: block of %d bytes exceeds 4GiB", len(data))
	}

	var compressed []byte
	switch t {
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n] // n == 0 means incompressible
	case ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		out := make([]byte, headerSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		copy(out[headerSize:], data)
		return out, nil
	}

	out := make([]byte, headerSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[headerSize:], compressed)
	return out, nil
}

// Decode reverses Encode. t must be the type the block was encoded with.
func Decode(block []byte, t Type) ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
	if len(block) < headerSize {
		return nil, fmt.Errorf("%w: block too small for header", ErrCorrupt)
	}

	size := binary.LittleEndian.Uint32(block[0:])
	csize := binary.LittleEndian.Uint32(block[4:])
	body := block[headerSize:]

	if csize == 0 {
		if uint64(len(body)) != uint64(size) {
			return nil, fmt.Errorf("%w: raw block holds %d bytes, header says %d", ErrCorrupt, len(body), size)
		}
		return body, nil
	}
	if uint64(len(body)) != uint64(csize) {
		return nil, fmt.Errorf("%w: compressed block holds %d bytes, header says %d", ErrCorrupt, len(body), csize)
	}

	out := make([]byte, size)
	switch t {
	case LZ4:
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(n) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return out, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		decoded, err := dec.DecodeAll(body, out[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if uint32(len(decoded)) != size {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: block is compressed but type is %s", ErrCorrupt, t)
	}
}
