package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kclust/codec"
	"github.com/hupe1980/kclust/internal/compress"
)

// FormatVersion is the current on-disk format version.
const FormatVersion uint16 = 1

var magic = [4]byte{'K', 'C', 'S', '1'}

var (
	// ErrCorrupt is returned when a blob is truncated, has a bad magic or fails
	// its checksum.
	ErrCorrupt = errors.New("snapshot: corrupt blob")
	// ErrUnsupportedVersion is returned for blobs written by a newer format.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported format version")
	// ErrUnknownCodec is returned when the header names an unregistered codec.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// magic + version + compression + codec-name length
const fixedHeaderSize = 4 + 2 + 1 + 1

type payload struct {
	ID             string          `json:"id"`
	Created        time.Time       `json:"created"`
	K              int             `json:"k"`
	Seed           int64           `json:"seed"`
	Dissimilarity  float64         `json:"dissimilarity"`
	Dimensionality int             `json:"dimensionality"`
	Examples       []Example       `json:"examples"`
	Clusters       []clusterRecord `json:"clusters"`
}

type clusterRecord struct {
	Centroid    []float64 `json:"centroid"`
	Variability float64   `json:"variability"`
	Members     []byte    `json:"members"`
}

// Marshal encodes s into the blob layout using c and the given compression.
func Marshal(s *Snapshot, c codec.Codec, ct compress.Type) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	name := c.Name()
	if len(name) == 0 || len(name) > 255 {
		return nil, fmt.Errorf("snapshot: codec name %q does not fit the header", name)
	}
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: %d", compress.ErrUnknownType, ct)
	}

	p := payload{
		ID:             s.ID,
		Created:        s.Created,
		K:              s.K,
		Seed:           s.Seed,
		Dissimilarity:  s.Dissimilarity,
		Dimensionality: s.Dimensionality,
		Examples:       s.Examples,
		Clusters:       make([]clusterRecord, len(s.Clusters)),
	}
	for i, cl := range s.Clusters {
		if cl.Members == nil {
			return nil, fmt.Errorf("%w: cluster %d has no member bitmap", ErrInvalid, i)
		}
		members, err := cl.Members.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("snapshot: encode members of cluster %d: %w", i, err)
		}
		p.Clusters[i] = clusterRecord{Centroid: cl.Centroid, Variability: cl.Variability, Members: members}
	}

	raw, err := c.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s marshal: %w", name, err)
	}
	body, err := compress.Encode(raw, ct)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, fixedHeaderSize+len(name)+8+len(body))
	out = append(out, magic[:]...)
	out = binary.LittleEndian.AppendUint16(out, FormatVersion)
	out = append(out, byte(ct), byte(len(name)))
	out = append(out, name...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))
	out = binary.LittleEndian.AppendUint32(out, crc32.Checksum(body, castagnoli))
	out = append(out, body...)
	return out, nil
}

// Unmarshal decodes a blob produced by Marshal and validates the result.
func Unmarshal(data []byte) (*Snapshot, error) {
	if len(data) < fixedHeaderSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrCorrupt, len(data))
	}
	if [4]byte(data[:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, data[:4])
	}
	version := binary.LittleEndian.Uint16(data[4:6])
	if version == 0 || version > FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	ct := compress.Type(data[6])
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: compression %d", ErrCorrupt, data[6])
	}

	nameLen := int(data[7])
	off := fixedHeaderSize
	if len(data) < off+nameLen+8 {
		return nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	name := string(data[off : off+nameLen])
	off += nameLen

	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}

	bodyLen := int(binary.LittleEndian.Uint32(data[off:]))
	sum := binary.LittleEndian.Uint32(data[off+4:])
	off += 8
	if len(data)-off != bodyLen {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(data)-off, bodyLen)
	}
	body := data[off:]
	if crc32.Checksum(body, castagnoli) != sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}

	raw, err := compress.Decode(body, ct)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	var p payload
	if err := c.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %s unmarshal: %w", ErrCorrupt, name, err)
	}

	s := &Snapshot{
		ID:             p.ID,
		Created:        p.Created,
		K:              p.K,
		Seed:           p.Seed,
		Dissimilarity:  p.Dissimilarity,
		Dimensionality: p.Dimensionality,
		Examples:       p.Examples,
		Clusters:       make([]Cluster, len(p.Clusters)),
	}
	for i, rec := range p.Clusters {
		bm := roaring.New()
		if err := bm.UnmarshalBinary(rec.Members); err != nil {
			return nil, fmt.Errorf("%w: members of cluster %d: %w", ErrCorrupt, i, err)
		}
		s.Clusters[i] = Cluster{Centroid: rec.Centroid, Variability: rec.Variability, Members: bm}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
