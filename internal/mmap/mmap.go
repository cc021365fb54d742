package mmap

import (
	"io"
	"math"
	"os"
	"sync/atomic"
)

// File represents a read-only memory-mapped file.
type File struct {
	data   []byte
	unmap  func([]byte) error
	closed atomic.Bool
}

// Open maps the file at path into memory as read-only.
// Empty files yield a File with no data.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() // the mapping outlives the descriptor

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size < 0 || uint64(size) > math.MaxInt {
		return nil, ErrInvalidSize
	}
	if size == 0 {
		return &File{}, nil
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}
	return &File{data: data, unmap: unmap}, nil
}

// Bytes returns the mapped contents. The slice is invalid after Close.
func (m *File) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the mapped length in bytes.
func (m *File) Size() int {
	return len(m.data)
}

// ReadAt implements io.ReaderAt.
func (m *File) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Advise hints the kernel about the expected access pattern.
func (m *File) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	return osAdvise(m.data, pattern)
}

// Close unmaps the memory. It is safe to call more than once.
func (m *File) Close() error {
	if m == nil || !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	data := m.data
	m.data = nil
	if data == nil || m.unmap == nil {
		return nil
	}
	return m.unmap(data)
}
