package buffer

import (
	"sync"
	"sync/atomic"
)

// storage is reference counted so clones can share bytes until one of them
// is mapped for writing.
type storage struct {
	data []byte
	refs atomic.Int32
}

func newStorage(data []byte) *storage {
	s := &storage{data: data}
	s.refs.Store(1)
	return s
}

// MemoryBuffer is a single plane of bytes in Go memory.
type MemoryBuffer struct {
	mu           sync.Mutex
	store        *storage
	bytesPerLine int
	state        mapState
}

// NewMemoryBuffer wraps data, which the buffer takes ownership of. Lines are
// bytesPerLine apart.
func NewMemoryBuffer(data []byte, bytesPerLine int) *MemoryBuffer {
	return &MemoryBuffer{store: newStorage(data), bytesPerLine: bytesPerLine}
}

// AllocateMemoryBuffer returns a zeroed buffer of size bytes.
func AllocateMemoryBuffer(size, bytesPerLine int) *MemoryBuffer {
	return NewMemoryBuffer(make([]byte, size), bytesPerLine)
}

// Clone returns a buffer sharing the same bytes. The first write map on
// either buffer copies them.
func (b *MemoryBuffer) Clone() *MemoryBuffer {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store.refs.Add(1)
	return &MemoryBuffer{store: b.store, bytesPerLine: b.bytesPerLine}
}

// Shared reports whether the bytes are shared with a clone.
func (b *MemoryBuffer) Shared() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.refs.Load() > 1
}

// Release drops this buffer's reference to the shared bytes.
func (b *MemoryBuffer) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.store == nil {
		return
	}
	b.store.refs.Add(-1)
	b.store = newStorage(nil)
}

func (b *MemoryBuffer) BytesPerLine() int { return b.bytesPerLine }

func (b *MemoryBuffer) HandleType() HandleType { return NoHandle }

func (b *MemoryBuffer) MapMode() MapMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.mode
}

func (b *MemoryBuffer) Map(mode MapMode) MapData {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.state.begin("memory", mode) || len(b.store.data) == 0 {
		return MapData{}
	}
	if mode.CanWrite() && b.store.refs.Load() > 1 {
		detached := make([]byte, len(b.store.data))
		copy(detached, b.store.data)
		b.store.refs.Add(-1)
		b.store = newStorage(detached)
	}
	b.state.mode = mode

	var m MapData
	m.PlaneCount = 1
	m.Data[0] = b.store.data
	m.BytesPerLine[0] = b.bytesPerLine
	m.Size[0] = len(b.store.data)
	return m
}

func (b *MemoryBuffer) Unmap() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.end("memory")
}
