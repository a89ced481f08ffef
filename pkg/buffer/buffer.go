// Package buffer provides the storage behind video frames: plain memory,
// decoded Go images and GPU textures, all mapped into CPU memory through the
// same Map/Unmap contract.
package buffer

import (
	"github.com/pion/videoframe/internal/logging"
)

var logger = logging.NewLogger("buffer")

// MaxPlanes is the number of plane slots in MapData.
const MaxPlanes = 4

// MapMode is the access requested for mapped memory.
type MapMode int

const (
	NotMapped MapMode = 0
	ReadOnly  MapMode = 1
	WriteOnly MapMode = 2
	ReadWrite MapMode = ReadOnly | WriteOnly
)

// CanRead reports whether mapped memory may be read.
func (m MapMode) CanRead() bool { return m&ReadOnly != 0 }

// CanWrite reports whether mapped memory may be modified.
func (m MapMode) CanWrite() bool { return m&WriteOnly != 0 }

func (m MapMode) String() string {
	switch m {
	case NotMapped:
		return "NotMapped"
	case ReadOnly:
		return "ReadOnly"
	case WriteOnly:
		return "WriteOnly"
	case ReadWrite:
		return "ReadWrite"
	default:
		return "MapMode(invalid)"
	}
}

// MapData describes mapped memory. A failed map has PlaneCount 0.
type MapData struct {
	PlaneCount   int
	Data         [MaxPlanes][]byte
	BytesPerLine [MaxPlanes]int
	Size         [MaxPlanes]int
}

// IsEmpty reports whether the map failed.
func (m *MapData) IsEmpty() bool {
	return m.PlaneCount == 0
}

// HandleType tells which native handle a buffer can expose.
type HandleType int

const (
	NoHandle HandleType = iota
	TextureHandle
)

// Buffer holds the pixels of a frame.
//
// Map returns empty MapData when mode is NotMapped, when the buffer is
// already mapped or when memory cannot be provided. Every successful Map must
// be followed by one Unmap; a stray Unmap is logged and ignored.
type Buffer interface {
	MapMode() MapMode
	Map(mode MapMode) MapData
	Unmap()
	HandleType() HandleType
}

// Releaser is implemented by buffers holding resources beyond Go memory.
type Releaser interface {
	Release()
}

// mapState is the bookkeeping shared by the buffer implementations. Callers
// hold the buffer mutex.
type mapState struct {
	mode MapMode
}

func (s *mapState) begin(kind string, mode MapMode) bool {
	if mode == NotMapped {
		return false
	}
	if s.mode != NotMapped {
		logger.Warnf("%s buffer is already mapped as %s, %s map refused", kind, s.mode, mode)
		return false
	}
	return true
}

func (s *mapState) end(kind string) (MapMode, bool) {
	if s.mode == NotMapped {
		logger.Warnf("unmap called on an unmapped %s buffer", kind)
		return NotMapped, false
	}
	mode := s.mode
	s.mode = NotMapped
	return mode, true
}
