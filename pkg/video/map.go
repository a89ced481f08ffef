package video

import (
	"github.com/pion/videoframe/pkg/buffer"
	"github.com/pion/videoframe/pkg/frame"
)

// MapMode returns the mode of the outstanding maps, NotMapped if none.
func (f Frame) MapMode() buffer.MapMode {
	if f.state == nil {
		return buffer.NotMapped
	}
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	return f.state.mode
}

func (f Frame) IsMapped() bool   { return f.MapMode() != buffer.NotMapped }
func (f Frame) IsReadable() bool { return f.MapMode().CanRead() }
func (f Frame) IsWritable() bool { return f.MapMode().CanWrite() }

// Map makes the planes addressable through Bits. Several ReadOnly maps may be
// outstanding at once; any other combination fails. Every successful Map
// must be matched by one Unmap.
//
// When the buffer reports a single plane for a multi-plane format, the other
// planes are located from the measured buffer size.
func (f Frame) Map(mode buffer.MapMode) bool {
	if f.state == nil || mode == buffer.NotMapped {
		return false
	}
	s := f.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mapped > 0 {
		if s.mode == buffer.ReadOnly && mode == buffer.ReadOnly {
			s.mapped++
			return true
		}
		logger.Debugf("frame already mapped as %s, %s map refused", s.mode, mode)
		return false
	}
	if s.buffer == nil || !f.format.IsValid() {
		return false
	}

	m := s.buffer.Map(mode)
	if m.IsEmpty() {
		return false
	}
	planes, ok := derivePlanes(m, f.format)
	if !ok {
		logger.Warnf("%d byte buffer cannot hold a %s frame", m.Size[0], f.format)
		s.buffer.Unmap()
		return false
	}

	s.planes = planes
	s.mode = mode
	s.mapped = 1
	if mode.CanWrite() {
		s.generation++
	}
	return true
}

// Unmap releases one map. The buffer is unmapped with the last one.
func (f Frame) Unmap() {
	if f.state == nil {
		return
	}
	s := f.state
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mapped == 0 {
		logger.Warn("unmap called on a frame that is not mapped")
		return
	}
	s.mapped--
	if s.mapped > 0 {
		return
	}
	s.planes = buffer.MapData{}
	s.mode = buffer.NotMapped
	s.buffer.Unmap()
}

// PlaneCount returns the number of mapped planes, or the plane count of the
// pixel format when the frame is not mapped.
func (f Frame) PlaneCount() int {
	if f.state != nil {
		f.state.mu.Lock()
		defer f.state.mu.Unlock()
		if f.state.mapped > 0 {
			return f.state.planes.PlaneCount
		}
	}
	return f.format.PlaneCount()
}

// Bits returns the bytes of plane while the frame is mapped, nil otherwise.
func (f Frame) Bits(plane int) []byte {
	m, ok := f.mappedPlanes(plane)
	if !ok {
		return nil
	}
	return m.Data[plane]
}

// BytesPerLine returns the line size of a mapped plane, 0 otherwise.
func (f Frame) BytesPerLine(plane int) int {
	m, ok := f.mappedPlanes(plane)
	if !ok {
		return 0
	}
	return m.BytesPerLine[plane]
}

// MappedBytes returns the size of a mapped plane, 0 otherwise.
func (f Frame) MappedBytes(plane int) int {
	m, ok := f.mappedPlanes(plane)
	if !ok {
		return 0
	}
	return m.Size[plane]
}

func (f Frame) mappedPlanes(plane int) (buffer.MapData, bool) {
	if f.state == nil {
		return buffer.MapData{}, false
	}
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	if f.state.mapped == 0 || plane < 0 || plane >= f.state.planes.PlaneCount {
		return buffer.MapData{}, false
	}
	return f.state.planes, true
}

// planes returns the mapped planes in the form decoders take.
func (f Frame) planes() frame.Planes {
	var p frame.Planes
	m, ok := f.mappedPlanes(0)
	if !ok {
		return p
	}
	p.Count = m.PlaneCount
	if p.Count > frame.MaxPlanes {
		p.Count = frame.MaxPlanes
	}
	for i := 0; i < p.Count; i++ {
		p.Data[i] = m.Data[i]
		p.Stride[i] = m.BytesPerLine[i]
	}
	return p
}

// derivePlanes splits a single mapped plane into the planes of f's pixel
// format. Offsets come from the luma footprint and the measured size, so
// padding the catalog cannot predict is absorbed by the last plane.
func derivePlanes(m buffer.MapData, f frame.Format) (buffer.MapData, bool) {
	d := f.Descriptor()
	if m.PlaneCount != 1 || d.PlaneCount <= 1 {
		return m, true
	}

	h := f.FrameHeight()
	stride := m.BytesPerLine[0]
	total := min(m.Size[0], len(m.Data[0]))
	luma := stride * h
	if stride <= 0 || luma > total {
		return buffer.MapData{}, false
	}

	out := buffer.MapData{PlaneCount: d.PlaneCount}
	setPlane(&out, m.Data[0], 0, 0, luma, stride)
	rest := total - luma

	switch f.PixelFormat() {
	case frame.YUV420P, frame.YUV420P10, frame.YV12, frame.YUV422P:
		uvHeight := (h + 1) / 2
		if f.PixelFormat() == frame.YUV422P {
			uvHeight = h
		}
		uvStride := rest / uvHeight / 2
		first := uvStride * uvHeight
		setPlane(&out, m.Data[0], 1, luma, first, uvStride)
		setPlane(&out, m.Data[0], 2, luma+first, rest-first, uvStride)
	case frame.IMC1, frame.IMC3:
		first := stride * ((h + 1) / 2)
		if first > rest {
			first = rest / 2
		}
		setPlane(&out, m.Data[0], 1, luma, first, stride)
		setPlane(&out, m.Data[0], 2, luma+first, rest-first, stride)
	default:
		// Semi-planar formats and the interleaved IMC variants keep the luma
		// stride for their chroma plane.
		setPlane(&out, m.Data[0], 1, luma, rest, stride)
	}
	return out, true
}

func setPlane(m *buffer.MapData, data []byte, plane, offset, size, bytesPerLine int) {
	m.Data[plane] = data[offset : offset+size]
	m.Size[plane] = size
	m.BytesPerLine[plane] = bytesPerLine
}
