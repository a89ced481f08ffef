package buffer

import (
	"sync"

	"github.com/pion/videoframe/pkg/gpu"
)

type stagingPlane struct {
	data         []byte
	bytesPerLine int
}

// HardwareBuffer holds one GPU texture per plane.
//
// The device is not owned and must outlive the buffer and every texture it
// hands out. Mapping reads the textures back into staging memory owned by the
// buffer, so the mapped bytes stay valid even if the source textures are
// released while mapped.
type HardwareBuffer struct {
	mu       sync.Mutex
	device   gpu.Device
	textures []gpu.Texture
	staging  []stagingPlane
	state    mapState
}

// NewHardwareBuffer wraps textures created on device, in plane order.
func NewHardwareBuffer(device gpu.Device, textures ...gpu.Texture) *HardwareBuffer {
	if len(textures) > MaxPlanes {
		textures = textures[:MaxPlanes]
	}
	return &HardwareBuffer{device: device, textures: textures}
}

// Device returns the device owning the textures.
func (b *HardwareBuffer) Device() gpu.Device { return b.device }

// Textures returns the per-plane textures for zero-copy use.
func (b *HardwareBuffer) Textures() []gpu.Texture { return b.textures }

func (b *HardwareBuffer) HandleType() HandleType { return TextureHandle }

func (b *HardwareBuffer) MapMode() MapMode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.mode
}

// Map copies every texture to CPU memory, blocking until the readback is
// done. The staging memory is allocated on first use and reused by later
// maps until Release.
func (b *HardwareBuffer) Map(mode MapMode) MapData {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.state.begin("hardware", mode) || b.device == nil || len(b.textures) == 0 {
		return MapData{}
	}
	if len(b.staging) != len(b.textures) {
		b.staging = make([]stagingPlane, len(b.textures))
	}

	var m MapData
	for i, tex := range b.textures {
		if mode.CanRead() {
			pix, bpl, err := b.device.ReadTexture(tex)
			if err != nil {
				logger.Debugf("readback of plane %d failed: %v", i, err)
				return MapData{}
			}
			s := &b.staging[i]
			if cap(s.data) < len(pix) {
				s.data = make([]byte, len(pix))
			}
			s.data = s.data[:len(pix)]
			copy(s.data, pix)
			s.bytesPerLine = bpl
		} else if b.staging[i].data == nil {
			size := tex.Size()
			bpl := size.X * tex.Format().BytesPerTexel()
			b.staging[i] = stagingPlane{data: make([]byte, bpl*size.Y), bytesPerLine: bpl}
		}
		m.Data[i] = b.staging[i].data
		m.BytesPerLine[i] = b.staging[i].bytesPerLine
		m.Size[i] = len(b.staging[i].data)
	}
	m.PlaneCount = len(b.textures)
	b.state.mode = mode
	return m
}

// Unmap uploads the staging memory back to the textures if the map allowed
// writing.
func (b *HardwareBuffer) Unmap() {
	b.mu.Lock()
	defer b.mu.Unlock()

	mode, ok := b.state.end("hardware")
	if !ok || !mode.CanWrite() || len(b.staging) != len(b.textures) {
		return
	}
	var batch gpu.UpdateBatch
	for i, tex := range b.textures {
		batch.UploadTexture(tex, b.staging[i].data, b.staging[i].bytesPerLine)
	}
	if err := b.device.Submit(&batch); err != nil {
		logger.Warnf("failed to upload mapped planes: %v", err)
	}
}

// Release frees the staging memory. The textures are left to their owner.
func (b *HardwareBuffer) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.staging = nil
}
