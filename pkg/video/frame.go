// Package video implements the frame value handed between producers and
// consumers: mapping its planes to CPU memory, converting it to RGBA images
// or GPU textures and painting it with subtitles.
package video

import (
	"image"
	"sync"

	"github.com/pion/videoframe/internal/logging"
	"github.com/pion/videoframe/pkg/buffer"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/transform"
)

var logger = logging.NewLogger("video")

// Unset marks a start or end time that has not been set.
const Unset int64 = -1

// frameState is shared by every copy of a frame.
type frameState struct {
	mu     sync.Mutex
	buffer buffer.Buffer
	mapped int
	mode   buffer.MapMode
	planes buffer.MapData
	// generation counts write maps so cached images can detect stale pixels.
	generation uint64
}

func (s *frameState) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// imageCache holds the RGBA rendition of a frame. It is computed at most once
// per pixel generation and shared by copies with identical metadata.
type imageCache struct {
	mu         sync.Mutex
	done       bool
	generation uint64
	img        *image.RGBA
}

func (c *imageCache) load(generation uint64, compute func() *image.RGBA) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done && c.generation == generation {
		return c.img
	}
	img := compute()
	if img == nil {
		return nil
	}
	c.img, c.generation, c.done = img, generation, true
	return img
}

// Frame is a picture together with its timing and orientation. Frames are
// values: copies share the pixel buffer and map state, while metadata set on
// a copy stays with that copy.
//
// The zero Frame is invalid.
type Frame struct {
	format          frame.Format
	startTime       int64
	endTime         int64
	rotation        transform.Rotation
	mirrored        bool
	streamFrameRate float64
	subtitleText    string

	state *frameState
	cache *imageCache
}

// NewFrame wraps buf, whose pixels are laid out as described by f.
func NewFrame(buf buffer.Buffer, f frame.Format) Frame {
	fr := Frame{
		format:    f,
		startTime: Unset,
		endTime:   Unset,
		cache:     &imageCache{},
	}
	if buf != nil {
		fr.state = &frameState{buffer: buf}
	}
	return fr
}

// NewFrameFromFormat allocates a zeroed memory buffer large enough for f
// with the default line alignment. Formats without addressable pixels yield
// an invalid frame.
func NewFrameFromFormat(f frame.Format) Frame {
	d := f.Descriptor()
	size := d.BytesForSize(f.FrameSize())
	if !f.IsValid() || size == 0 {
		return NewFrame(nil, f)
	}
	return NewFrame(buffer.AllocateMemoryBuffer(size, d.StrideForWidth(f.FrameWidth())), f)
}

// NewFrameFromImage wraps img without copying when its layout is one of the
// catalog's.
func NewFrameFromImage(img image.Image) Frame {
	if img == nil || img.Bounds().Empty() {
		return Frame{startTime: Unset, endTime: Unset}
	}
	b := buffer.NewImageBuffer(img)
	return NewFrame(b, b.Format())
}

// IsValid reports whether the frame has a buffer and a valid format.
func (f Frame) IsValid() bool {
	return f.state != nil && f.state.buffer != nil && f.format.IsValid()
}

func (f Frame) Format() frame.Format           { return f.format }
func (f Frame) PixelFormat() frame.PixelFormat { return f.format.PixelFormat() }
func (f Frame) Size() image.Point              { return f.format.FrameSize() }
func (f Frame) Width() int                     { return f.format.FrameWidth() }
func (f Frame) Height() int                    { return f.format.FrameHeight() }

// Buffer returns the buffer holding the pixels, nil for an invalid frame.
func (f Frame) Buffer() buffer.Buffer {
	if f.state == nil {
		return nil
	}
	return f.state.buffer
}

// HandleType reports which native handle the buffer exposes.
func (f Frame) HandleType() buffer.HandleType {
	if b := f.Buffer(); b != nil {
		return b.HandleType()
	}
	return buffer.NoHandle
}

// StartTime is the presentation time in microseconds, Unset if unknown.
func (f Frame) StartTime() int64 { return f.startTime }

func (f *Frame) SetStartTime(us int64) { f.startTime = us }

// EndTime is the time the frame stops being shown in microseconds, Unset if
// unknown.
func (f Frame) EndTime() int64 { return f.endTime }

func (f *Frame) SetEndTime(us int64) { f.endTime = us }

// Rotation is applied on top of the surface rotation of the format.
func (f Frame) Rotation() transform.Rotation { return f.rotation }

func (f *Frame) SetRotation(r transform.Rotation) {
	f.rotation = r
	f.detachCache()
}

// IsMirrored reports whether the frame is mirrored horizontally after its
// rotation.
func (f Frame) IsMirrored() bool { return f.mirrored }

func (f *Frame) SetMirrored(mirrored bool) {
	f.mirrored = mirrored
	f.detachCache()
}

// StreamFrameRate is the nominal rate of the stream the frame belongs to.
func (f Frame) StreamFrameRate() float64 { return f.streamFrameRate }

func (f *Frame) SetStreamFrameRate(fps float64) { f.streamFrameRate = fps }

// SubtitleText is drawn over the frame by Paint.
func (f Frame) SubtitleText() string { return f.subtitleText }

func (f *Frame) SetSubtitleText(text string) {
	f.subtitleText = text
	f.detachCache()
}

// detachCache gives the receiver its own image cache so other copies keep
// theirs.
func (f *Frame) detachCache() {
	f.cache = &imageCache{}
}

// Transformation folds the surface orientation of the format, the frame's
// own rotation and mirroring, and additional into one orientation.
func (f Frame) Transformation(additional transform.Rotation) transform.Transformation {
	return transform.Frame(f.format.Transformation(), f.rotation, f.mirrored, additional)
}
