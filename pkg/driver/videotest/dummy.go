// Package videotest provides a test pattern source: SMPTE style color bars
// over a gray ramp with a noise patch, as YUV420P frames.
package videotest

import (
	"context"
	"image"
	"io"
	"math/rand"
	"time"

	"github.com/pion/videoframe/pkg/buffer"
	"github.com/pion/videoframe/pkg/colorspace"
	"github.com/pion/videoframe/pkg/driver"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/video"
)

const defaultFrameRate = 30

func init() {
	driver.GetManager().Register(
		New(),
		driver.Info{Label: "VideoTest", DeviceType: driver.Generator, Priority: driver.PriorityLow},
	)
}

// Dummy implements driver.Adapter.
type Dummy struct {
	closed <-chan struct{}
	cancel func()
	tick   *time.Ticker
}

// New returns a closed test pattern source.
func New() *Dummy {
	return &Dummy{}
}

func (d *Dummy) Open() error {
	ctx, cancel := context.WithCancel(context.Background())
	d.closed = ctx.Done()
	d.cancel = cancel
	return nil
}

func (d *Dummy) Close() error {
	if d.cancel != nil {
		d.cancel()
	}
	if d.tick != nil {
		d.tick.Stop()
	}
	return nil
}

// VideoRecord produces frames of the format's size at its frame rate, 30 fps
// when unset. Each frame owns its buffer.
func (d *Dummy) VideoRecord(format frame.Format) (video.Reader, error) {
	fps := format.FrameRate()
	if fps <= 0 {
		fps = defaultFrameRate
	}
	out := frame.NewFormat(format.FrameSize(), frame.YUV420P)
	out.SetColorSpace(colorspace.SpaceBT601)
	out.SetColorRange(colorspace.RangeVideo)
	out.SetFrameRate(fps)

	base := Pattern(out.FrameSize())
	w, h := out.FrameWidth(), out.FrameHeight()
	hColorBarEnd := h * 3 / 4
	wGradationEnd := w * 5 / 7
	random := rand.New(rand.NewSource(0))

	tick := time.NewTicker(time.Duration(float64(time.Second) / fps))
	d.tick = tick
	closed := d.closed
	start := time.Now()

	r := video.ReaderFunc(func() (video.Frame, func(), error) {
		select {
		case <-closed:
			return video.Frame{}, func() {}, io.EOF
		default:
		}

		<-tick.C

		data := append([]byte(nil), base...)
		for y := hColorBarEnd; y < h; y++ {
			yi := w * y
			for x := wGradationEnd; x < w; x++ {
				// Noise
				data[yi+x] = uint8(16 + random.Int31n(2)*219)
			}
		}
		f := video.NewFrame(buffer.NewMemoryBuffer(data, w), out)
		f.SetStartTime(time.Since(start).Microseconds())
		f.SetStreamFrameRate(fps)
		return f, func() {}, nil
	})

	return r, nil
}

func (d *Dummy) Properties() []frame.Format {
	format := frame.NewFormat(image.Pt(640, 480), frame.YUV420P)
	format.SetFrameRate(defaultFrameRate)
	return []frame.Format{format}
}

var colors = [][3]byte{
	{235, 128, 128},
	{210, 16, 146},
	{170, 166, 16},
	{145, 54, 34},
	{107, 202, 222},
	{82, 90, 240},
	{41, 240, 110},
}

// Pattern returns a contiguous YUV420P picture of size with a stride equal
// to its width: color bars on the top three quarters, a gray ramp and a black
// area below.
func Pattern(size image.Point) []byte {
	w, h := size.X, size.Y
	cw, ch := (w+1)/2, (h+1)/2
	yy := make([]byte, w*h+2*cw*ch)
	cb := yy[w*h : w*h+cw*ch]
	cr := yy[w*h+cw*ch:]
	for i := range cb {
		cb[i], cr[i] = 128, 128
	}

	hColorBarEnd := h * 3 / 4
	wGradationEnd := w * 5 / 7
	for y := 0; y < h; y++ {
		yi := w * y
		ci := cw * (y / 2)
		for x := 0; x < w; x++ {
			switch {
			case y < hColorBarEnd:
				c := colors[x*7/w]
				yy[yi+x] = uint8(uint16(c[0]) * 75 / 100)
				cb[ci+x/2] = c[1]
				cr[ci+x/2] = c[2]
			case x < wGradationEnd:
				// Gray gradation
				yy[yi+x] = uint8(16 + x*219/wGradationEnd)
			default:
				yy[yi+x] = 16
			}
		}
	}
	return yy
}
