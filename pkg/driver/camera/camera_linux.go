package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/blackjack/webcam"
	"github.com/pion/videoframe/internal/logging"
	"github.com/pion/videoframe/pkg/driver"
	"github.com/pion/videoframe/pkg/driver/availability"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/video"
)

const (
	maxEmptyFrameCount = 5
	// Seconds.
	readTimeout = 5
)

var (
	errReadTimeout = errors.New("read timeout")
	errEmptyFrame  = errors.New("empty frame")

	logger = logging.NewLogger("camera")
)

// Camera implementation using v4l2
// Reference: https://linuxtv.org/downloads/v4l-dvb-apis/uapi/v4l/videodev.html#videodev
type camera struct {
	path    string
	cam     *webcam.Webcam
	started bool
	mutex   sync.Mutex
	cancel  func()
}

func init() {
	Initialize()
}

// Initialize finds and registers camera devices. This is part of an
// experimental API.
func Initialize() {
	discovered := make(map[string]struct{})
	discover(discovered, "/dev/v4l/by-path/*")
	discover(discovered, "/dev/video*")
}

func discover(discovered map[string]struct{}, pattern string) {
	devices, err := filepath.Glob(pattern)
	if err != nil {
		// No v4l device.
		return
	}
	for _, device := range devices {
		label := filepath.Base(device)
		reallink, err := os.Readlink(device)
		if err != nil {
			reallink = label
		} else {
			reallink = filepath.Base(reallink)
		}
		if _, ok := discovered[reallink]; ok {
			continue
		}

		discovered[reallink] = struct{}{}
		cam := newCamera(device)
		priority := driver.PriorityNormal
		if reallink == "video0" {
			priority = driver.PriorityHigh
		}
		if _, err := driver.GetManager().Register(cam, driver.Info{
			Label:      label + LabelSeparator + reallink,
			DeviceType: driver.Camera,
			Priority:   priority,
		}); err != nil {
			logger.Warnf("failed to register %s: %v", device, err)
		}
	}
}

func newCamera(path string) *camera {
	return &camera{path: path}
}

func (c *camera) Open() error {
	cam, err := webcam.Open(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", c.path, availability.ErrNoDevice)
		}
		return err
	}

	// Late frames are dropped rather than queued.
	if err := cam.SetBufferCount(2); err != nil {
		logger.Debugf("%s: cannot shrink the buffer queue: %v", c.path, err)
	}
	c.cam = cam
	return nil
}

func (c *camera) Close() error {
	if c.cam == nil {
		return nil
	}

	if c.cancel != nil {
		// Let the reader knows that the caller has closed the camera
		c.cancel()
		// Wait until the reader unref the buffer
		c.mutex.Lock()
		defer c.mutex.Unlock()

		// Note: StopStreaming frees frame buffers, frames copy them out first.
		_ = c.cam.StopStreaming()
		c.cancel = nil
	}
	err := c.cam.Close()
	c.cam = nil
	c.started = false
	return err
}

func (c *camera) VideoRecord(format frame.Format) (video.Reader, error) {
	var code webcam.PixelFormat
	for supported := range c.cam.GetSupportedFormats() {
		if PixelFormatOf(FourCC(supported)) == format.PixelFormat() {
			code = supported
			break
		}
	}
	if code == 0 {
		return nil, fmt.Errorf("%s: %s: %w", c.path, format.PixelFormat(), availability.ErrUnsupportedFormat)
	}

	_, w, h, err := c.cam.SetImageFormat(code, uint32(format.FrameWidth()), uint32(format.FrameHeight()))
	if err != nil {
		return nil, err
	}
	// The driver may adjust the size to the nearest one it supports.
	out := frame.NewFormat(image.Pt(int(w), int(h)), format.PixelFormat())
	out.SetColorSpace(format.ColorSpace())
	out.SetColorRange(format.ColorRange())
	if fps := format.FrameRate(); fps > 0 {
		if err := c.cam.SetFramerate(float32(fps)); err != nil {
			logger.Debugf("%s: cannot set %v fps: %v", c.path, fps, err)
		}
		out.SetFrameRate(fps)
	}

	if err := c.cam.StartStreaming(); err != nil {
		return nil, err
	}
	c.started = true

	cam := c.cam

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	r := video.ReaderFunc(func() (video.Frame, func(), error) {
		// Lock to avoid accessing the buffer after StopStreaming()
		c.mutex.Lock()
		defer c.mutex.Unlock()

		// Wait until a frame is ready
		for i := 0; i < maxEmptyFrameCount; i++ {
			if ctx.Err() != nil {
				// Return EOF if the camera is already closed.
				return video.Frame{}, func() {}, io.EOF
			}

			err := cam.WaitForFrame(readTimeout)
			switch err.(type) {
			case nil:
			case *webcam.Timeout:
				return video.Frame{}, func() {}, errReadTimeout
			default:
				// Camera has been stopped.
				return video.Frame{}, func() {}, err
			}

			b, err := cam.ReadFrame()
			if err != nil {
				// Camera has been stopped.
				return video.Frame{}, func() {}, err
			}

			// Frame is empty.
			// Retry reading and return errEmptyFrame if it exceeds maxEmptyFrameCount.
			if len(b) == 0 {
				continue
			}

			// Move the memory from mmap to Go: the frame may outlive the
			// streaming buffers.
			return newFrame(b, out), func() {}, nil
		}
		return video.Frame{}, func() {}, errEmptyFrame
	})

	return r, nil
}

func (c *camera) Properties() []frame.Format {
	properties := make([]frame.Format, 0)
	for code := range c.cam.GetSupportedFormats() {
		pf := PixelFormatOf(FourCC(code))
		if pf == frame.Invalid {
			logger.Debugf("%s: skipping unsupported format %s", c.path, FourCC(code))
			continue
		}
		for _, frameSize := range c.cam.GetSupportedFrameSizes(code) {
			properties = append(properties, frame.NewFormat(
				image.Pt(int(frameSize.MaxWidth), int(frameSize.MaxHeight)), pf,
			))
		}
	}
	return properties
}
