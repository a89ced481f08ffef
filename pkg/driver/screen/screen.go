// Package screen captures displays through kbinani/screenshot.
package screen

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/pion/videoframe/pkg/driver"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/video"
)

type screen struct {
	displayIndex int
	doneCh       chan struct{}
	bounds       func(displayIndex int) image.Rectangle
	capture      func(bounds image.Rectangle) (*image.RGBA, error)
}

func init() {
	Initialize()
}

// Initialize finds and registers active displays. This is part of an
// experimental API.
func Initialize() {
	activeDisplays := screenshot.NumActiveDisplays()
	for i := 0; i < activeDisplays; i++ {
		priority := driver.PriorityNormal
		if i == 0 {
			priority = driver.PriorityHigh
		}

		s := newScreen(i)
		driver.GetManager().Register(s, driver.Info{
			Label:      fmt.Sprint(i),
			DeviceType: driver.Screen,
			Priority:   priority,
		})
	}
}

func newScreen(displayIndex int) *screen {
	s := screen{
		displayIndex: displayIndex,
		bounds:       screenshot.GetDisplayBounds,
		capture:      screenshot.CaptureRect,
	}
	return &s
}

func (s *screen) Open() error {
	s.doneCh = make(chan struct{})
	return nil
}

func (s *screen) Close() error {
	close(s.doneCh)
	return nil
}

// VideoRecord captures the whole display. A frame rate on format paces the
// captures; without one frames are captured as fast as they are read.
func (s *screen) VideoRecord(format frame.Format) (video.Reader, error) {
	bounds := s.bounds(s.displayIndex)
	var tick <-chan time.Time
	if fps := format.FrameRate(); fps > 0 {
		ticker := time.NewTicker(time.Duration(float64(time.Second) / fps))
		tick = ticker.C
		done := s.doneCh
		go func() {
			<-done
			ticker.Stop()
		}()
	}

	r := video.ReaderFunc(func() (video.Frame, func(), error) {
		select {
		case <-s.doneCh:
			return video.Frame{}, func() {}, io.EOF
		default:
		}
		if tick != nil {
			select {
			case <-s.doneCh:
				return video.Frame{}, func() {}, io.EOF
			case <-tick:
			}
		}

		img, err := s.capture(bounds)
		if err != nil {
			return video.Frame{}, func() {}, err
		}
		f := video.NewFrameFromImage(img)
		if fps := format.FrameRate(); fps > 0 {
			f.SetStreamFrameRate(fps)
		}
		return f, func() {}, nil
	})
	return r, nil
}

func (s *screen) Properties() []frame.Format {
	resolution := s.bounds(s.displayIndex)
	return []frame.Format{frame.NewFormat(resolution.Size(), frame.RGBA8888Premultiplied)}
}
