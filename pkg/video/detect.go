package video

import (
	"time"

	"github.com/pion/videoframe/pkg/frame"
)

// DetectChanges calls onChange whenever the layout of the frames changes. The
// frame rate is measured over interval and reported through the format's
// FrameRate.
func DetectChanges(interval time.Duration, onChange func(frame.Format)) TransformFunc {
	return func(r Reader) Reader {
		var current frame.Format
		var lastTaken time.Time
		var frames uint
		return ReaderFunc(func() (Frame, func(), error) {
			var dirty bool

			f, release, err := r.Read()
			if err != nil {
				return Frame{}, func() {}, err
			}

			next := f.Format()
			next.SetFrameRate(current.FrameRate())
			if !next.Equal(current) {
				current = next
				dirty = true
			}

			now := time.Now()
			elapsed := now.Sub(lastTaken)
			if elapsed >= interval {
				current.SetFrameRate(float64(frames) / elapsed.Seconds())
				frames = 0
				lastTaken = now
				dirty = true
			}

			if dirty {
				onChange(current)
			}

			frames++
			return f, release, nil
		})
	}
}
