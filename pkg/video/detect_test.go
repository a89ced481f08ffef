package video

import (
	"fmt"
	"image"
	"runtime"
	"testing"
	"time"

	"github.com/pion/videoframe/pkg/buffer"
	"github.com/pion/videoframe/pkg/frame"
)

func BenchmarkDetectChanges(b *testing.B) {
	var src Reader
	f := NewFrame(buffer.AllocateMemoryBuffer(1, 1), frame.NewFormat(image.Pt(1920, 1080), frame.NV12))
	src = ReaderFunc(func() (Frame, func(), error) {
		return f, func() {}, nil
	})

	b.Run("WithoutDetectChanges", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			src.Read()
		}
	})

	ns := []int{1, 8, 64, 256}
	for _, n := range ns {
		n := n
		src := src
		b.Run(fmt.Sprintf("WithDetectChanges%d", n), func(b *testing.B) {
			for i := 0; i < n; i++ {
				src = DetectChanges(time.Microsecond, func(frame.Format) {})(src)
			}

			for i := 0; i < b.N; i++ {
				src.Read()
			}
		})
	}
}

func TestDetectChanges(t *testing.T) {
	buildSource := func(format frame.Format) (Reader, func(frame.Format)) {
		return ReaderFunc(func() (Frame, func(), error) {
				return NewFrame(buffer.AllocateMemoryBuffer(1, 1), format), func() {}, nil
			}), func(next frame.Format) {
				format = next
			}
	}

	assertEq := func(t *testing.T, actual, expected frame.Format, output Frame, assertFrameRate bool) {
		if actual.FrameSize() != expected.FrameSize() {
			t.Fatalf("expected size to be %v but got %v", expected.FrameSize(), actual.FrameSize())
		}

		if actual.PixelFormat() != expected.PixelFormat() {
			t.Fatalf("expected pixel format to be %s but got %s", expected.PixelFormat(), actual.PixelFormat())
		}

		if assertFrameRate {
			diff := actual.FrameRate() - expected.FrameRate()
			eps := 1.5
			if diff < -eps || diff > eps {
				t.Fatalf("expected frame rate to be %f (+-%f) but got %f", expected.FrameRate(), eps, actual.FrameRate())
			}
		}

		if output.Size() != expected.FrameSize() {
			t.Fatalf("expected output size to be %v but got %v", expected.FrameSize(), output.Size())
		}
	}

	t.Run("OnChangeCalledBeforeFirstFrame", func(t *testing.T) {
		var detectBeforeFirstFrame bool
		var actual frame.Format
		expected := frame.NewFormat(image.Pt(1920, 1080), frame.NV12)
		src, _ := buildSource(expected)
		src = DetectChanges(time.Second, func(f frame.Format) {
			actual = f
			detectBeforeFirstFrame = true
		})(src)

		f, _, err := src.Read()
		if err != nil {
			t.Fatal(err)
		}

		if !detectBeforeFirstFrame {
			t.Fatal("on change callback should have called before first frame")
		}

		assertEq(t, actual, expected, f, false)
	})

	t.Run("DetectChangesOnEveryUpdate", func(t *testing.T) {
		var actual frame.Format
		var count int
		expected := frame.NewFormat(image.Pt(1920, 1080), frame.NV12)
		src, update := buildSource(expected)
		src = DetectChanges(time.Hour, func(f frame.Format) {
			actual = f
			count++
		})(src)

		var updates int
		for width := 1920; width < 4000; width += 100 {
			for height := 1080; height < 2000; height += 100 {
				expected.SetFrameSize(image.Pt(width, height))
				update(expected)
				updates++
				f, _, err := src.Read()
				if err != nil {
					t.Fatal(err)
				}

				assertEq(t, actual, expected, f, false)
			}
		}

		expected.SetPixelFormat(frame.YUYV)
		update(expected)
		updates++
		f, _, err := src.Read()
		if err != nil {
			t.Fatal(err)
		}
		assertEq(t, actual, expected, f, false)

		if count != updates {
			t.Fatalf("expected %d calls, got %d", updates, count)
		}
		if _, _, err := src.Read(); err != nil {
			t.Fatal(err)
		}
		if count != updates {
			t.Fatal("on change callback should not be called for an unchanged format")
		}
	})

	t.Run("FrameRateAccuracy", func(t *testing.T) {
		if runtime.GOOS == "darwin" {
			t.Skip("Skipping because Darwin CI is not reliable for timing related tests.")
		}

		var actual frame.Format
		var count int
		expected := frame.NewFormat(image.Pt(1920, 1080), frame.NV12)
		expected.SetFrameRate(30)
		src, _ := buildSource(expected)
		src = Throttle(float32(expected.FrameRate()))(src)
		src = DetectChanges(time.Second*5, func(f frame.Format) {
			actual = f
			count++
		})(src)

		for count < 3 {
			f, _, err := src.Read()
			if err != nil {
				t.Fatal(err)
			}

			assertEq(t, actual, expected, f, actual.FrameRate() != 0)
		}
	})
}
