package video

import (
	"image"

	"github.com/pion/videoframe/pkg/transform"
)

// Reader produces frames. release is called by the consumer once it is done
// with the frame.
type Reader interface {
	Read() (f Frame, release func(), err error)
}

type ReaderFunc func() (f Frame, release func(), err error)

func (rf ReaderFunc) Read() (f Frame, release func(), err error) {
	f, release, err = rf()
	return
}

// TransformFunc produces a new Reader that will produces a transformed video
type TransformFunc func(r Reader) Reader

// Merge merges transforms and produces a new TransformFunc that will execute
// transforms in order
func Merge(transforms ...TransformFunc) TransformFunc {
	return func(r Reader) Reader {
		for _, transform := range transforms {
			if transform == nil {
				continue
			}

			r = transform(r)
		}

		return r
	}
}

// Rotate returns a transform adding rotation to every frame.
func Rotate(rotation transform.Rotation) TransformFunc {
	return func(r Reader) Reader {
		return ReaderFunc(func() (Frame, func(), error) {
			f, release, err := r.Read()
			if err != nil {
				return f, release, err
			}
			f.SetRotation(f.Rotation().Add(rotation))
			return f, release, nil
		})
	}
}

// Mirror returns a transform toggling the horizontal mirroring of every frame.
func Mirror() TransformFunc {
	return func(r Reader) Reader {
		return ReaderFunc(func() (Frame, func(), error) {
			f, release, err := r.Read()
			if err != nil {
				return f, release, err
			}
			f.SetMirrored(!f.IsMirrored())
			return f, release, nil
		})
	}
}

// ImageReader produces converted pictures.
type ImageReader interface {
	Read() (img image.Image, release func(), err error)
}

type ImageReaderFunc func() (img image.Image, release func(), err error)

func (rf ImageReaderFunc) Read() (img image.Image, release func(), err error) {
	img, release, err = rf()
	return
}

// ToImages converts the frames of r with conv. A nil conv uses the CPU
// stages only.
func ToImages(r Reader, conv *Converter, opts ConvertOptions) ImageReader {
	if conv == nil {
		conv = NewConverter(StageCompressed, StageCPU)
	}
	return ImageReaderFunc(func() (image.Image, func(), error) {
		f, release, err := r.Read()
		if err != nil {
			return nil, func() {}, err
		}
		if release == nil {
			release = func() {}
		}
		img, err := conv.Convert(f, opts)
		if err != nil {
			release()
			return nil, func() {}, err
		}
		return img, release, nil
	})
}
