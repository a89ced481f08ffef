package cli

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"github.com/pion/videoframe/internal/config"
	"github.com/pion/videoframe/pkg/buffer"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/transform"
	"github.com/pion/videoframe/pkg/video"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type convertOptions struct {
	output     string
	format     string
	size       string
	stride     int
	rotation   int
	mirror     bool
	bottomUp   bool
	colorSpace string
	colorRange string
	transfer   string
	maxNits    float64
	viewport   string
	canvas     string
	stretch    bool
	subtitle   string
}

// NewConvertCommand converts one raw frame file to an image.
func NewConvertCommand(root *rootOptions) *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Convert a raw frame to an image",
		Long: `Convert reads one frame of the given pixel format from INPUT and writes it
as a PNG, JPEG, BMP or TIFF image, chosen by the extension of --output.

Planes are expected back to back with the line length given by --stride,
the way most capture devices hand them out.`,
		Example: `  vframe convert --format NV12 --size 1920x1080 frame.nv12 -o frame.png
  vframe convert --format P010 --size 3840x2160 --transfer PQ --gpu hdr.p010 -o hdr.png
  vframe convert --format YUYV --size 640x480 --rotation 90 --canvas 800x800 cam.yuyv -o cam.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, root, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output image (.png, .jpg, .bmp, .tiff)")
	flags.StringVarP(&opts.format, "format", "f", "", "Pixel format of the input (see vframe formats)")
	flags.StringVarP(&opts.size, "size", "s", "", "Frame size as WIDTHxHEIGHT, optional for JPEG input")
	flags.IntVar(&opts.stride, "stride", 0, "Bytes per line of the first plane (default width times bytes per pixel)")
	flags.IntVar(&opts.rotation, "rotation", 0, "Clockwise rotation in degrees, a multiple of 90")
	flags.BoolVar(&opts.mirror, "mirror", false, "Mirror horizontally after rotating")
	flags.BoolVar(&opts.bottomUp, "bottom-up", false, "Lines are stored bottom to top")
	flags.StringVar(&opts.colorSpace, "color-space", "", "YUV color space (BT.601, BT.709, BT.2020)")
	flags.StringVar(&opts.colorRange, "range", "", "YUV range (video, full)")
	flags.StringVar(&opts.transfer, "transfer", "", "Transfer function (PQ, HLG, ...)")
	flags.Float64Var(&opts.maxNits, "max-nits", 0, "Mastering peak luminance of HDR input")
	flags.StringVar(&opts.viewport, "viewport", "", "Crop to X,Y,WIDTH,HEIGHT before rotating")
	flags.StringVar(&opts.canvas, "canvas", "", "Paint the frame onto a canvas of WIDTHxHEIGHT")
	flags.BoolVar(&opts.stretch, "stretch", false, "Fill the canvas, ignoring the aspect ratio")
	flags.StringVar(&opts.subtitle, "subtitle", "", "Subtitle text painted onto the canvas")

	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("format")

	return cmd
}

func runConvert(cmd *cobra.Command, root *rootOptions, opts *convertOptions, input string) error {
	if _, err := encoderFor(opts.output); err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(err, "failed to read input")
	}

	if opts.colorSpace == "" {
		opts.colorSpace = root.settings.GetString(config.KeyColorSpace)
	}
	if opts.colorRange == "" {
		opts.colorRange = root.settings.GetString(config.KeyColorRange)
	}
	f, err := opts.frame(data)
	if err != nil {
		return err
	}

	conv, convertOpts, release := root.pipeline()
	defer release()

	var img image.Image
	if opts.canvas != "" {
		size, err := parseSize(opts.canvas)
		if err != nil {
			return err
		}
		background, err := parseColor(root.settings.GetString(config.KeyBackground))
		if err != nil {
			return err
		}
		canvas := image.NewRGBA(image.Rectangle{Max: size})
		painted := f.Paint(canvas, canvas.Rect, video.PaintOptions{
			Convert:    &convertOpts,
			Converter:  conv,
			Stretch:    opts.stretch,
			Background: background,
		})
		if !painted {
			return errors.Errorf("failed to paint %s frame", f.PixelFormat())
		}
		img = canvas
	} else {
		rgba, err := conv.Convert(f, convertOpts)
		if err != nil {
			return errors.Wrap(err, "failed to convert frame")
		}
		img = rgba
	}

	if err := writeImage(opts.output, img); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %dx%d -> %s %dx%d\n",
		f.PixelFormat(), f.Width(), f.Height(), opts.output, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// frame wraps data in a frame described by the options.
func (opts *convertOptions) frame(data []byte) (video.Frame, error) {
	pf, err := frame.ParsePixelFormat(opts.format)
	if err != nil {
		return video.Frame{}, err
	}
	d := frame.Lookup(pf)
	if d.IsOpaque() && pf != frame.Jpeg {
		return video.Frame{}, errors.Errorf("%s frames cannot be read from a file", pf)
	}

	var size image.Point
	switch {
	case opts.size != "":
		if size, err = parseSize(opts.size); err != nil {
			return video.Frame{}, err
		}
	case pf == frame.Jpeg:
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return video.Frame{}, errors.Wrap(err, "failed to read JPEG header")
		}
		size = image.Pt(cfg.Width, cfg.Height)
	default:
		return video.Frame{}, errors.New("--size is required for raw input")
	}

	format := frame.NewFormat(size, pf)
	if opts.bottomUp {
		format.SetScanLineDirection(frame.BottomToTop)
	}
	space, err := parseColorSpace(opts.colorSpace)
	if err != nil {
		return video.Frame{}, err
	}
	format.SetColorSpace(space)
	colorRange, err := parseRange(opts.colorRange)
	if err != nil {
		return video.Frame{}, err
	}
	format.SetColorRange(colorRange)
	transfer, err := parseTransfer(opts.transfer)
	if err != nil {
		return video.Frame{}, err
	}
	format.SetColorTransfer(transfer)
	format.SetMaxLuminance(opts.maxNits)
	if opts.viewport != "" {
		viewport, err := parseRect(opts.viewport)
		if err != nil {
			return video.Frame{}, err
		}
		format.SetViewport(viewport)
	}

	stride := opts.stride
	if stride <= 0 {
		stride = size.X * d.StrideFactor
	}
	if pf != frame.Jpeg {
		if need := d.BytesRequired(stride, size.Y); len(data) < need {
			return video.Frame{}, errors.Errorf("input holds %d bytes, a %dx%d %s frame needs %d", len(data), size.X, size.Y, pf, need)
		}
	}

	f := video.NewFrame(buffer.NewMemoryBuffer(data, stride), format)
	f.SetRotation(transform.RotationFromDegrees(opts.rotation))
	f.SetMirrored(opts.mirror)
	f.SetSubtitleText(opts.subtitle)
	return f, nil
}
