package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pion/videoframe/pkg/driver"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/prop"
	"github.com/pion/videoframe/pkg/transform"
	"github.com/pion/videoframe/pkg/video"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type captureOptions struct {
	device     string
	deviceType string
	size       string
	pixelFmt   string
	count      int
	fps        float32
	output     string
	rotation   int
	mirror     bool
}

// NewCaptureCommand records frames from a capture source into images.
func NewCaptureCommand(root *rootOptions) *cobra.Command {
	opts := &captureOptions{}

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture frames from a camera, a screen or the test pattern",
		Example: `  vframe capture --type generator --count 10 -o pattern-%02d.png
  vframe capture --device video0 --size 1280x720 --format YUYV -o cam.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd, root, driver.GetManager(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.device, "device", "d", "", "Label of the source (default is the preferred one)")
	flags.StringVar(&opts.deviceType, "type", "", "Only consider sources of this type (camera, screen, generator)")
	flags.StringVarP(&opts.size, "size", "s", "", "Capture size as WIDTHxHEIGHT")
	flags.StringVarP(&opts.pixelFmt, "format", "f", "", "Capture pixel format")
	flags.IntVarP(&opts.count, "count", "n", 1, "Number of frames to write")
	flags.Float32Var(&opts.fps, "fps", 0, "Limit the capture rate")
	flags.StringVarP(&opts.output, "output", "o", "frame-%03d.png", "Output file, a %d verb is replaced by the frame number")
	flags.IntVar(&opts.rotation, "rotation", 0, "Clockwise rotation in degrees, a multiple of 90")
	flags.BoolVar(&opts.mirror, "mirror", false, "Mirror horizontally after rotating")

	return cmd
}

func (opts *captureOptions) filter() driver.FilterFn {
	var filters []driver.FilterFn
	if f := deviceFilter(opts.deviceType); f != nil {
		filters = append(filters, f)
	}
	if opts.device != "" {
		label := opts.device
		filters = append(filters, func(d driver.Driver) bool {
			return d.Info().Label == label
		})
	}
	if len(filters) == 0 {
		return nil
	}
	return driver.FilterAnd(filters...)
}

// constraints turns the requested size, pixel format and rate into format
// constraints.
func (opts *captureOptions) constraints() (prop.VideoConstraints, error) {
	var c prop.VideoConstraints
	if opts.size != "" {
		size, err := parseSize(opts.size)
		if err != nil {
			return c, err
		}
		c.Width, c.Height = prop.Exact[int]{V: size.X}, prop.Exact[int]{V: size.Y}
	}
	if opts.pixelFmt != "" {
		pf, err := frame.ParsePixelFormat(opts.pixelFmt)
		if err != nil {
			return c, err
		}
		c.PixelFormat = prop.Exact[frame.PixelFormat]{V: pf}
	}
	if opts.fps > 0 {
		c.FrameRate = prop.Ideal[float64]{V: float64(opts.fps)}
	}
	return c, nil
}

// fileName returns the output file of frame i. Without a verb in the output
// pattern, frames after the first get a numbered suffix.
func (opts *captureOptions) fileName(i int) string {
	if strings.Contains(opts.output, "%") {
		return fmt.Sprintf(opts.output, i)
	}
	if opts.count == 1 {
		return opts.output
	}
	ext := filepath.Ext(opts.output)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(opts.output, ext), i, ext)
}

func runCapture(cmd *cobra.Command, root *rootOptions, m *driver.Manager, opts *captureOptions) error {
	if _, err := encoderFor(opts.output); err != nil {
		return err
	}
	drivers := m.Query(opts.filter())
	if len(drivers) == 0 {
		return errors.New("no capture source found")
	}
	d := drivers[0]
	label := d.Info().Label

	if err := d.Open(); err != nil {
		return errors.Wrapf(err, "failed to open %s", label)
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warnf("failed to close %s: %v", label, err)
		}
	}()

	c, err := opts.constraints()
	if err != nil {
		return err
	}
	format, ok := c.Select(d.Properties())
	if !ok {
		return errors.Errorf("%s produces no format matching size %q and pixel format %q", label, opts.size, opts.pixelFmt)
	}
	logger.Infof("capturing %s from %s", format, label)

	r, err := d.VideoRecord(format)
	if err != nil {
		return errors.Wrapf(err, "failed to record from %s", label)
	}

	if opts.fps > 0 {
		r = video.Throttle(opts.fps)(r)
	}
	// One reader feeds the images, a second one watches the stream so format
	// changes are noticed on the raw frames.
	broadcaster := video.NewBroadcaster(r, nil)
	monitor := video.DetectChanges(time.Second, func(f frame.Format) {
		logger.Debugf("%s now produces %s", label, f)
	})(broadcaster.NewReader())

	var transforms []video.TransformFunc
	if opts.rotation != 0 {
		transforms = append(transforms, video.Rotate(transform.RotationFromDegrees(opts.rotation)))
	}
	if opts.mirror {
		transforms = append(transforms, video.Mirror())
	}
	r = video.Merge(transforms...)(broadcaster.NewReader())

	conv, convertOpts, release := root.pipeline()
	defer release()
	images := video.ToImages(r, conv, convertOpts)

	for i := 0; i < opts.count; i++ {
		img, done, err := images.Read()
		if err != nil {
			return errors.Wrapf(err, "failed to read frame %d", i)
		}
		name := opts.fileName(i)
		err = writeImage(name, img)
		done()
		if err != nil {
			return err
		}
		if _, seen, err := monitor.Read(); err != nil {
			logger.Warnf("failed to monitor %s: %v", label, err)
		} else {
			seen()
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
