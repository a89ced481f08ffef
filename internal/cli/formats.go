package cli

import (
	"fmt"
	"image"
	"text/tabwriter"

	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/video"
	"github.com/spf13/cobra"
)

type formatsOptions struct {
	transfer string
}

// NewFormatsCommand lists the pixel format catalog.
func NewFormatsCommand(root *rootOptions) *cobra.Command {
	opts := &formatsOptions{}

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List the supported pixel formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormats(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.transfer, "transfer", "", "Show the shaders used for this transfer function (PQ, HLG)")
	return cmd
}

func runFormats(cmd *cobra.Command, opts *formatsOptions) error {
	transfer, err := parseTransfer(opts.transfer)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPLANES\tBITS\tBYTES/PIXEL\tSHADER")
	for _, pf := range frame.PixelFormats() {
		d := frame.Lookup(pf)
		f := frame.NewFormat(image.Pt(2, 2), pf)
		f.SetColorTransfer(transfer)

		stride := fmt.Sprint(d.StrideFactor)
		switch {
		case pf == frame.Jpeg:
			stride = "compressed"
		case d.IsOpaque():
			stride = "opaque"
		}
		shader := video.ShaderName(f)
		if shader == "" {
			shader = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", pf, d.PlaneCount, d.BitsPerPixel, stride, shader)
	}
	return w.Flush()
}
