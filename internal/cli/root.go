// Package cli implements the vframe command.
package cli

import (
	"github.com/pion/videoframe/internal/config"
	"github.com/pion/videoframe/internal/logging"
	"github.com/pion/videoframe/pkg/gpu"
	"github.com/pion/videoframe/pkg/gpu/soft"
	"github.com/pion/videoframe/pkg/video"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger = logging.NewLogger("cli")

type rootOptions struct {
	configFile string
	settings   *viper.Viper
}

// NewRootCommand builds the vframe command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{settings: config.New()}

	cmd := &cobra.Command{
		Use:   "vframe",
		Short: "Inspect and convert raw video frames",
		Long: `vframe converts raw video frames of any supported pixel format to images
and captures frames from cameras, screens and the built-in test pattern.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default is ./vframe.yaml)")
	flags.Bool("gpu", false, "Enable the GPU stages using the software device")
	flags.StringSlice("stages", nil, "Conversion stages to try, in order (compressed, native, shader, cpu)")
	flags.Float64("target-nits", 0, "Peak luminance of the display for HDR tone mapping")
	flags.Bool("require-cpu", false, "Skip the zero-copy native stage")

	cmd.AddCommand(NewFormatsCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewDevicesCommand(opts))
	cmd.AddCommand(NewCaptureCommand(opts))

	return cmd
}

// Execute runs the vframe command.
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *rootOptions) load(cmd *cobra.Command) error {
	bindings := map[string]string{
		config.KeyGPU:             "gpu",
		config.KeyStages:          "stages",
		config.KeyTargetLuminance: "target-nits",
		config.KeyRequireCPU:      "require-cpu",
	}
	for key, flag := range bindings {
		if err := o.settings.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return errors.Wrapf(err, "failed to bind flag %s", flag)
		}
	}
	return config.Load(o.settings, o.configFile)
}

// pipeline returns the converter and options described by the settings. The
// returned function releases them.
func (o *rootOptions) pipeline() (*video.Converter, video.ConvertOptions, func()) {
	conv := video.NewConverter(o.settings.GetStringSlice(config.KeyStages)...)
	opts := video.ConvertOptions{RequireCPU: o.settings.GetBool(config.KeyRequireCPU)}
	if o.settings.GetBool(config.KeyGPU) {
		ctx := gpu.NewContext(soft.New())
		ctx.TargetLuminance = o.settings.GetFloat64(config.KeyTargetLuminance)
		opts.GPU = ctx
		logger.Debugf("converting with stages %v on device %s", conv.Stages(), ctx.Device.ID())
	}
	return conv, opts, conv.Release
}
