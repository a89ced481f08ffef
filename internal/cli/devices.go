package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/pion/videoframe/pkg/driver"
	"github.com/spf13/cobra"
)

type devicesOptions struct {
	deviceType string
	properties bool
}

// NewDevicesCommand lists the registered capture sources.
func NewDevicesCommand(root *rootOptions) *cobra.Command {
	opts := &devicesOptions{}

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List the capture sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDevices(cmd, driver.GetManager(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.deviceType, "type", "", "Only list sources of this type (camera, screen, generator)")
	cmd.Flags().BoolVar(&opts.properties, "properties", false, "Open each source and list the formats it produces")
	return cmd
}

func deviceFilter(deviceType string) driver.FilterFn {
	if deviceType == "" {
		return nil
	}
	return driver.FilterDeviceType(driver.DeviceType(deviceType))
}

func runDevices(cmd *cobra.Command, m *driver.Manager, opts *devicesOptions) error {
	drivers := m.Query(deviceFilter(opts.deviceType))
	out := cmd.OutOrStdout()
	if len(drivers) == 0 {
		color.New(color.Faint).Fprintln(out, "No capture sources found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tTYPE\tPRIORITY\tSTATUS")
	for _, d := range drivers {
		info := d.Info()
		status := color.New(color.Faint)
		if d.Status() == driver.StateRunning {
			status = color.New(color.FgGreen)
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%s\n", info.Label, info.DeviceType, info.Priority, status.Sprint(d.Status()))

		if !opts.properties || d.Status() != driver.StateClosed {
			continue
		}
		if err := d.Open(); err != nil {
			fmt.Fprintf(w, "\t%v\t\t\n", err)
			continue
		}
		for _, p := range d.Properties() {
			fmt.Fprintf(w, "\t%s\t\t\n", p)
		}
		if err := d.Close(); err != nil {
			logger.Warnf("failed to close %s: %v", info.Label, err)
		}
	}
	return w.Flush()
}
