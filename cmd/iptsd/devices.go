package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/linux-surface/iptsd/internal/platform/device"
	"github.com/linux-surface/iptsd/internal/platform/runner"
	"github.com/spf13/cobra"
)

// newDevicesCmd lists candidate hidraw devices. There's no running
// daemon to query here, so it runs discovery directly.
func newDevicesCmd(cfg *runner.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List candidate hidraw devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := device.Discover()
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no hidraw devices found")
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", info.Address, info.Path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s devices found\n", humanize.Comma(int64(len(infos))))
			return nil
		},
	}
}
