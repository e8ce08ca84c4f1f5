// Command iptsd-calibrate attaches to an IPTS hidraw device as a
// read-only observer and prints running contact size/aspect statistics
// to help pick per-device touch thresholds.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/linux-surface/iptsd/internal/core"
	"github.com/linux-surface/iptsd/internal/ipts"
	"github.com/linux-surface/iptsd/internal/platform/calibrate"
	"github.com/linux-surface/iptsd/internal/platform/device"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	cmd := newCalibrateCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCalibrateCmd() *cobra.Command {
	var width, height float64

	cmd := &cobra.Command{
		Use:   "iptsd-calibrate <hidraw-device>",
		Short: "Observe contact size/aspect statistics from a live device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], width, height)
		},
	}
	cmd.Flags().Float64Var(&width, "width", 1, "screen physical width, in the same units as the contact size report")
	cmd.Flags().Float64Var(&height, "height", 1, "screen physical height")
	return cmd
}

func run(cmd *cobra.Command, path string, width, height float64) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := core.DefaultConfig()
	cfg.Width, cfg.Height = width, height

	app, err := core.New(cfg, ipts.DeviceInfo{}, nil, nil)
	if err != nil {
		return err
	}

	obs := calibrate.New(width, height)
	app.OnContacts = obs.OnContacts

	fmt.Fprintln(cmd.OutOrStdout(), "Samples: 0")
	fmt.Fprintln(cmd.OutOrStdout(), "Size:    0.000 (Min: 0.000; Max: 0.000)")
	fmt.Fprintln(cmd.OutOrStdout(), "Aspect:  0.000 (Min: 0.000; Max: 0.000)")

	reader, err := device.Open(zap.NewNop(), path, device.DefaultBufferSize)
	if err != nil {
		return err
	}
	defer reader.Close()

	err = reader.Run(ctx, func(buf []byte) error {
		if perr := app.Process(buf); perr != nil {
			return perr
		}
		if stats, ok := obs.Stats(); ok {
			printStats(cmd, stats)
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printStats(cmd *cobra.Command, s calibrate.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\033[A\33[2K\033[A\33[2K\033[A\33[2K\r")
	fmt.Fprintf(out, "Samples: %d\n", s.Samples)
	fmt.Fprintf(out, "Size:    %.3f (Min: %.3f; Max: %.3f)\n", s.SizeAvg, s.SizeMin, s.SizeMax)
	fmt.Fprintf(out, "Aspect:  %.3f (Min: %.3f; Max: %.3f)\n", s.AspectAvg, s.AspectMin, s.AspectMax)
}
