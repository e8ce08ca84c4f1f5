// Command iptsd is the IPTS touch digitizer daemon: it discovers the
// hidraw device, runs the signal-processing pipeline over its reports,
// and surfaces the result as a pair of virtual kernel input devices.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/linux-surface/iptsd/internal/platform/devicebus"
	"github.com/linux-surface/iptsd/internal/platform/runner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd builds the iptsd CLI: a persistent --config flag shared by
// every subcommand, with run and devices as leaves.
func NewRootCmd() *cobra.Command {
	cfg := runner.Config{ConfigPath: "/etc/iptsd/iptsd.yaml"}

	root := &cobra.Command{
		Use:   "iptsd",
		Short: "IPTS touch digitizer daemon",
		Long:  `iptsd reads raw Intel Precise Touch & Stylus reports and exposes them as virtual kernel input devices.`,
	}
	root.PersistentFlags().StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "path to the daemon config file")

	root.AddCommand(newRunCmd(&cfg))
	root.AddCommand(newDevicesCmd(&cfg))
	return root
}

func newRunCmd(cfg *runner.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := runner.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			r := runner.New(log, *cfg)
			logDeviceEvents(ctx, log, r.Bus())
			return r.Run(ctx)
		},
	}
}

func logDeviceEvents(ctx context.Context, log *zap.Logger, bus *devicebus.Bus) {
	events, cancel := bus.Subscribe(ctx)
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-events:
				if !ok {
					return
				}
				switch e.Kind {
				case devicebus.EventAttached:
					log.Info("device attached", zap.String("address", e.Address), zap.String("name", e.Name))
				case devicebus.EventDetached:
					log.Info("device detached", zap.String("address", e.Address), zap.String("name", e.Name))
				}
			}
		}
	}()
}
