// Package runner wires the platform layer together: config loading,
// device discovery, the hidraw reader, the core Application, and the
// virtual input sink, run concurrently under an errgroup.
package runner

import (
	"context"
	"fmt"

	"github.com/linux-surface/iptsd/internal/core"
	"github.com/linux-surface/iptsd/internal/ipts"
	"github.com/linux-surface/iptsd/internal/platform/configsvc"
	"github.com/linux-surface/iptsd/internal/platform/device"
	"github.com/linux-surface/iptsd/internal/platform/devicebus"
	"github.com/linux-surface/iptsd/internal/platform/sink"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// NewLogger builds the daemon's zap logger: development config with a
// fixed-width time layout and colored level names.
func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000000")
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// Config is the runner's own startup configuration: where to read the
// daemon config from, and an optional device address override when
// autodiscovery should be skipped (useful for a box with more than one
// candidate hidraw node).
type Config struct {
	ConfigPath string
	Device     *device.Address
}

// Runner owns one Application plus the platform handles that feed and
// drain it. It holds them as plain fields rather than embedding any of
// them.
type Runner struct {
	log    *zap.Logger
	cfg    Config
	bus    *devicebus.Bus
	config *configsvc.Service
}

// New builds a Runner. Call Run to start it.
func New(log *zap.Logger, cfg Config) *Runner {
	return &Runner{
		log:    log,
		cfg:    cfg,
		bus:    devicebus.New(),
		config: configsvc.New(log.Named("config")),
	}
}

// Bus exposes the attach/detach notification bus for CLI status output.
func (r *Runner) Bus() *devicebus.Bus {
	return r.bus
}

// Run discovers the IPTS device, opens the virtual input sink, and
// pumps hidraw reports into the core Application until ctx is
// cancelled or the device reader gives up.
func (r *Runner) Run(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return r.config.Start(groupCtx)
	})

	group.Go(func() error {
		select {
		case <-groupCtx.Done():
			return nil
		case <-r.config.Ready():
		}
		return r.runDevice(groupCtx)
	})

	if err := group.Wait(); err != nil {
		return fmt.Errorf("runner failed: %w", err)
	}
	return nil
}

func (r *Runner) runDevice(ctx context.Context) error {
	appCfg, err := configsvc.Register(r.config, r.cfg.ConfigPath, core.DefaultConfig(), func(core.Config, error) {
		// Hot-reloading the screen geometry or rejection-cone tuning
		// mid-stream isn't safe against a live Application; a config
		// change on disk takes effect on the next daemon restart.
		r.log.Info("config file changed, restart iptsd to apply it")
	})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	devInfo, err := r.resolveDevice()
	if err != nil {
		return err
	}

	info := ipts.DeviceInfo{
		VendorID:  devInfo.Address.VendorID,
		ProductID: devInfo.Address.ProductID,
	}

	app, err := core.New(appCfg, info, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	sk, err := sink.Open(ctx, r.log.Named("sink"), info)
	if err != nil {
		return fmt.Errorf("failed to open virtual input devices: %w", err)
	}
	defer sk.Close()

	app.OnContacts = sk.OnContacts
	app.OnStylus = sk.OnStylus

	reader, err := device.Open(r.log.Named("device"), devInfo.Path, device.DefaultBufferSize)
	if err != nil {
		return fmt.Errorf("failed to open device %s: %w", devInfo.Path, err)
	}
	defer reader.Close()

	r.bus.Publish(devicebus.Event{Kind: devicebus.EventAttached, Address: devInfo.Path, Name: "IPTS digitizer"})
	defer r.bus.Publish(devicebus.Event{Kind: devicebus.EventDetached, Address: devInfo.Path, Name: "IPTS digitizer"})

	app.Start()
	defer app.Stop()

	return reader.Run(ctx, app.Process)
}

func (r *Runner) resolveDevice() (device.Info, error) {
	if r.cfg.Device != nil {
		info, ok, err := device.Find(*r.cfg.Device)
		if err != nil {
			return device.Info{}, err
		}
		if !ok {
			return device.Info{}, fmt.Errorf("configured device %s not found", r.cfg.Device)
		}
		return info, nil
	}

	infos, err := device.Discover()
	if err != nil {
		return device.Info{}, err
	}
	if len(infos) == 0 {
		return device.Info{}, fmt.Errorf("no hidraw devices found")
	}
	return infos[0], nil
}
