package configsvc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testConfig struct {
	Width float64 `json:"width"`
}

func TestRegisterReadsInitialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iptsd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 1200\n"), 0644))

	svc := New(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	go func() {
		<-svc.Ready()
		close(started)
	}()
	go svc.Start(ctx)
	<-started

	cfg, err := Register(svc, path, testConfig{Width: 1}, func(testConfig, error) {})
	require.NoError(t, err)
	require.Equal(t, 1200.0, cfg.Width)
}

func TestRegisterNotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iptsd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("width: 1200\n"), 0644))

	svc := New(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	go func() {
		<-svc.Ready()
		close(started)
	}()
	go svc.Start(ctx)
	<-started

	updates := make(chan testConfig, 1)
	_, err := Register(svc, path, testConfig{}, func(cfg testConfig, err error) {
		if err == nil {
			updates <- cfg
		}
	})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("width: 1600\n"), 0644))

	select {
	case cfg := <-updates:
		require.Equal(t, 1600.0, cfg.Width)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload notification")
	}
}
