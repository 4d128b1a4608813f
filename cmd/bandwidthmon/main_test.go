package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/bandwidthmon/internal/config"
	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
	"github.com/Dicklesworthstone/bandwidthmon/internal/resolver"
	"github.com/Dicklesworthstone/bandwidthmon/internal/source"
)

func testSource() *source.Static {
	return source.NewStatic(
		model.Interface{Name: "lo", RxBytes: 10, TxBytes: 10},
		model.Interface{Name: "eth0", RxBytes: 5000, TxBytes: 5000},
		model.Interface{Name: "wlan0", RxBytes: 1, TxBytes: 1},
	)
}

func TestRun_Version(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, exitOK, run([]string{"-version"}, &out, &errOut))
	assert.Contains(t, out.String(), "bandwidthmon ")
}

func TestRun_InvalidConfig(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, exitUsage, run([]string{"-H", "0"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "height")

	errOut.Reset()
	assert.Equal(t, exitUsage, run([]string{"-no-such-flag"}, &out, &errOut))
}

func TestMonitorInterface_List(t *testing.T) {
	cfg := config.Default()
	cfg.List = true
	var out bytes.Buffer
	require.NoError(t, monitorInterface(context.Background(), cfg, testSource(), zap.NewNop(), &out))
	assert.Contains(t, out.String(), "eth0")
	assert.Contains(t, out.String(), "wlan0")
}

func TestMonitorInterface_NotFound(t *testing.T) {
	cfg := config.Default()
	cfg.Interface = "zzz"
	err := monitorInterface(context.Background(), cfg, testSource(), zap.NewNop(), &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, resolver.ErrInterfaceNotFound)
	assert.Contains(t, err.Error(), "lo, eth0, wlan0")
}

func TestMonitorInterface_Static(t *testing.T) {
	cfg := config.Default()
	cfg.Static = true
	cfg.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	require.NoError(t, monitorInterface(ctx, cfg, testSource(), zap.NewNop(), &out))
	assert.Contains(t, out.String(), "Monitoring eth0 ...", "busiest interface is picked")
	assert.Contains(t, out.String(), "Stopped")
	assert.Contains(t, out.String(), "Final Statistics (eth0):", "summary comes from the session")
}

func TestMonitorInterface_GivesUp(t *testing.T) {
	src := testSource()
	cfg := config.Default()
	cfg.Static = true
	cfg.Interface = "wlan0"
	cfg.Interval = 10 * time.Millisecond
	cfg.MaxFailures = 2

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- monitorInterface(ctx, cfg, src, zap.NewNop(), &out) }()
	time.Sleep(30 * time.Millisecond)
	src.Remove("wlan0")

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, source.ErrInterfaceVanished)
		assert.Contains(t, err.Error(), "available: lo, eth0")
	case <-ctx.Done():
		t.Fatal("monitor did not give up")
	}
}
