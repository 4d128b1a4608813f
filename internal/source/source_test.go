package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
)

func TestStatic_Counters(t *testing.T) {
	ctx := context.Background()
	s := NewStatic(model.Interface{Name: "eth0", RxBytes: 10, TxBytes: 20})

	c, err := s.Counters(ctx, "eth0")
	require.NoError(t, err)
	assert.Equal(t, model.Counters{RxBytes: 10, TxBytes: 20}, c)

	s.Set("eth0", 30, 40)
	c, err = s.Counters(ctx, "eth0")
	require.NoError(t, err)
	assert.Equal(t, model.Counters{RxBytes: 30, TxBytes: 40}, c)
}

func TestStatic_Vanished(t *testing.T) {
	ctx := context.Background()
	s := NewStatic(model.Interface{Name: "eth0"}, model.Interface{Name: "wlan0"})
	s.Remove("eth0")

	_, err := s.Counters(ctx, "eth0")
	assert.True(t, errors.Is(err, ErrInterfaceVanished))

	ifaces, err := s.Interfaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"wlan0"}, Names(ifaces))
}

func TestStatic_OrderPreserved(t *testing.T) {
	s := NewStatic()
	s.Set("wlan0", 1, 1)
	s.Set("eth1", 1, 1)
	s.Set("eth0", 1, 1)

	ifaces, err := s.Interfaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"wlan0", "eth1", "eth0"}, Names(ifaces))
}

func TestStatic_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStatic().Interfaces(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
