// Package source supplies cumulative per-interface byte counters.
package source

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shirou/gopsutil/v3/net"

	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
)

// ErrInterfaceVanished is returned when a previously resolved interface is no
// longer reported by the provider.
var ErrInterfaceVanished = errors.New("interface vanished")

// CounterSource is the capability the sampling core depends on.
type CounterSource interface {
	// Interfaces lists every interface in provider order with its totals.
	Interfaces(ctx context.Context) ([]model.Interface, error)
	// Counters reads the cumulative counters of one interface.
	Counters(ctx context.Context, name string) (model.Counters, error)
}

// Psutil reads counters through gopsutil, which covers the per-OS mechanics
// (/proc/net/dev on Linux, GetIfTable2 on Windows, sysctl on the BSDs).
type Psutil struct{}

func NewPsutil() *Psutil { return &Psutil{} }

func (p *Psutil) Interfaces(ctx context.Context) ([]model.Interface, error) {
	stats, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("read interface counters: %w", err)
	}
	out := make([]model.Interface, 0, len(stats))
	for _, st := range stats {
		out = append(out, model.Interface{Name: st.Name, RxBytes: st.BytesRecv, TxBytes: st.BytesSent})
	}
	return out, nil
}

func (p *Psutil) Counters(ctx context.Context, name string) (model.Counters, error) {
	ifaces, err := p.Interfaces(ctx)
	if err != nil {
		return model.Counters{}, err
	}
	return lookup(ifaces, name)
}

// Names returns the interface names in provider order.
func Names(ifaces []model.Interface) []string {
	names := make([]string, len(ifaces))
	for i, it := range ifaces {
		names[i] = it.Name
	}
	return names
}

func lookup(ifaces []model.Interface, name string) (model.Counters, error) {
	for _, it := range ifaces {
		if it.Name == name {
			return model.Counters{RxBytes: it.RxBytes, TxBytes: it.TxBytes}, nil
		}
	}
	return model.Counters{}, fmt.Errorf("%w: %q", ErrInterfaceVanished, name)
}

// Static is an in-memory CounterSource. Tests and replays drive it with Set and Remove.
type Static struct {
	mu     sync.Mutex
	ifaces []model.Interface
}

func NewStatic(ifaces ...model.Interface) *Static {
	return &Static{ifaces: append([]model.Interface(nil), ifaces...)}
}

// Set updates an interface's counters, appending it if unknown.
func (s *Static) Set(name string, rx, tx uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ifaces {
		if s.ifaces[i].Name == name {
			s.ifaces[i].RxBytes, s.ifaces[i].TxBytes = rx, tx
			return
		}
	}
	s.ifaces = append(s.ifaces, model.Interface{Name: name, RxBytes: rx, TxBytes: tx})
}

// Remove drops an interface, simulating a device going away.
func (s *Static) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ifaces {
		if s.ifaces[i].Name == name {
			s.ifaces = append(s.ifaces[:i], s.ifaces[i+1:]...)
			return
		}
	}
}

func (s *Static) Interfaces(ctx context.Context) ([]model.Interface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Interface(nil), s.ifaces...), nil
}

func (s *Static) Counters(ctx context.Context, name string) (model.Counters, error) {
	ifaces, err := s.Interfaces(ctx)
	if err != nil {
		return model.Counters{}, err
	}
	return lookup(ifaces, name)
}
