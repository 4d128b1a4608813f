// Package sampler turns successive cumulative counter readings into
// bytes-per-second rates.
package sampler

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
	"github.com/Dicklesworthstone/bandwidthmon/internal/source"
)

// MinElapsed is the shortest gap between two readings that yields a rate.
// Closer readings produce a zero-rate tick instead of a spike.
const MinElapsed = time.Millisecond

// Reading is the outcome of one successful Sample call.
type Reading struct {
	Snapshot model.CounterSnapshot
	Rate     model.RateSample
	RxDelta  uint64
	TxDelta  uint64
	// Degenerate is set when the readings were too close together to rate.
	Degenerate bool
}

// Sampler retains the previous snapshot of one interface and rates each new
// reading against it. It is not safe for concurrent use.
type Sampler struct {
	src   source.CounterSource
	iface string
	clock clock.Clock
	log   *zap.Logger

	prev *model.CounterSnapshot
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c clock.Clock) Option { return func(s *Sampler) { s.clock = c } }

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option { return func(s *Sampler) { s.log = l } }

func New(src source.CounterSource, iface string, opts ...Option) *Sampler {
	s := &Sampler{src: src, iface: iface, clock: clock.New(), log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Prime takes the baseline reading the first rate is computed against.
func (s *Sampler) Prime(ctx context.Context) (model.CounterSnapshot, error) {
	snap, err := s.read(ctx)
	if err != nil {
		return model.CounterSnapshot{}, err
	}
	s.prev = &snap
	return snap, nil
}

// Sample reads the counters and rates them against the previous snapshot.
// On error the previous snapshot is kept, so a skipped tick is folded into
// the next successful one. An unprimed sampler treats this call as its
// baseline and reports a zero rate.
func (s *Sampler) Sample(ctx context.Context) (Reading, error) {
	cur, err := s.read(ctx)
	if err != nil {
		return Reading{}, err
	}
	if s.prev == nil {
		s.prev = &cur
		return Reading{Snapshot: cur, Degenerate: true}, nil
	}

	prev := *s.prev
	if cur.TakenAt.Sub(prev.TakenAt) < MinElapsed {
		s.log.Debug("readings too close together, reporting zero rate",
			zap.String("iface", s.iface),
			zap.Duration("elapsed", cur.TakenAt.Sub(prev.TakenAt)))
		return Reading{Snapshot: cur, Degenerate: true}, nil
	}

	s.prev = &cur
	return Reading{
		Snapshot: cur,
		Rate:     Rate(prev, cur),
		RxDelta:  saturatingSub(cur.RxBytes, prev.RxBytes),
		TxDelta:  saturatingSub(cur.TxBytes, prev.TxBytes),
	}, nil
}

func (s *Sampler) read(ctx context.Context) (model.CounterSnapshot, error) {
	c, err := s.src.Counters(ctx, s.iface)
	if err != nil {
		return model.CounterSnapshot{}, err
	}
	return model.CounterSnapshot{Counters: c, TakenAt: s.clock.Now()}, nil
}

// Rate computes throughput between two snapshots. A counter that went
// backwards (reset or wraparound) contributes a zero delta, and snapshots
// less than MinElapsed apart yield a zero rate.
func Rate(prev, cur model.CounterSnapshot) model.RateSample {
	elapsed := cur.TakenAt.Sub(prev.TakenAt)
	if elapsed < MinElapsed {
		return model.RateSample{}
	}
	secs := elapsed.Seconds()
	return model.RateSample{
		DownloadBps: float64(saturatingSub(cur.RxBytes, prev.RxBytes)) / secs,
		UploadBps:   float64(saturatingSub(cur.TxBytes, prev.TxBytes)) / secs,
	}
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
