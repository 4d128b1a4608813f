// Package monitor runs the per-tick pipeline: sample the counters, push the
// rates into the chart history and fold them into the session statistics.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/bandwidthmon/internal/history"
	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
	"github.com/Dicklesworthstone/bandwidthmon/internal/sampler"
	"github.com/Dicklesworthstone/bandwidthmon/internal/source"
	"github.com/Dicklesworthstone/bandwidthmon/internal/stats"
)

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Interval time.Duration
	History  int
	Clock    clock.Clock
	Logger   *zap.Logger

	// MaxFailures ends Stream after this many consecutive failed ticks; 0 never gives up.
	MaxFailures int
}

// Session owns all mutable monitoring state for one interface. Only the
// goroutine calling Tick (or running Stream) may touch it.
type Session struct {
	iface       string
	interval    time.Duration
	maxFailures int
	clock       clock.Clock
	log         *zap.Logger

	sampler   *sampler.Sampler
	down, up  *history.Buffer
	downStats *stats.Tracker
	upStats   *stats.Tracker

	start   time.Time
	samples uint64
	rxBytes uint64
	txBytes uint64

	mu   sync.Mutex
	last model.Frame
	err  error
}

func New(src source.CounterSource, iface string, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	log := opts.Logger.With(zap.String("iface", iface))
	return &Session{
		iface:       iface,
		interval:    opts.Interval,
		maxFailures: opts.MaxFailures,
		clock:       opts.Clock,
		log:         log,
		sampler:     sampler.New(src, iface, sampler.WithClock(opts.Clock), sampler.WithLogger(log)),
		down:        history.New(opts.History),
		up:          history.New(opts.History),
		downStats:   stats.NewTracker(),
		upStats:     stats.NewTracker(),
	}
}

// Interface is the monitored interface name.
func (s *Session) Interface() string { return s.iface }

// Start takes the baseline reading. It fails if the interface is already gone.
func (s *Session) Start(ctx context.Context) error {
	snap, err := s.sampler.Prime(ctx)
	if err != nil {
		return err
	}
	s.start = snap.TakenAt
	s.setLast(s.frame(snap, model.RateSample{}))
	s.log.Info("session started",
		zap.Uint64("rx_bytes", snap.RxBytes),
		zap.Uint64("tx_bytes", snap.TxBytes),
		zap.Duration("interval", s.interval))
	return nil
}

// Tick samples once. A sampling error leaves history and statistics
// untouched; the caller decides whether to skip the tick or stop. Readings
// too close together produce a zero-rate frame without touching history.
func (s *Session) Tick(ctx context.Context) (model.Frame, error) {
	r, err := s.sampler.Sample(ctx)
	if err != nil {
		return model.Frame{}, err
	}
	if r.Degenerate {
		f := s.frame(r.Snapshot, model.RateSample{})
		s.setLast(f)
		return f, nil
	}

	s.samples++
	s.rxBytes += r.RxDelta
	s.txBytes += r.TxDelta
	s.down.Push(r.Rate.DownloadBps)
	s.up.Push(r.Rate.UploadBps)
	s.downStats.Observe(r.Rate.DownloadBps)
	s.upStats.Observe(r.Rate.UploadBps)

	f := s.frame(r.Snapshot, r.Rate)
	s.setLast(f)
	return f, nil
}

// Stream ticks every interval and emits frames until ctx is done. Failed
// ticks are logged and skipped; once MaxFailures consecutive ticks fail the
// stream stops and Err reports why. The channel is closed on return.
func (s *Session) Stream(ctx context.Context) <-chan model.Frame {
	ch := make(chan model.Frame)
	ticker := s.clock.Ticker(s.interval)
	go func() {
		defer ticker.Stop()
		defer close(ch)
		failures := 0
		for {
			select {
			case <-ticker.C:
				f, err := s.Tick(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					failures++
					s.log.Warn("sample failed, skipping tick", zap.Error(err), zap.Int("consecutive", failures))
					if s.maxFailures > 0 && failures >= s.maxFailures {
						s.setErr(fmt.Errorf("%d consecutive samples failed: %w", failures, err))
						return
					}
					continue
				}
				failures = 0
				select {
				case ch <- f:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// Err is the reason Stream gave up, nil if it stopped because ctx ended.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) setErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Summary returns the most recent frame, including whole-session statistics.
// It is safe to call while Stream is running.
func (s *Session) Summary() model.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) setLast(f model.Frame) {
	s.mu.Lock()
	s.last = f
	s.mu.Unlock()
}

func (s *Session) frame(snap model.CounterSnapshot, rate model.RateSample) model.Frame {
	return model.Frame{
		Timestamp:       snap.TakenAt,
		Interface:       s.iface,
		Sample:          s.samples,
		Rate:            rate,
		Counters:        snap.Counters,
		RxBytes:         s.rxBytes,
		TxBytes:         s.txBytes,
		Runtime:         snap.TakenAt.Sub(s.start),
		Download:        s.downStats.Snapshot(),
		Upload:          s.upStats.Snapshot(),
		DownloadHistory: s.down.Snapshot(),
		UploadHistory:   s.up.Snapshot(),
	}
}
