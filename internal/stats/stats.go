// Package stats tracks whole-session statistics for one traffic direction.
//
// A Tracker sees every observed sample and is independent of the bounded
// chart history: peak and mean describe the entire session while the chart
// shows only the recent window.
package stats

import (
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
)

const (
	// 1 TiB/s is far beyond any interface we sample; larger values are clamped.
	histMax    = 1 << 40
	histSigFig = 3
)

// Tracker keeps running peak, min, mean and variance (Welford) plus a
// histogram for session percentiles. It is not safe for concurrent use.
type Tracker struct {
	n    uint64
	peak float64
	min  float64
	mean float64
	m2   float64
	hist *hdrhistogram.Histogram
}

func NewTracker() *Tracker {
	return &Tracker{hist: hdrhistogram.New(1, histMax, histSigFig)}
}

// Observe folds v into the running statistics. Negative and non-finite values are ignored.
func (t *Tracker) Observe(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return
	}
	t.n++
	if t.n == 1 || v < t.min {
		t.min = v
	}
	if v > t.peak {
		t.peak = v
	}
	delta := v - t.mean
	t.mean += delta / float64(t.n)
	t.m2 += delta * (v - t.mean)

	rec := int64(math.Round(v))
	if rec > histMax {
		rec = histMax
	}
	_ = t.hist.RecordValue(rec)
}

// Count is the number of observations so far.
func (t *Tracker) Count() uint64 { return t.n }

// Peak is the running maximum, 0 before any observation.
func (t *Tracker) Peak() float64 { return t.peak }

// Mean is the running average over every observation.
func (t *Tracker) Mean() float64 { return t.mean }

// Min is the smallest observation, 0 before any observation.
func (t *Tracker) Min() float64 { return t.min }

// StdDev is the sample standard deviation, 0 with fewer than two observations.
func (t *Tracker) StdDev() float64 {
	if t.n < 2 {
		return 0
	}
	return math.Sqrt(t.m2 / float64(t.n-1))
}

// Percentile returns the q-th percentile (0-100) rounded to the histogram's precision.
func (t *Tracker) Percentile(q float64) float64 {
	if t.n == 0 {
		return 0
	}
	return float64(t.hist.ValueAtQuantile(q))
}

// Snapshot copies the current statistics.
func (t *Tracker) Snapshot() model.Stats {
	return model.Stats{
		Count:  t.n,
		Peak:   t.peak,
		Mean:   t.mean,
		Min:    t.min,
		StdDev: t.StdDev(),
		P50:    t.Percentile(50),
		P95:    t.Percentile(95),
		P99:    t.Percentile(99),
	}
}
