package model

import "time"

// Counters is a raw cumulative byte count pair for one interface.
type Counters struct {
	RxBytes uint64 `json:"rx"`
	TxBytes uint64 `json:"tx"`
}

// Interface is one entry of the provider's interface listing.
type Interface struct {
	Name    string
	RxBytes uint64
	TxBytes uint64
}

// Total is the combined rx+tx byte count used by the busiest heuristic.
func (i Interface) Total() uint64 { return i.RxBytes + i.TxBytes }

// CounterSnapshot is a counter reading stamped with the time it was taken.
type CounterSnapshot struct {
	Counters
	TakenAt time.Time
}

// RateSample holds instantaneous throughput in bytes per second. Never negative.
type RateSample struct {
	DownloadBps float64 `json:"download_bps"`
	UploadBps   float64 `json:"upload_bps"`
}

// Direction selects which traffic directions are shown.
type Direction int

const (
	Both Direction = iota
	DownloadOnly
	UploadOnly
)

// Download reports whether the download direction is shown.
func (d Direction) Download() bool { return d != UploadOnly }

// Upload reports whether the upload direction is shown.
func (d Direction) Upload() bool { return d != DownloadOnly }

func (d Direction) String() string {
	switch d {
	case DownloadOnly:
		return "download"
	case UploadOnly:
		return "upload"
	default:
		return "both"
	}
}

// Stats is a point-in-time copy of one direction's running statistics.
type Stats struct {
	Count  uint64  `json:"count"`
	Peak   float64 `json:"peak"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// Frame is the full snapshot exchanged between the session and its renderers.
// Counters are the interface's cumulative counters at this tick; RxBytes and
// TxBytes are the bytes moved since the session started.
type Frame struct {
	Timestamp time.Time     `json:"timestamp"`
	Interface string        `json:"interface"`
	Sample    uint64        `json:"sample"`
	Rate      RateSample    `json:"rate"`
	Counters  Counters      `json:"counters"`
	RxBytes   uint64        `json:"rx_bytes"`
	TxBytes   uint64        `json:"tx_bytes"`
	Runtime   time.Duration `json:"runtime_ns"`
	Download  Stats         `json:"download"`
	Upload    Stats         `json:"upload"`

	DownloadHistory []float64 `json:"-"`
	UploadHistory   []float64 `json:"-"`
}
