package ui

import (
	"fmt"
	"time"
)

var (
	rateUnits  = []string{"B/s", "KB/s", "MB/s", "GB/s"}
	totalUnits = []string{"B", "KB", "MB", "GB", "TB"}
)

// FormatRate renders bytes per second with a 1024-based unit, right-aligned.
func FormatRate(bps float64) string {
	v, unit := scale(bps, rateUnits)
	return fmt.Sprintf("%7.2f %s", v, unit)
}

// FormatBytes renders a byte total with a 1024-based unit.
func FormatBytes(b uint64) string {
	v, unit := scale(float64(b), totalUnits)
	return fmt.Sprintf("%.2f %s", v, unit)
}

func scale(v float64, units []string) (float64, string) {
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return v, units[i]
}

func formatRuntime(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
