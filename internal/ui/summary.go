package ui

import (
	"fmt"
	"io"

	"github.com/Dicklesworthstone/bandwidthmon/internal/config"
	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
)

// PrintSummary writes the end-of-session report for the shown directions.
func PrintSummary(w io.Writer, f model.Frame, cfg config.Config) {
	dir := cfg.Direction()
	fmt.Fprintln(w)
	fmt.Fprintln(w, stoppedStyle.Render("✓ Stopped"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("Final Statistics (%s):", f.Interface)))
	fmt.Fprintf(w, "  Total Samples: %d\n", f.Sample)
	fmt.Fprintf(w, "  Runtime: %s\n", formatRuntime(f.Runtime))
	fmt.Fprintf(w, "  Total Data: Downloaded = %s, Uploaded = %s\n", FormatBytes(f.RxBytes), FormatBytes(f.TxBytes))
	if f.Sample == 0 {
		return
	}
	if dir.Download() {
		fmt.Fprintf(w, "  Download Rate: %s\n", rateSummary(f.Download))
	}
	if dir.Upload() {
		fmt.Fprintf(w, "  Upload Rate:   %s\n", rateSummary(f.Upload))
	}
}

func rateSummary(s model.Stats) string {
	return fmt.Sprintf("Min = %s, Avg = %s, Max = %s, StdDev = %s, P95 = %s",
		FormatRate(s.Min), FormatRate(s.Mean), FormatRate(s.Peak), FormatRate(s.StdDev), FormatRate(s.P95))
}
