package ui

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Dicklesworthstone/bandwidthmon/internal/config"
	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
)

// RunStatic prints one line per frame, or one JSON object per frame when
// cfg.JSON is set, until ctx is done or the stream ends.
func RunStatic(ctx context.Context, w io.Writer, cfg config.Config, s Streamer) error {
	enc := json.NewEncoder(w)
	if !cfg.JSON {
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Monitoring %s ...", s.Interface())))
	}
	for f := range s.Stream(ctx) {
		if cfg.JSON {
			if err := enc.Encode(f); err != nil {
				return fmt.Errorf("encode frame: %w", err)
			}
			continue
		}
		if _, err := fmt.Fprintln(w, StaticLine(f, cfg)); err != nil {
			return err
		}
	}
	return nil
}

// StaticLine renders a frame as a single status line.
func StaticLine(f model.Frame, cfg config.Config) string {
	dir := cfg.Direction()
	var b strings.Builder
	fmt.Fprintf(&b, "sample=%d", f.Sample)
	if dir.Download() {
		fmt.Fprintf(&b, " ↓ %s", downStyle.Render(strings.TrimSpace(FormatRate(f.Rate.DownloadBps))))
	}
	if dir.Upload() {
		fmt.Fprintf(&b, " ↑ %s", upStyle.Render(strings.TrimSpace(FormatRate(f.Rate.UploadBps))))
	}
	if cfg.Summary && f.Sample > 0 {
		var avg []string
		if dir.Download() {
			avg = append(avg, "↓"+strings.TrimSpace(FormatRate(f.Download.Mean)))
		}
		if dir.Upload() {
			avg = append(avg, "↑"+strings.TrimSpace(FormatRate(f.Upload.Mean)))
		}
		fmt.Fprintf(&b, " (avg: %s)", strings.Join(avg, " "))
	}
	return b.String()
}

// WatchQuit calls cancel once a line reading "q" arrives on r, or when r is
// exhausted it simply returns. It is meant to run in its own goroutine.
func WatchQuit(ctx context.Context, r io.Reader, cancel context.CancelFunc) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		if strings.EqualFold(strings.TrimSpace(sc.Text()), "q") {
			cancel()
			return
		}
	}
}
