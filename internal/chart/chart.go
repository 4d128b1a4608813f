// Package chart rasterizes a numeric series into a fixed-size grid of block
// glyphs, optionally with sub-row resolution and three axis labels.
package chart

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how bars are drawn.
type Mode int

const (
	// ModeGradient draws partial-height glyphs above each bar and labels the axis.
	ModeGradient Mode = iota
	// ModeBlock draws whole-row bars without labels.
	ModeBlock
)

func (m Mode) String() string {
	if m == ModeBlock {
		return "block"
	}
	return "gradient"
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "gradient":
		return ModeGradient, nil
	case "block":
		return ModeBlock, nil
	}
	return ModeGradient, fmt.Errorf("unknown chart mode %q", s)
}

const (
	blank = ' '
	full  = '█'

	// fractions at or below this leave the row above a bar blank
	partialThreshold = 0.1

	// LabelWidth is the width of every axis label; chart bodies start after it.
	LabelWidth = 7
)

// blocks is ordered by fill density, blank to full.
var blocks = [9]rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Grid is a height x width character canvas, row 0 at the top.
type Grid struct {
	Rows [][]rune
	Min  float64
	Max  float64
}

// Empty reports whether the grid has no rows.
func (g Grid) Empty() bool { return len(g.Rows) == 0 }

// String joins rows with newlines, without labels.
func (g Grid) String() string {
	var b strings.Builder
	for i, row := range g.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

// Render draws the last width values of series into a height x width grid.
// Non-finite values leave their column blank. A flat series is scaled with a
// range of 1 so every bar sits on the bottom row.
func Render(series []float64, height, width int, mode Mode) Grid {
	if len(series) == 0 || height <= 0 || width <= 0 {
		return Grid{}
	}
	if len(series) > width {
		series = series[len(series)-width:]
	}

	minVal, maxVal, ok := bounds(series)
	if !ok {
		minVal, maxVal = 0, 0
	}
	span := maxVal - minVal
	if span == 0 {
		span = 1
	}

	rows := make([][]rune, height)
	for i := range rows {
		rows[i] = []rune(strings.Repeat(string(blank), width))
	}

	for x, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		y := (1 - (v-minVal)/span) * float64(height)
		top := int(math.Floor(y))
		frac := y - math.Floor(y)
		if top >= height {
			// the minimum still occupies the baseline
			top, frac = height-1, 0
		}
		if mode == ModeBlock {
			top = int(math.Round(y))
			if top >= height {
				top = height - 1
			}
			frac = 0
		}
		for r := top; r < height; r++ {
			rows[r][x] = full
		}
		if top > 0 && frac > partialThreshold && rows[top-1][x] == blank {
			idx := int((1 - frac) * 8)
			if idx > 8 {
				idx = 8
			}
			rows[top-1][x] = blocks[idx]
		}
	}
	return Grid{Rows: rows, Min: minVal, Max: maxVal}
}

// RenderText renders series and prefixes each row with an axis column. In
// gradient mode the top, middle and bottom rows carry the max, midpoint and
// min labels; every row's label column has the width of the widest label.
func RenderText(series []float64, height, width int, mode Mode) string {
	g := Render(series, height, width, mode)
	if g.Empty() {
		return ""
	}
	labels := make([]string, len(g.Rows))
	labelWidth := LabelWidth
	if mode == ModeGradient {
		for i := range g.Rows {
			labels[i] = rowLabel(g, i)
			labelWidth = max(labelWidth, len(labels[i]))
		}
	}
	var b strings.Builder
	for i, row := range g.Rows {
		if mode == ModeGradient {
			fmt.Fprintf(&b, "%*s ", labelWidth, labels[i])
		}
		b.WriteByte('|')
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func rowLabel(g Grid, row int) string {
	height := len(g.Rows)
	switch {
	case row == 0:
		return FormatLabel(g.Max)
	case row == height-1:
		return FormatLabel(g.Min)
	case row == height/2:
		return FormatLabel((g.Max + g.Min) / 2)
	}
	return ""
}

// FormatLabel renders v right-aligned in LabelWidth columns with a K, M or G
// suffix for thousands, millions and billions. Values of 1e13 and above
// overflow the column.
func FormatLabel(v float64) string {
	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%6.1fG", v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%6.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%6.1fK", v/1_000)
	}
	return fmt.Sprintf("%7.1f", v)
}

func bounds(series []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}
