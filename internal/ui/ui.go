package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/bandwidthmon/internal/chart"
	"github.com/Dicklesworthstone/bandwidthmon/internal/config"
	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
)

// chartMargin is the room left for axis labels and borders when the chart
// width follows the terminal.
const chartMargin = 15

// Model renders live frames from a monitoring session.
type Model struct {
	cfg       config.Config
	iface     string
	latest    model.Frame
	hasFrame  bool
	stream    <-chan model.Frame
	ctxCancel context.CancelFunc
	width     int
	height    int
}

// Streamer is the part of a monitoring session the UI drives.
type Streamer interface {
	Interface() string
	Stream(ctx context.Context) <-chan model.Frame
}

func New(ctx context.Context, cfg config.Config, s Streamer) *Model {
	ctx, cancel := context.WithCancel(ctx)
	w, h := terminalSize()
	return &Model{
		cfg:       cfg,
		iface:     s.Interface(),
		stream:    s.Stream(ctx),
		ctxCancel: cancel,
		width:     w,
		height:    h,
	}
}

// Messages
type (
	frameMsg     model.Frame
	streamEndMsg struct{}
)

func waitFrame(ch <-chan model.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return streamEndMsg{}
		}
		return frameMsg(f)
	}
}

func (m *Model) Init() tea.Cmd { return waitFrame(m.stream) }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "esc", "ctrl+c":
			m.ctxCancel()
			return m, tea.Quit
		}
	case frameMsg:
		m.latest = model.Frame(msg)
		m.hasFrame = true
		return m, waitFrame(m.stream)
	case streamEndMsg:
		return m, tea.Quit
	}
	return m, nil
}

// Styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	downStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	upStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)
)

func (m *Model) View() string {
	f := m.latest
	if !m.hasFrame {
		f = model.Frame{Interface: m.iface}
	}
	return Screen(f, m.cfg, ChartWidth(m.cfg, m.width))
}

// ChartWidth is the configured width, or the terminal width minus the label margin.
func ChartWidth(cfg config.Config, termWidth int) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	w := termWidth - chartMargin
	if w < 10 {
		w = 10
	}
	return w
}

// Screen lays out one full redraw: header, current rates, optional summary
// and one chart per shown direction.
func Screen(f model.Frame, cfg config.Config, chartWidth int) string {
	dir := cfg.Direction()
	var sections []string

	if !cfg.ChartOnly {
		sections = append(sections, titleStyle.Render(fmt.Sprintf("═══ Bandwidth Monitor (%s) ═══", f.Interface)))
	}
	sections = append(sections, rateLine(f, dir, cfg.ChartOnly))

	if cfg.Summary && !cfg.ChartOnly {
		sections = append(sections, cardStyle.Render(summaryBody(f, dir)))
	}

	mode := cfg.Mode()
	if dir.Download() && len(f.DownloadHistory) > 0 {
		sections = append(sections,
			labelStyle.Render("Download History:"),
			downStyle.Render(strings.TrimSuffix(chart.RenderText(f.DownloadHistory, cfg.Height, chartWidth, mode), "\n")))
	}
	if dir.Upload() && len(f.UploadHistory) > 0 {
		sections = append(sections,
			labelStyle.Render("Upload History:"),
			upStyle.Render(strings.TrimSuffix(chart.RenderText(f.UploadHistory, cfg.Height, chartWidth, mode), "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func rateLine(f model.Frame, dir model.Direction, withIface bool) string {
	var parts []string
	if withIface {
		parts = append(parts, labelStyle.Render("Interface:")+" "+valueStyle.Render(f.Interface))
	}
	if dir.Download() {
		parts = append(parts, downStyle.Bold(true).Render("Download:")+" "+valueStyle.Render(FormatRate(f.Rate.DownloadBps)))
	}
	if dir.Upload() {
		parts = append(parts, upStyle.Bold(true).Render("Upload:")+" "+valueStyle.Render(FormatRate(f.Rate.UploadBps)))
	}
	return strings.Join(parts, "  │  ") + "  " + subtleStyle.Render("Press 'q' or Ctrl+C to quit")
}

func summaryBody(f model.Frame, dir model.Direction) string {
	lines := []string{labelStyle.Render("Statistics") + subtleStyle.Render(fmt.Sprintf("  samples %d  runtime %s", f.Sample, formatRuntime(f.Runtime)))}
	if dir.Download() {
		lines = append(lines, statsLine("Download", downStyle, f.Download))
	}
	if dir.Upload() {
		lines = append(lines, statsLine("Upload  ", upStyle, f.Upload))
	}
	lines = append(lines, fmt.Sprintf("Total RX %s  │  Total TX %s  │  Session ↓ %s ↑ %s",
		FormatBytes(f.Counters.RxBytes), FormatBytes(f.Counters.TxBytes),
		FormatBytes(f.RxBytes), FormatBytes(f.TxBytes)))
	return strings.Join(lines, "\n")
}

func statsLine(name string, style lipgloss.Style, s model.Stats) string {
	return fmt.Sprintf("%s Min=%s Avg=%s Max=%s StdDev=%s P95=%s",
		style.Bold(true).Render(name),
		FormatRate(s.Min), FormatRate(s.Mean), FormatRate(s.Peak),
		FormatRate(s.StdDev), FormatRate(s.P95))
}

func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w, h
	}
	return 120, 40
}

// Run starts the Bubble Tea program and blocks until the user quits, ctx is
// cancelled or the stream ends. The terminal is restored on every exit path.
func Run(ctx context.Context, cfg config.Config, s Streamer) error {
	m := New(ctx, cfg, s)
	defer m.ctxCancel()

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	return err
}
