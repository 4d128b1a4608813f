package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dicklesworthstone/bandwidthmon/internal/chart"
	"github.com/Dicklesworthstone/bandwidthmon/internal/model"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultHeight   = 10
	DefaultHistory  = 120
	DefaultInterval = time.Second

	minInterval = 10 * time.Millisecond
	envPrefix   = "BANDWIDTHMON_"
)

// Config carries runtime options for bandwidthmon.
type Config struct {
	Interface string
	Height    int
	Width     int
	Interval  time.Duration
	History   int
	Download  bool
	Upload    bool
	Summary   bool
	List      bool
	Static    bool
	ChartOnly bool
	JSON      bool
	ChartMode string
	LogFile   string
	LogLevel  string
	Version   bool

	// MaxFailures stops monitoring after this many consecutive failed
	// samples; 0 tolerates them forever.
	MaxFailures int
}

func Default() Config {
	return Config{
		Height:    DefaultHeight,
		Interval:  DefaultInterval,
		History:   DefaultHistory,
		ChartMode: chart.ModeGradient.String(),
		LogLevel:  "info",
	}
}

// Direction folds the download/upload flags into a filter.
func (c Config) Direction() model.Direction {
	switch {
	case c.Download:
		return model.DownloadOnly
	case c.Upload:
		return model.UploadOnly
	default:
		return model.Both
	}
}

// Mode returns the parsed chart mode. Validate guarantees it parses.
func (c Config) Mode() chart.Mode {
	m, _ := chart.ParseMode(c.ChartMode)
	return m
}

// Validate rejects option combinations the monitor cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Height < 1:
		return fmt.Errorf("%w: height must be at least 1, got %d", ErrInvalidConfig, c.Height)
	case c.Width < 0:
		return fmt.Errorf("%w: width must not be negative, got %d", ErrInvalidConfig, c.Width)
	case c.Interval < minInterval:
		return fmt.Errorf("%w: interval must be at least %s, got %s", ErrInvalidConfig, minInterval, c.Interval)
	case c.MaxFailures < 0:
		return fmt.Errorf("%w: max-failures must not be negative, got %d", ErrInvalidConfig, c.MaxFailures)
	case c.History < 1:
		return fmt.Errorf("%w: history must be at least 1, got %d", ErrInvalidConfig, c.History)
	case c.Download && c.Upload:
		return fmt.Errorf("%w: -download and -upload are mutually exclusive", ErrInvalidConfig)
	}
	if _, err := chart.ParseMode(c.ChartMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// seconds accepts either a Go duration ("500ms") or a bare number of seconds ("0.5").
type seconds struct{ d *time.Duration }

func (s seconds) String() string {
	if s.d == nil {
		return ""
	}
	return s.d.String()
}

func (s seconds) Set(v string) error {
	d, err := parseInterval(v)
	if err != nil {
		return err
	}
	*s.d = d
	return nil
}

func parseInterval(v string) (time.Duration, error) {
	if d, err := time.ParseDuration(v); err == nil {
		return d, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q", v)
	}
	return time.Duration(f * float64(time.Second)), nil
}

// FromFlags loads an optional .env file, applies environment overrides and
// then parses flags, so flags win over the environment. A missing .env is
// fine; one that fails to parse is an error.
func FromFlags(args []string, output io.Writer) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Default(), fmt.Errorf("%w: .env: %v", ErrInvalidConfig, err)
	}

	cfg := Default()
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("bandwidthmon", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	for _, name := range []string{"i", "iface"} {
		fs.StringVar(&cfg.Interface, name, cfg.Interface, "interface name or pattern (wildcards * and ?), empty selects the busiest")
	}
	for _, name := range []string{"H", "height"} {
		fs.IntVar(&cfg.Height, name, cfg.Height, "chart height in rows")
	}
	for _, name := range []string{"W", "width"} {
		fs.IntVar(&cfg.Width, name, cfg.Width, "chart width in columns (0 = fit terminal)")
	}
	for _, name := range []string{"t", "interval"} {
		fs.Var(seconds{&cfg.Interval}, name, "sampling interval (duration or seconds)")
	}
	for _, name := range []string{"d", "download"} {
		fs.BoolVar(&cfg.Download, name, cfg.Download, "show download only")
	}
	for _, name := range []string{"u", "upload"} {
		fs.BoolVar(&cfg.Upload, name, cfg.Upload, "show upload only")
	}
	for _, name := range []string{"s", "summary"} {
		fs.BoolVar(&cfg.Summary, name, cfg.Summary, "show summary statistics")
	}
	for _, name := range []string{"l", "list"} {
		fs.BoolVar(&cfg.List, name, cfg.List, "list network interfaces and exit")
	}
	for _, name := range []string{"c", "chart-only"} {
		fs.BoolVar(&cfg.ChartOnly, name, cfg.ChartOnly, "only show status line and charts")
	}
	fs.IntVar(&cfg.History, "history", cfg.History, "history capacity in samples")
	fs.IntVar(&cfg.MaxFailures, "max-failures", cfg.MaxFailures, "exit after this many consecutive failed samples (0 = never)")
	fs.BoolVar(&cfg.Static, "static", cfg.Static, "print one line per sample instead of a chart")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "stream NDJSON samples until interrupted")
	fs.StringVar(&cfg.ChartMode, "mode", cfg.ChartMode, "chart mode: block|gradient")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	fs.BoolVar(&cfg.Version, "version", cfg.Version, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.JSON {
		cfg.Static = true
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(envPrefix + "IFACE"); v != "" {
		cfg.Interface = v
	}
	if v := os.Getenv(envPrefix + "INTERVAL"); v != "" {
		d, err := parseInterval(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, envPrefix, "INTERVAL", err)
		}
		cfg.Interval = d
	}
	for key, dst := range map[string]*int{"HEIGHT": &cfg.Height, "HISTORY": &cfg.History} {
		v := os.Getenv(envPrefix + key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalidConfig, envPrefix, key, v)
		}
		*dst = n
	}
	if v := os.Getenv(envPrefix + "LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}
