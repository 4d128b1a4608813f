package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/bandwidthmon/internal/config"
	"github.com/Dicklesworthstone/bandwidthmon/internal/logging"
	"github.com/Dicklesworthstone/bandwidthmon/internal/monitor"
	"github.com/Dicklesworthstone/bandwidthmon/internal/resolver"
	"github.com/Dicklesworthstone/bandwidthmon/internal/source"
	"github.com/Dicklesworthstone/bandwidthmon/internal/ui"
)

var version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.FromFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		ui.PrintError(stderr, err)
		return exitUsage
	}
	if cfg.Version {
		fmt.Fprintf(stdout, "bandwidthmon %s\n", version)
		return exitOK
	}

	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		ui.PrintError(stderr, err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = monitorInterface(ctx, cfg, source.NewPsutil(), log, stdout)
	err = multierr.Append(err, syncLogger(log))
	if err != nil {
		ui.PrintError(stderr, err)
		if errors.Is(err, resolver.ErrInterfaceNotFound) {
			fmt.Fprintln(stderr, "\nUse -l or --list to see available interfaces")
		}
		return exitFailure
	}
	return exitOK
}

func monitorInterface(ctx context.Context, cfg config.Config, src source.CounterSource, log *zap.Logger, stdout io.Writer) error {
	ifaces, err := src.Interfaces(ctx)
	if err != nil {
		return err
	}
	if cfg.List {
		ui.PrintInterfaces(stdout, ifaces)
		return nil
	}

	name, err := resolver.Resolve(cfg.Interface, ifaces)
	if err != nil {
		return err
	}
	log.Info("interface resolved", zap.String("pattern", cfg.Interface), zap.String("iface", name))

	sess := monitor.New(src, name, monitor.Options{
		Interval:    cfg.Interval,
		History:     cfg.History,
		MaxFailures: cfg.MaxFailures,
		Logger:      log,
	})
	if err := sess.Start(ctx); err != nil {
		return vanished(ctx, src, name, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Static {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			go ui.WatchQuit(ctx, os.Stdin, cancel)
		}
		err = ui.RunStatic(ctx, stdout, cfg, sess)
	} else {
		err = ui.Run(ctx, cfg, sess)
	}
	cancel()

	last := sess.Summary()
	if !cfg.JSON {
		ui.PrintSummary(stdout, last, cfg)
	}
	log.Info("session stopped", zap.Uint64("samples", last.Sample))

	if serr := sess.Err(); serr != nil {
		err = multierr.Append(err, vanished(context.Background(), src, name, serr))
	}
	return err
}

// vanished decorates a sampling failure with the interfaces present now.
func vanished(ctx context.Context, src source.CounterSource, name string, err error) error {
	ifaces, lerr := src.Interfaces(ctx)
	if lerr != nil {
		return err
	}
	return fmt.Errorf("monitoring %s: %w; available: %s", name, err, strings.Join(source.Names(ifaces), ", "))
}

func syncLogger(log *zap.Logger) error {
	err := log.Sync()
	// syncing a terminal or /dev/stderr fails with EINVAL/ENOTTY on Linux
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
