// dotstatus is an i3bar status_command.
//
// It writes the i3bar input protocol on stdout (a JSON header followed by a
// never-closing array of block arrays), reads click events the bar sends
// back on stdin, and refreshes signal-aware blocks when it receives
// SIGRTMIN+15 (e.g. `pkill -RTMIN+15 dotstatus` from a media-key binding).
//
// Usage:
//
//	dotstatus [flags]
//
// Flags:
//
//	-config string  Path to configuration file (default: ~/.config/dotstatus/config.toml)
//	-debug          Enable diagnostic logging to the data-directory log file
//	-version        Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks"
	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks/clock"
	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks/network"
	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks/sysmetrics"
	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks/volume"
	"gitlab.com/tinyland/lab/dotstatus/pkg/config"
	"gitlab.com/tinyland/lab/dotstatus/pkg/statusline"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		debug       = flag.Bool("debug", false, "Enable diagnostic logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("dotstatus %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the protocol, so logging goes to a file and only
	// when asked for.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *debug {
		logPath := cfg.LogFile()
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
			os.Exit(1)
		}
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer logFile.Close()
		logger = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		logger.Debug("start logging", "pid", os.Getpid(), "version", version)
	}

	// The protocol is meant for a bar host, not a terminal; warn but keep
	// going so `dotstatus | jq` style inspection still works.
	if isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "dotstatus: stdout is a terminal; this program is meant to run as an i3bar status_command")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	registry := blocks.NewRegistry()
	engine := statusline.New(os.Stdout, os.Stdin, registry, logger)

	for _, name := range cfg.General.Order {
		b := buildBlock(name, cfg, engine, logger)
		if b == nil {
			continue
		}
		id, err := engine.Register(b)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to register block %s: %v\n", name, err)
			os.Exit(1)
		}
		logger.Debug("registered block", "name", name, "instance", id)
	}
	if registry.Len() == 0 {
		fmt.Fprintln(os.Stderr, "no blocks enabled; nothing to display")
		os.Exit(1)
	}

	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("engine error", "error", err)
		os.Exit(1)
	}
}

// buildBlock constructs one configured block, or nil when that block type
// is disabled.
func buildBlock(name string, cfg *config.Config, engine *statusline.Engine, logger *slog.Logger) blocks.Block {
	switch name {
	case "clock":
		if !cfg.Clock.Enabled {
			return nil
		}
		c := clock.New(engine, clock.WithFormat(cfg.Clock.Format))
		c.SetStyle(cfg.Style.Apply)
		return c
	case "cpu":
		if !cfg.CPU.Enabled {
			return nil
		}
		c := sysmetrics.NewCPU(engine, cfg.CPU.Interval.Duration)
		c.SetStyle(cfg.Style.Apply)
		return c
	case "ram":
		if !cfg.RAM.Enabled {
			return nil
		}
		r := sysmetrics.NewRAM(engine, cfg.RAM.Interval.Duration)
		r.SetStyle(cfg.Style.Apply)
		return r
	case "disk":
		if !cfg.Disk.Enabled {
			return nil
		}
		d := sysmetrics.NewDisk(engine, cfg.Disk.Interval.Duration, cfg.Disk.Mount)
		d.SetStyle(cfg.Style.Apply)
		return d
	case "volume":
		if !cfg.Volume.Enabled {
			return nil
		}
		v := volume.New(engine, cfg.Volume.Interval.Duration, cfg.Volume.Step, cfg.Volume.Mixer, cfg.Volume.MixerUI)
		v.SetStyle(cfg.Style.Apply)
		return v
	case "network":
		if !cfg.Network.Enabled {
			return nil
		}
		n := network.New(engine, cfg.Network.Editor, logger)
		n.SetStyle(cfg.Style.Apply)
		return n
	}
	return nil
}
