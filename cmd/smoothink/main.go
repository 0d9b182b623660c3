// Package main provides the smoothink drawing window. Drag with the mouse or
// a finger to lay down smooth antialiased ink.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-smoothink/internal/config"
	"github.com/opd-ai/go-smoothink/internal/profiling"
	"github.com/opd-ai/go-smoothink/pkg/smoothink"
)

// Version is the current version of smoothink.
// This default value can be overridden at build time using:
//
//	go build -ldflags "-X main.Version=x.y.z"
var Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	watch      bool
	debug      bool
	json       bool
	stats      bool
	version    bool
	convert    string
	ink        string
	background string
	cpuProfile string
	memProfile string
	tracePath  string
	memWatch   time.Duration
	expvar     string
	strict     bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("smoothink", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.configPath, "c", "", "Path to configuration file (Lua or plain)")
	fs.BoolVar(&o.watch, "watch", false, "Reload the configuration when the file changes")
	fs.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&o.json, "json", false, "Log in JSON format")
	fs.BoolVar(&o.stats, "stats", false, "Show the statistics overlay")
	fs.BoolVar(&o.version, "v", false, "Print version and exit")
	fs.StringVar(&o.convert, "convert", "", "Convert a configuration file to the other format and print it")
	fs.StringVar(&o.ink, "ink", "", "Override the ink color (name, #rrggbb or rgb(r,g,b))")
	fs.StringVar(&o.background, "bg", "", "Override the canvas color")
	fs.StringVar(&o.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&o.memProfile, "memprofile", "", "Write memory profile to file")
	fs.StringVar(&o.tracePath, "trace", "", "Write execution trace to file")
	fs.DurationVar(&o.memWatch, "memwatch", 0, "Sample the heap at this interval and warn on sustained growth")
	fs.StringVar(&o.expvar, "expvar", "", "Serve metrics and health at /debug/vars on this address")
	fs.BoolVar(&o.strict, "strict", false, "Treat configuration warnings as errors")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	if o.version {
		fmt.Fprintf(stdout, "smoothink version %s\n", Version)
		return 0
	}
	if o.convert != "" {
		return runConvert(o.convert, stdout, stderr)
	}

	level := slog.LevelInfo
	if o.debug {
		level = slog.LevelDebug
	}
	logger := smoothink.NewLogger(stderr, level, o.json)

	sceneOpts, err := sceneOptions(o, logger)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	profConfig := profiling.Config{
		CPUProfilePath: o.cpuProfile,
		MemProfilePath: o.memProfile,
		TracePath:      o.tracePath,
	}
	if profConfig.ProfilingEnabled() {
		profiler := profiling.New(profConfig)
		if err := profiler.Start(); err != nil {
			fmt.Fprintf(stderr, "Failed to start profiling: %v\n", err)
			return 1
		}
		defer func() {
			if err := profiler.Stop(); err != nil {
				fmt.Fprintf(stderr, "Warning: failed to stop profiling: %v\n", err)
			}
		}()
	}

	if o.memWatch > 0 {
		hw := profiling.NewHeapWatcher(profiling.HeapWatchConfig{Interval: o.memWatch}, func(g profiling.HeapGrowth) {
			logger.Warn("heap growth", "detail", g.String())
		})
		defer startHeapWatch(hw, logger)()
	}

	s, err := newScene(o, sceneOpts, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating scene: %v\n", err)
		return 1
	}
	if o.expvar != "" {
		d, err := startDebugServer(o.expvar, s, logger)
		if err != nil {
			fmt.Fprintf(stderr, "Error starting metrics server: %v\n", err)
			return 1
		}
		defer d.shutdown()
	}

	s.SetEventHandler(func(e smoothink.Event) {
		logger.Debug("event", "type", e.Type.String(), "message", e.Message)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)
	go handleSignals(sigCh, s, logger)

	brush := s.Canvas().Brush()
	logger.Info("smoothink starting",
		"version", Version,
		"config", s.Status().ConfigSource,
		"brush_width", brush.Width,
		"ink", config.ToHex(brush.Color))

	// Ebiten needs the main goroutine, so Run stays here and signals are
	// handled in the background.
	if err := s.Run(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// startHeapWatch starts hw and returns its stop function. A start failure is
// logged and leaves nothing to stop.
func startHeapWatch(hw *profiling.HeapWatcher, logger smoothink.Logger) func() {
	if err := hw.Start(); err != nil {
		logger.Warn("failed to start heap watcher", "error", err)
		return func() {}
	}
	return hw.Stop
}

func handleSignals(sigCh <-chan os.Signal, s *smoothink.Scene, logger smoothink.Logger) {
	for sig := range sigCh {
		switch sig {
		case syscall.SIGHUP:
			logger.Info("received SIGHUP, reloading configuration")
			if err := s.ReloadConfig(); err != nil {
				logger.Error("reload failed", "error", err)
			}
		default:
			logger.Info("shutting down", "signal", sig.String())
			if err := s.Stop(); err != nil {
				logger.Error("stop failed", "error", err)
			}
			return
		}
	}
}

func sceneOptions(o *options, logger smoothink.Logger) (*smoothink.Options, error) {
	opts := smoothink.DefaultOptions()
	opts.Logger = logger
	opts.ShowStats = o.stats
	opts.WatchConfig = o.watch
	opts.StrictValidation = o.strict
	opts.Metrics = smoothink.NewMetrics()

	var err error
	if opts.BrushColor, err = parseColorFlag("ink", o.ink); err != nil {
		return nil, err
	}
	if opts.Background, err = parseColorFlag("bg", o.background); err != nil {
		return nil, err
	}

	tracker := smoothink.NewErrorTracker(smoothink.DefaultErrorTrackerConfig())
	tracker.AddCondition(smoothink.AlertCondition{
		Category:    smoothink.ErrorCategoryRender,
		MinSeverity: smoothink.SeverityError,
		Threshold:   10,
		Window:      time.Minute,
	})
	tracker.SetAlertHandler(func(cond smoothink.AlertCondition, count int, recent []smoothink.CategorizedError) {
		logger.Error("repeated render errors", "count", count, "window", cond.Window.String())
	})
	opts.ErrorTracker = tracker
	return &opts, nil
}

func parseColorFlag(name, value string) (color.RGBA, error) {
	if value == "" {
		return color.RGBA{}, nil
	}
	c, err := config.ParseColor(value)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid -%s color %q: %w", name, value, err)
	}
	return c, nil
}

func newScene(o *options, opts *smoothink.Options, stderr io.Writer) (*smoothink.Scene, error) {
	if o.configPath == "" {
		if o.watch {
			fmt.Fprintln(stderr, "Warning: -watch has no effect without -c")
		}
		return smoothink.NewScene(nil, opts)
	}

	if _, err := os.Stat(o.configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", o.configPath)
		}
		return nil, fmt.Errorf("error accessing configuration file %s: %w", o.configPath, err)
	}
	return smoothink.New(o.configPath, opts)
}

// runConvert prints path converted to the other configuration format.
func runConvert(path string, stdout, stderr io.Writer) int {
	out, format, err := config.ConvertFile(path, config.WithComments(true))
	if err != nil {
		fmt.Fprintf(stderr, "Error converting configuration: %v\n", err)
		return 1
	}
	fmt.Fprintf(stderr, "converted %s to %s format\n", path, format)
	if _, err := stdout.Write(out); err != nil {
		return 1
	}
	return 0
}
