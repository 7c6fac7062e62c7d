package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/bspdungeon/internal/bsp"
	"github.com/lawnchairsociety/bspdungeon/internal/config"
	"github.com/lawnchairsociety/bspdungeon/internal/export"
	"github.com/lawnchairsociety/bspdungeon/internal/geom"
	"github.com/lawnchairsociety/bspdungeon/internal/logger"
	"github.com/lawnchairsociety/bspdungeon/internal/mapdump"
	"github.com/lawnchairsociety/bspdungeon/internal/server"
)

var ErrUnknownFormat = errors.New("unknown output format")

// createOutput opens the -out file for writing.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

type options struct {
	configPath  string
	loggingPath string
	width       int
	height      int
	minWidth    int
	minHeight   int
	seed        int64
	format      string
	out         string
	showMap     bool
	labels      bool
	serve       bool

	// set holds the names of flags given on the command line
	set map[string]bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("dungeongen", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "data/dungeon.yaml", "Path to generator config YAML file")
	fs.StringVar(&opts.loggingPath, "logging", "data/logging.yaml", "Path to logging config YAML file")
	fs.IntVar(&opts.width, "width", 0, "Width of the area to partition (overrides config)")
	fs.IntVar(&opts.height, "height", 0, "Height of the area to partition (overrides config)")
	fs.IntVar(&opts.minWidth, "min-width", 0, "Minimum room width; <= 0 disables splitting (overrides config)")
	fs.IntVar(&opts.minHeight, "min-height", 0, "Minimum room height; <= 0 disables splitting (overrides config)")
	fs.Int64Var(&opts.seed, "seed", 0, "Generation seed (default: random based on current time)")
	fs.StringVar(&opts.format, "format", "text", "Report format: text or yaml")
	fs.StringVar(&opts.out, "out", "", "Write the report to this file instead of stdout")
	fs.BoolVar(&opts.showMap, "map", false, "Draw the layout after the report")
	fs.BoolVar(&opts.labels, "labels", false, "Label rooms with their index on the map")
	fs.BoolVar(&opts.serve, "serve", false, "Run the replay server instead of generating once")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})

	if opts.format != "text" && opts.format != "yaml" {
		return nil, fmt.Errorf("%w %q (want text or yaml)", ErrUnknownFormat, opts.format)
	}
	return opts, nil
}

// applyOverrides copies explicitly set flags over the loaded configuration.
func applyOverrides(cfg *config.Config, opts *options) {
	gen := &cfg.Generation
	if opts.set["width"] {
		gen.Width = opts.width
	}
	if opts.set["height"] {
		gen.Height = opts.height
	}
	if opts.set["min-width"] {
		gen.MinWidth = opts.minWidth
	}
	if opts.set["min-height"] {
		gen.MinHeight = opts.minHeight
	}
	if opts.set["seed"] {
		gen.Seed = opts.seed
	}
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	logConfig, _ := logger.LoadConfig(opts.loggingPath)
	if err := logger.Initialize(logConfig); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", opts.configPath, err)
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if opts.serve {
		return serve(cfg)
	}

	seed := cfg.Generation.ResolveSeed()
	logger.Info("Seed selected", "seed", seed, "random", cfg.Generation.Seed == 0)

	bounds := geom.NewRect(0, 0, cfg.Generation.Width, cfg.Generation.Height)
	layout, err := bsp.Generate(bounds, cfg.Generation.MinWidth, cfg.Generation.MinHeight, bsp.NewRandomSource(seed))
	if err != nil {
		return err
	}

	result := layout.CheckConnectivity()
	logger.Info("Layout generated",
		"rooms", layout.RoomCount(),
		"edges", len(layout.Edges()),
		"connected", result.FullyConnected)
	if !result.FullyConnected {
		logger.Warning("Layout is not fully connected",
			"reached", len(result.VisitOrder),
			"unreached", result.Unreached(layout.RoomCount()))
	}

	report := export.NewReport(layout, result, seed)
	if err := writeReport(stdout, opts, report); err != nil {
		return err
	}

	if opts.showMap {
		mapOpts := mapdump.Options{Labels: opts.labels}
		if f, ok := stdout.(*os.File); ok && mapdump.IsTerminal(f) {
			mapOpts.Color = true
			if !mapdump.FitsTerminal(f, bounds.Width) {
				logger.Warning("Map is wider than the terminal", "width", bounds.Width)
			}
		}
		if _, err := io.WriteString(stdout, "\n"+mapdump.Render(layout, mapOpts)); err != nil {
			return fmt.Errorf("failed to write map: %w", err)
		}
	}

	return nil
}

func writeReport(stdout io.Writer, opts *options, report *export.Report) (err error) {
	w := stdout
	if opts.out != "" {
		f, ferr := createOutput(opts.out)
		if ferr != nil {
			return fmt.Errorf("failed to create output file: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		w = f
	}

	if opts.format == "yaml" {
		err = export.WriteYAML(w, report)
	} else {
		err = export.WriteText(w, report)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if opts.out != "" {
		logger.Info("Report written", "path", opts.out, "format", opts.format)
	}
	return nil
}

// serve runs the replay server until interrupted.
func serve(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting replay server",
		"address", cfg.Replay.Address,
		"frame_interval", cfg.Replay.FrameInterval().String())

	srv := server.NewReplayServer(cfg)
	return srv.Start(ctx)
}
