// Package main is the entry point for the tablegrid viewer.
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

	"golang.org/x/term"

	"github.com/dshills/tablegrid/internal/app"
	"github.com/dshills/tablegrid/internal/backend"
	"github.com/dshills/tablegrid/internal/config"
	"github.com/dshills/tablegrid/internal/grid/table"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	dataPath   string
	sheet      string
	query      string
	rows, cols int
	logLevel   string
	rtl        bool
	dump       bool
	width      int
	height     int
	exportPath string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Default()
	var err error
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	}
	if err == nil {
		err = cfg.ApplyEnv(config.EnvPrefix, os.Environ())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.rtl {
		cfg.Grid.RightToLeft = true
	}

	interactive := !opts.dump && term.IsTerminal(int(os.Stdout.Fd()))

	logger, closeLog, err := newLogger(cfg, interactive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	ds, err := loadData(ctx, opts.dataPath, opts.sheet, opts.query, opts.rows, opts.cols)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer ds.Close()

	grid := table.New(ds.model, cfg.TableOptions())
	defer grid.Close()
	grid.SetLogger(logger.WithComponent("grid"))
	ds.apply(grid, logger)
	logger.WithField("source", ds.name).Info("loaded %d rows, %d columns",
		ds.model.LastRow()+1, ds.model.LastColumn()+1)

	if !interactive {
		return dump(grid, opts)
	}
	return runInteractive(ctx, grid, cfg, logger, opts)
}

// dump paints one frame into memory and prints it.
func dump(grid *table.Grid, opts options) int {
	w, h := opts.width, opts.height
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if w <= 0 {
			w = tw
		}
		if h <= 0 {
			h = th
		}
	}
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}

	b := backend.NewNullBackend(w, h)
	grid.Resize(w, h)
	grid.Paint(b)
	fmt.Println(b.String())
	return 0
}

func runInteractive(ctx context.Context, grid *table.Grid, cfg *config.Config, logger *app.Logger, opts options) int {
	tty, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	appOpts := app.Options{
		Backend: tty,
		Grid:    grid,
		Config:  cfg,
		Environ: os.Environ(),
		Logger:  logger,
	}

	if opts.configPath != "" {
		w, err := config.NewWatcher(opts.configPath)
		if err != nil {
			logger.Warn("config watcher disabled: %v", err)
		} else {
			defer w.Close()
			appOpts.Watcher = w
		}
	}

	if opts.exportPath != "" {
		f, err := os.OpenFile(opts.exportPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		appOpts.Export = f
	}

	application, err := app.New(appOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	if err := application.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// newLogger logs to the configured file, or to stderr when no terminal UI
// owns the screen.
func newLogger(cfg *config.Config, interactive bool) (*app.Logger, func(), error) {
	lc := app.DefaultLoggerConfig()
	lc.Level = app.ParseLogLevel(cfg.Log.Level)
	closeFn := func() {}

	switch {
	case cfg.Log.File != "":
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		lc.Output = f
		closeFn = func() { _ = f.Close() }
	case interactive:
		lc.Output = io.Discard
	}
	return app.NewLogger(lc), closeFn, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.dataPath, "data", "", "Data file (.json, .xlsx, .db, .lua)")
	flag.StringVar(&opts.sheet, "sheet", "", "Worksheet name for xlsx data")
	flag.StringVar(&opts.query, "query", "", "SQL query for SQLite data")
	flag.IntVar(&opts.rows, "rows", 1000, "Rows of the synthetic table when no data file is given")
	flag.IntVar(&opts.cols, "cols", 26, "Columns of the synthetic table when no data file is given")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.rtl, "rtl", false, "Lay columns out right to left")
	flag.BoolVar(&opts.dump, "dump", false, "Print one frame to stdout instead of starting the UI")
	flag.IntVar(&opts.width, "width", 0, "Frame width for -dump")
	flag.IntVar(&opts.height, "height", 0, "Frame height for -dump")
	flag.StringVar(&opts.exportPath, "export", "", "Append the selection as JSON to this file when 'y' is pressed")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tablegrid - virtualized table viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tablegrid [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: arrows, Tab, PgUp/PgDn, Home/End (Ctrl for table ends),\n")
		fmt.Fprintf(os.Stderr, "Shift extends, Space toggles, Ctrl-A selects all, y exports, q quits.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tablegrid -rows 100000 -cols 50\n")
		fmt.Fprintf(os.Stderr, "  tablegrid -data book.xlsx -sheet Summary\n")
		fmt.Fprintf(os.Stderr, "  tablegrid -data app.db -query 'select * from users'\n")
		fmt.Fprintf(os.Stderr, "  tablegrid -data table.json -dump -width 120\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("tablegrid %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}
	if opts.rows < 0 || opts.cols < 0 {
		fmt.Fprintln(os.Stderr, "Error: -rows and -cols must not be negative")
		os.Exit(1)
	}

	return opts
}
