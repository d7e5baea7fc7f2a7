// Package app runs an interactive table grid on a terminal backend. It
// wires the grid, the configuration watcher and the logger together and
// owns the event loop.
package app

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"
	"sync/atomic"

	"github.com/dshills/tablegrid/internal/backend"
	"github.com/dshills/tablegrid/internal/config"
	"github.com/dshills/tablegrid/internal/grid/model"
	"github.com/dshills/tablegrid/internal/grid/table"
)

// Application is the central coordinator: it feeds backend events to the
// grid, applies auto-scroll ticks and configuration reloads, and paints.
// Everything that touches the grid runs on the goroutine calling Run.
type Application struct {
	backend backend.Backend
	grid    *table.Grid
	config  *config.Config
	watcher *config.Watcher
	logger  *Logger
	metrics *Metrics
	export  io.Writer
	environ []string

	running atomic.Bool
}

// Options configures the application.
type Options struct {
	// Backend is the display. Required.
	Backend backend.Backend

	// Grid is the table to show. Required.
	Grid *table.Grid

	// Config is the configuration the grid was built from.
	Config *config.Config

	// Watcher, when set, delivers configuration reloads.
	Watcher *config.Watcher

	// Environ is re-applied over each reloaded configuration, in the form
	// returned by os.Environ.
	Environ []string

	// Export receives the selection as one JSON line when the user
	// presses "y". Nil disables export.
	Export io.Writer

	// Logger defaults to NullLogger.
	Logger *Logger
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Backend == nil {
		return nil, ErrNoBackend
	}
	if opts.Grid == nil {
		return nil, ErrNoGrid
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = NullLogger
	}

	app := &Application{
		backend: opts.Backend,
		grid:    opts.Grid,
		config:  opts.Config,
		watcher: opts.Watcher,
		logger:  opts.Logger,
		metrics: NewMetrics(),
		export:  opts.Export,
		environ: opts.Environ,
	}
	app.grid.SetLogger(app.logger.WithComponent("grid"))
	return app, nil
}

// Config returns the configuration in effect.
func (app *Application) Config() *config.Config { return app.config }

// Grid returns the grid being shown.
func (app *Application) Grid() *table.Grid { return app.grid }

// Run initializes the backend and processes events until the user quits,
// the backend closes or ctx is done. Quitting returns nil; cancellation
// returns ctx.Err().
func (app *Application) Run(ctx context.Context) (err error) {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return NewComponentError("backend", "init", err)
	}
	defer app.backend.Shutdown()

	defer func() {
		if r := recover(); r != nil {
			err = NewRecoveredPanicError(r, string(debug.Stack()))
		}
	}()

	app.backend.EnableMouse()
	app.grid.Resize(app.backend.Size())
	app.logger.Debug("event loop started")

	done := make(chan struct{})
	defer close(done)
	events := app.pollEvents(done)

	var changes <-chan *config.Config
	var watchErrs <-chan error
	if app.watcher != nil {
		changes = app.watcher.Changes()
		watchErrs = app.watcher.Errors()
	}
	ticks := app.grid.AutoScroller().Ticks()

	app.paint()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleEvent(ev); err != nil {
				if err == ErrQuit {
					app.logger.Debug("quit requested")
					return nil
				}
				return err
			}

		case step := <-ticks:
			app.metrics.RecordAutoScroll()
			app.grid.AutoScrollTick(step)

		case cfg := <-changes:
			app.applyConfig(cfg)

		case err := <-watchErrs:
			app.logger.Warn("config reload failed: %v", err)
		}
		app.paint()
	}
}

// pollEvents forwards backend events to a channel until the backend
// closes or done is closed.
func (app *Application) pollEvents(done <-chan struct{}) <-chan backend.Event {
	events := make(chan backend.Event)
	go func() {
		defer close(events)
		for {
			ev := app.backend.PollEvent()
			if ev.Type == backend.EventClosed {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

// handleEvent routes one backend event. It returns ErrQuit when the user
// asked to leave.
func (app *Application) handleEvent(ev backend.Event) error {
	t := StartTimer()

	if ev.Type == backend.EventKey {
		switch {
		case ev.Key == backend.KeyEscape, ev.Key == backend.KeyCtrlQ, ev.Key == backend.KeyCtrlC:
			return ErrQuit
		case ev.Key == backend.KeyRune && ev.Rune == 'q':
			return ErrQuit
		case ev.Key == backend.KeyRune && ev.Rune == 'y':
			app.exportSelection()
			app.metrics.RecordEvent(t.Elapsed(), true)
			return nil
		case ev.Key == backend.KeyRune && (ev.Rune == 's' || ev.Rune == 'S'):
			app.sortByCurrentColumn(ev.Rune == 'S')
			app.metrics.RecordEvent(t.Elapsed(), true)
			return nil
		case ev.Key == backend.KeyRune && ev.Rune == 'o':
			app.grid.ResetOrder()
			app.metrics.RecordEvent(t.Elapsed(), true)
			return nil
		case ev.Key == backend.KeyCtrlL:
			app.backend.Clear()
			app.grid.RedrawAll()
			app.metrics.RecordEvent(t.Elapsed(), true)
			return nil
		}
	}
	if ev.Type == backend.EventInterrupt {
		return nil
	}

	consumed := app.grid.HandleEvent(ev)
	app.metrics.RecordEvent(t.Elapsed(), consumed)
	return nil
}

// paint draws whatever the grid has invalidated and flushes it.
func (app *Application) paint() {
	if !app.grid.NeedsPaint() {
		app.metrics.RecordEmptyFrame()
		return
	}
	t := StartTimer()
	painted := app.grid.Paint(app.backend)
	if !painted.IsValid() {
		app.metrics.RecordEmptyFrame()
		return
	}
	app.backend.Show()
	app.metrics.RecordFrame(t.Elapsed())
}

// applyConfig switches to a reloaded configuration.
func (app *Application) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if len(app.environ) > 0 {
		if err := cfg.ApplyEnv(config.EnvPrefix, app.environ); err != nil {
			app.logger.Warn("config reload rejected: %v", err)
			return
		}
	}
	app.config = cfg
	app.logger.SetLevel(ParseLogLevel(cfg.Log.Level))
	app.grid.SetLogger(app.logger.WithComponent("grid"))
	app.grid.Apply(cfg.TableOptions())
	app.metrics.RecordReload()
	app.logger.Info("configuration reloaded from %s", cfg.Path)
}

// sortByCurrentColumn sorts the rows by the current cell's column, or
// by the first column when there is no current cell.
func (app *Application) sortByCurrentColumn(descending bool) {
	col := 0
	if cur := app.grid.CurrentCell(); cur.IsValid() {
		col = cur.Col
	}
	order := model.Ascending
	if descending {
		order = model.Descending
	}
	app.logger.Debug("sorting rows by column %d %s", col, order)
	app.grid.SortRows(col, order)
}

// exportSelection writes the selection to the export writer.
func (app *Application) exportSelection() {
	if app.export == nil {
		return
	}
	data, err := app.grid.ExportSelection()
	if err == nil {
		_, err = fmt.Fprintf(app.export, "%s\n", data)
	}
	if err != nil {
		app.logger.Warn("%v", NewComponentError("export", "write selection", err))
		return
	}
	app.logger.Debug("exported %d bytes", len(data))
}
