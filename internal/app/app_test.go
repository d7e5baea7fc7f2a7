package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dshills/tablegrid/internal/backend"
	"github.com/dshills/tablegrid/internal/config"
	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/model"
	"github.com/dshills/tablegrid/internal/grid/table"
)

func newTestApp(t *testing.T, export *bytes.Buffer) (*Application, *backend.NullBackend) {
	t.Helper()
	tbl := model.NewTableFromRows([][]any{
		{"a", "b", "c"},
		{"d", "e", "f"},
		{"g", "h", "i"},
	})
	opts := table.DefaultOptions()
	opts.DefaultColumnWidth = 4
	g := table.New(tbl, opts)
	t.Cleanup(g.Close)

	b := backend.NewNullBackend(16, 7)
	o := Options{Backend: b, Grid: g}
	if export != nil {
		o.Export = export
	}
	app, err := New(o)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return app, b
}

func keyEvent(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k}
}

func runeEvent(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func runApp(t *testing.T, app *Application) error {
	t.Helper()
	errCh := make(chan error, 1)
	go func() { errCh <- app.Run(context.Background()) }()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	return nil
}

func TestNewRequiresBackendAndGrid(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrNoBackend) {
		t.Errorf("New() without backend = %v, want ErrNoBackend", err)
	}
	if _, err := New(Options{Backend: backend.NewNullBackend(1, 1)}); !errors.Is(err, ErrNoGrid) {
		t.Errorf("New() without grid = %v, want ErrNoGrid", err)
	}
}

func TestRunPaintsAndQuits(t *testing.T) {
	app, b := newTestApp(t, nil)
	b.PostEvent(keyEvent(backend.KeyDown))
	b.PostEvent(keyEvent(backend.KeyDown))
	b.PostEvent(runeEvent('q'))

	if err := runApp(t, app); err != nil {
		t.Fatalf("Run() = %v, want nil", err)
	}

	if got, want := app.Grid().CurrentCell(), (core.CellAddress{Row: 1, Col: 0}); got != want {
		t.Errorf("CurrentCell() = %v, want %v", got, want)
	}
	if b.Shows() == 0 {
		t.Error("backend was never shown")
	}
	if got := b.Line(1); !strings.HasPrefix(got, "│a   │b") {
		t.Errorf("line 1 = %q, want first row", got)
	}
	if !b.MouseEnabled() {
		t.Error("mouse reporting not enabled")
	}

	s := app.Metrics().Snapshot()
	if s.EventCount != 2 {
		t.Errorf("EventCount = %d, want 2", s.EventCount)
	}
	if s.FrameCount == 0 {
		t.Error("FrameCount = 0, want painted frames")
	}
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   backend.Event
	}{
		{"escape", keyEvent(backend.KeyEscape)},
		{"ctrl-q", keyEvent(backend.KeyCtrlQ)},
		{"ctrl-c", keyEvent(backend.KeyCtrlC)},
		{"q", runeEvent('q')},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t, nil)
			if err := app.handleEvent(tt.ev); !errors.Is(err, ErrQuit) {
				t.Errorf("handleEvent() = %v, want ErrQuit", err)
			}
		})
	}
}

func TestRunStopsWhenBackendCloses(t *testing.T) {
	app, b := newTestApp(t, nil)
	b.PostEvent(keyEvent(backend.KeyRight))
	b.Shutdown()

	if err := runApp(t, app); err != nil {
		t.Errorf("Run() = %v, want nil", err)
	}
}

func TestRunHonoursContext(t *testing.T) {
	app, _ := newTestApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := app.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestRunRejectsSecondRun(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app.running.Store(true)
	if err := app.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Run() = %v, want ErrAlreadyRunning", err)
	}
}

func TestExportSelection(t *testing.T) {
	var out bytes.Buffer
	app, b := newTestApp(t, &out)
	b.PostEvent(keyEvent(backend.KeyCtrlA))
	b.PostEvent(runeEvent('y'))
	b.PostEvent(runeEvent('q'))

	if err := runApp(t, app); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	line := out.String()
	if !strings.HasSuffix(line, "\n") {
		t.Errorf("export %q is not newline terminated", line)
	}
	if !strings.Contains(line, `"count":9`) {
		t.Errorf("export = %s, want 9 cells", line)
	}
}

func TestSortKeys(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app.Grid().Navigator().TraverseToCell(0, 1, false)

	if err := app.handleEvent(runeEvent('S')); err != nil {
		t.Fatalf("handleEvent(S) = %v", err)
	}
	for r, want := range []string{"h", "e", "b"} {
		if got := app.Grid().Ordering().Item(r, 1); got != want {
			t.Errorf("after S: Item(%d,1) = %v, want %v", r, got, want)
		}
	}
	if got, want := app.Grid().CurrentCell(), (core.CellAddress{Row: 2, Col: 1}); got != want {
		t.Errorf("CurrentCell() = %v, want %v", got, want)
	}

	if err := app.handleEvent(runeEvent('o')); err != nil {
		t.Fatalf("handleEvent(o) = %v", err)
	}
	if got := app.Grid().Ordering().Item(0, 1); got != "b" {
		t.Errorf("after o: Item(0,1) = %v, want b", got)
	}
}

func TestApplyConfig(t *testing.T) {
	app, _ := newTestApp(t, nil)
	cfg := config.Default()
	cfg.Grid.FrozenRows = 1
	cfg.Grid.SelectionPolicy = "single"
	cfg.Path = "reloaded.toml"

	app.applyConfig(cfg)

	if app.Config() != cfg {
		t.Error("Config() did not switch to the reloaded configuration")
	}
	if got := app.Grid().Options().FrozenRows; got != 1 {
		t.Errorf("FrozenRows = %d, want 1", got)
	}
	if got := app.Metrics().Snapshot().ConfigReloads; got != 1 {
		t.Errorf("ConfigReloads = %d, want 1", got)
	}
	if !app.Grid().NeedsPaint() {
		t.Error("grid not invalidated after reload")
	}
}

func TestApplyConfigRejectsBadEnvironment(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app.environ = []string{"TABLEGRID_GRID_FROZEN_ROWS=lots"}
	before := app.Config()

	app.applyConfig(config.Default())

	if app.Config() != before {
		t.Error("configuration switched despite a bad environment override")
	}
}
