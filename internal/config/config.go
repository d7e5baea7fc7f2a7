// Package config loads tablegrid settings from TOML.
//
// A configuration file has three sections:
//
//	[grid]   layout, overflow, selection and scrolling behaviour
//	[theme]  colours as "#rrggbb" strings
//	[log]    level and optional file
//
// Missing files and missing keys fall back to Default. The file is parsed
// into a generic map first and then applied key by key, so type errors
// name the offending key. A Watcher reloads the file when it changes.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/selection"
	"github.com/dshills/tablegrid/internal/grid/style"
	"github.com/dshills/tablegrid/internal/grid/table"
)

// GridConfig is the [grid] section.
type GridConfig struct {
	Overflow            bool
	MaxOverflowCells    int
	RightToLeft         bool
	GridLines           bool
	HorizontalLineWidth int
	VerticalLineWidth   int
	DefaultRowHeight    int
	DefaultColumnWidth  int
	FrozenRows          int
	FrozenColumns       int
	SelectionPolicy     string
	SelectOnTraverse    bool
	AutoScrollInterval  time.Duration
	StretchLastColumn   bool
}

// ThemeConfig is the [theme] section. Empty strings keep the default
// colour.
type ThemeConfig struct {
	Background     string
	Foreground     string
	GridLine       string
	Header         string
	Selection      string
	CurrentCell    string
	Disabled       string
	SelectionBlend float64
}

// LogConfig is the [log] section.
type LogConfig struct {
	Level string
	File  string
}

// Config holds every setting.
type Config struct {
	Grid  GridConfig
	Theme ThemeConfig
	Log   LogConfig

	// Path is the file the configuration was loaded from, if any.
	Path string
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := table.DefaultOptions()
	return &Config{
		Grid: GridConfig{
			Overflow:            opts.Overflow,
			MaxOverflowCells:    opts.MaxOverflowCells,
			GridLines:           opts.GridLines,
			HorizontalLineWidth: opts.HorizontalLineWidth,
			VerticalLineWidth:   opts.VerticalLineWidth,
			DefaultRowHeight:    opts.DefaultRowHeight,
			DefaultColumnWidth:  opts.DefaultColumnWidth,
			SelectionPolicy:     opts.Policy.String(),
			AutoScrollInterval:  opts.AutoScrollInterval,
		},
		Theme: ThemeConfig{SelectionBlend: opts.Theme.SelectionBlend},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads the file at path. A missing file gives the default
// configuration. The result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.Path = path
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	cfg.Path = path
	return cfg, nil
}

// LoadFromReader reads a configuration from r.
func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse("<reader>", data)
}

// Parse decodes TOML data named source, applies it over the defaults and
// validates the result.
func Parse(source string, data []byte) (*Config, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return nil, pe
	}

	cfg := Default()
	if err := cfg.apply(raw); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply copies known keys from raw into c. Unknown sections and keys are
// ignored so newer files still load.
func (c *Config) apply(raw map[string]any) error {
	var errs []error
	if sec, err := section(raw, "grid"); err != nil {
		errs = append(errs, err)
	} else if sec != nil {
		errs = append(errs, c.applyGrid(sec)...)
	}
	if sec, err := section(raw, "theme"); err != nil {
		errs = append(errs, err)
	} else if sec != nil {
		errs = append(errs, c.applyTheme(sec)...)
	}
	if sec, err := section(raw, "log"); err != nil {
		errs = append(errs, err)
	} else if sec != nil {
		errs = append(errs,
			getString(sec, "log.level", "level", &c.Log.Level),
			getString(sec, "log.file", "file", &c.Log.File),
		)
	}
	return errors.Join(errs...)
}

func (c *Config) applyGrid(sec map[string]any) []error {
	g := &c.Grid
	errs := []error{
		getBool(sec, "grid.overflow", "overflow", &g.Overflow),
		getInt(sec, "grid.max_overflow_cells", "max_overflow_cells", &g.MaxOverflowCells),
		getBool(sec, "grid.right_to_left", "right_to_left", &g.RightToLeft),
		getBool(sec, "grid.grid_lines", "grid_lines", &g.GridLines),
		getInt(sec, "grid.horizontal_line_width", "horizontal_line_width", &g.HorizontalLineWidth),
		getInt(sec, "grid.vertical_line_width", "vertical_line_width", &g.VerticalLineWidth),
		getInt(sec, "grid.default_row_height", "default_row_height", &g.DefaultRowHeight),
		getInt(sec, "grid.default_column_width", "default_column_width", &g.DefaultColumnWidth),
		getInt(sec, "grid.frozen_rows", "frozen_rows", &g.FrozenRows),
		getInt(sec, "grid.frozen_columns", "frozen_columns", &g.FrozenColumns),
		getString(sec, "grid.selection_policy", "selection_policy", &g.SelectionPolicy),
		getBool(sec, "grid.select_on_traverse", "select_on_traverse", &g.SelectOnTraverse),
		getDuration(sec, "grid.autoscroll_interval", "autoscroll_interval", &g.AutoScrollInterval),
		getBool(sec, "grid.stretch_last_column", "stretch_last_column", &g.StretchLastColumn),
	}
	return errs
}

func (c *Config) applyTheme(sec map[string]any) []error {
	t := &c.Theme
	return []error{
		getString(sec, "theme.background", "background", &t.Background),
		getString(sec, "theme.foreground", "foreground", &t.Foreground),
		getString(sec, "theme.grid_line", "grid_line", &t.GridLine),
		getString(sec, "theme.header", "header", &t.Header),
		getString(sec, "theme.selection", "selection", &t.Selection),
		getString(sec, "theme.current_cell", "current_cell", &t.CurrentCell),
		getString(sec, "theme.disabled", "disabled", &t.Disabled),
		getFloat(sec, "theme.selection_blend", "selection_blend", &t.SelectionBlend),
	}
}

// TableOptions converts the configuration into grid options. The
// configuration must have passed Validate.
func (c *Config) TableOptions() table.Options {
	opts := table.DefaultOptions()
	g := c.Grid
	opts.Overflow = g.Overflow
	opts.MaxOverflowCells = g.MaxOverflowCells
	opts.GridLines = g.GridLines
	opts.HorizontalLineWidth = g.HorizontalLineWidth
	opts.VerticalLineWidth = g.VerticalLineWidth
	opts.DefaultRowHeight = g.DefaultRowHeight
	opts.DefaultColumnWidth = g.DefaultColumnWidth
	opts.FrozenRows = g.FrozenRows
	opts.FrozenColumns = g.FrozenColumns
	opts.SelectOnTraverse = g.SelectOnTraverse
	opts.AutoScrollInterval = g.AutoScrollInterval
	opts.StretchLastColumn = g.StretchLastColumn
	if g.RightToLeft {
		opts.Direction = core.RightToLeft
	}
	if p, ok := selection.ParsePolicy(g.SelectionPolicy); ok {
		opts.Policy = p
	}
	opts.Theme = c.StyleTheme()
	return opts
}

// StyleTheme returns the default theme with the configured colours
// applied. Colours that do not parse are skipped.
func (c *Config) StyleTheme() style.Theme {
	th := style.DefaultTheme()
	set := func(dst *core.Color, hex string) {
		if hex == "" {
			return
		}
		if col, err := core.ColorFromHex(hex); err == nil {
			*dst = col
		}
	}
	set(&th.Background, c.Theme.Background)
	set(&th.Foreground, c.Theme.Foreground)
	set(&th.GridLine, c.Theme.GridLine)
	set(&th.Header, c.Theme.Header)
	set(&th.Selection, c.Theme.Selection)
	set(&th.CurrentCell, c.Theme.CurrentCell)
	set(&th.Disabled, c.Theme.Disabled)
	th.SelectionBlend = c.Theme.SelectionBlend
	return th
}

func section(raw map[string]any, name string) (map[string]any, error) {
	v, ok := raw[name]
	if !ok {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeError(name, "table", v)
	}
	return m, nil
}

func getBool(sec map[string]any, path, key string, dst *bool) error {
	v, ok := sec[key]
	if !ok {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return typeError(path, "bool", v)
	}
	*dst = b
	return nil
}

func getInt(sec map[string]any, path, key string, dst *int) error {
	v, ok := sec[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case int64:
		*dst = int(n)
	case int:
		*dst = n
	default:
		return typeError(path, "integer", v)
	}
	return nil
}

func getFloat(sec map[string]any, path, key string, dst *float64) error {
	v, ok := sec[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		*dst = n
	case int64:
		*dst = float64(n)
	default:
		return typeError(path, "float", v)
	}
	return nil
}

func getString(sec map[string]any, path, key string, dst *string) error {
	v, ok := sec[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return typeError(path, "string", v)
	}
	*dst = s
	return nil
}

// getDuration accepts a duration string such as "150ms" or a number of
// milliseconds.
func getDuration(sec map[string]any, path, key string, dst *time.Duration) error {
	v, ok := sec[key]
	if !ok {
		return nil
	}
	switch d := v.(type) {
	case string:
		parsed, err := time.ParseDuration(d)
		if err != nil {
			return typeError(path, "duration", v)
		}
		*dst = parsed
	case int64:
		*dst = time.Duration(d) * time.Millisecond
	default:
		return typeError(path, "duration", v)
	}
	return nil
}
