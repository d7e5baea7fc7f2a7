package config

import (
	"errors"
	"strings"
	"time"

	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/selection"
)

// Limits on numeric settings.
const (
	MaxLineWidth          = 4
	MaxOverflowCells      = 1000
	MinAutoScrollInterval = 10 * time.Millisecond
)

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks every setting and returns the failures joined, or nil.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, v any, code ValidationErrorCode) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v, Code: code})
	}
	between := func(path string, v, lo, hi int) {
		if v < lo || v > hi {
			add(path, "out of range", v, ErrCodeOutOfRange)
		}
	}

	g := c.Grid
	between("grid.max_overflow_cells", g.MaxOverflowCells, 0, MaxOverflowCells)
	between("grid.horizontal_line_width", g.HorizontalLineWidth, 0, MaxLineWidth)
	between("grid.vertical_line_width", g.VerticalLineWidth, 0, MaxLineWidth)
	if g.DefaultRowHeight < 1 {
		add("grid.default_row_height", "must be positive", g.DefaultRowHeight, ErrCodeOutOfRange)
	}
	if g.DefaultColumnWidth < 1 {
		add("grid.default_column_width", "must be positive", g.DefaultColumnWidth, ErrCodeOutOfRange)
	}
	if g.FrozenRows < 0 {
		add("grid.frozen_rows", "must not be negative", g.FrozenRows, ErrCodeOutOfRange)
	}
	if g.FrozenColumns < 0 {
		add("grid.frozen_columns", "must not be negative", g.FrozenColumns, ErrCodeOutOfRange)
	}
	if _, ok := selection.ParsePolicy(g.SelectionPolicy); !ok {
		add("grid.selection_policy", "unknown policy", g.SelectionPolicy, ErrCodeInvalidEnum)
	}
	if g.AutoScrollInterval < MinAutoScrollInterval {
		add("grid.autoscroll_interval", "too short", g.AutoScrollInterval, ErrCodeOutOfRange)
	}

	t := c.Theme
	for _, kv := range []struct{ path, v string }{
		{"theme.background", t.Background},
		{"theme.foreground", t.Foreground},
		{"theme.grid_line", t.GridLine},
		{"theme.header", t.Header},
		{"theme.selection", t.Selection},
		{"theme.current_cell", t.CurrentCell},
		{"theme.disabled", t.Disabled},
	} {
		if kv.v == "" {
			continue
		}
		if _, err := core.ColorFromHex(kv.v); err != nil {
			add(kv.path, "not a hex colour", kv.v, ErrCodePatternMismatch)
		}
	}
	if t.SelectionBlend < 0 || t.SelectionBlend > 1 {
		add("theme.selection_blend", "must be between 0 and 1", t.SelectionBlend, ErrCodeOutOfRange)
	}

	level := strings.ToLower(c.Log.Level)
	valid := false
	for _, l := range logLevels {
		if level == l {
			valid = true
			break
		}
	}
	if !valid {
		add("log.level", "unknown level", c.Log.Level, ErrCodeInvalidEnum)
	}

	return errors.Join(errs...)
}
