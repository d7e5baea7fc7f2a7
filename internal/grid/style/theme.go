package style

import "github.com/dshills/tablegrid/internal/grid/core"

// Layer is a style layer. Higher layers override lower ones.
type Layer uint8

const (
	// LayerBase is the grid default.
	LayerBase Layer = iota

	// LayerHeader applies to header grids.
	LayerHeader

	// LayerCell holds per-cell overrides.
	LayerCell

	// LayerSelection is the selection highlight.
	LayerSelection

	// LayerCurrent marks the current cell.
	LayerCurrent

	// LayerCount is the number of layers.
	LayerCount
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerBase:
		return "base"
	case LayerHeader:
		return "header"
	case LayerCell:
		return "cell"
	case LayerSelection:
		return "selection"
	case LayerCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// Theme holds the colours the renderer uses.
type Theme struct {
	Background  core.Color
	Foreground  core.Color
	GridLine    core.Color
	Header      core.Color
	Selection   core.Color
	CurrentCell core.Color
	Disabled    core.Color

	// SelectionBlend is how strongly the selection colour is mixed into a
	// cell's own background, from 0 to 1.
	SelectionBlend float64
}

// DefaultTheme returns a dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background:     core.ColorFromRGB(0x1E, 0x1E, 0x1E),
		Foreground:     core.ColorFromRGB(0xD4, 0xD4, 0xD4),
		GridLine:       core.ColorFromRGB(0x44, 0x44, 0x44),
		Header:         core.ColorFromRGB(0x2D, 0x2D, 0x30),
		Selection:      core.ColorFromRGB(0x26, 0x4F, 0x78),
		CurrentCell:    core.ColorFromRGB(0x0E, 0x63, 0x9C),
		Disabled:       core.ColorFromRGB(0x80, 0x80, 0x80),
		SelectionBlend: 0.75,
	}
}

// BaseStyle returns the grid's default cell style.
func (t Theme) BaseStyle() core.Style {
	return core.DefaultStyle().WithForeground(t.Foreground).WithBackground(t.Background)
}

// LineStyle returns the style used for grid lines.
func (t Theme) LineStyle() core.Style {
	return core.DefaultStyle().WithForeground(t.GridLine).WithBackground(t.Background)
}

// Resolve merges the layers of one cell, lowest first. Selection and
// current-cell layers blend their background into the layers beneath
// instead of replacing it, so a coloured cell stays distinguishable while
// selected.
func (t Theme) Resolve(layers [LayerCount]*core.Style) core.Style {
	out := t.BaseStyle()
	for l := LayerBase; l < LayerCount; l++ {
		st := layers[l]
		if st == nil {
			continue
		}
		switch l {
		case LayerSelection, LayerCurrent:
			bg := st.Background
			if !bg.IsDefault() {
				out.Background = out.Background.Blend(bg, t.SelectionBlend)
			}
			if !st.Foreground.IsDefault() {
				out.Foreground = st.Foreground
			}
			out.Attributes |= st.Attributes
		default:
			out = out.Merge(*st)
		}
	}
	return out
}
