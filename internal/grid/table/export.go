package table

import (
	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/model"
)

// SelectedRegions returns the selected cells as row runs: one region per
// row segment of consecutive selected cells, in selection order. Cells
// removed by a later deselection are left out.
func (g *Grid) SelectedRegions() []core.Region {
	var out []core.Region
	for _, s := range g.sel.List() {
		if !s.Selected {
			continue
		}
		r := s.Region().Clamp(g.lastRow(), g.lastColumn())
		if !r.IsValid() {
			continue
		}
		for row := r.StartRow; row <= r.EndRow; row++ {
			start := -1
			for col := r.StartCol; col <= r.EndCol+1; col++ {
				in := col <= r.EndCol && g.sel.IsCellSelected(row, col)
				switch {
				case in && start < 0:
					start = col
				case !in && start >= 0:
					out = append(out, core.Region{StartRow: row, StartCol: start, EndRow: row, EndCol: col - 1})
					start = -1
				}
			}
		}
	}
	return out
}

// ExportSelection returns the selected cells as JSON.
func (g *Grid) ExportSelection() ([]byte, error) {
	return model.ExportJSON(g.data, g.SelectedRegions())
}
