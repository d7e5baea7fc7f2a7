package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/tablegrid/internal/grid/core"
	"github.com/dshills/tablegrid/internal/grid/model"
	"github.com/dshills/tablegrid/internal/grid/table"
)

// dataSource is a loaded model plus the layout hints its file carried.
type dataSource struct {
	name   string
	model  model.Model
	spans  []core.Region
	widths map[int]int
	close  func()
}

// loadData opens path by extension. An empty path gives a synthetic
// rows x cols table whose cells name their address.
func loadData(ctx context.Context, path, sheet, query string, rows, cols int) (*dataSource, error) {
	if path == "" {
		return &dataSource{
			name: fmt.Sprintf("%dx%d", rows, cols),
			model: model.Sized{Rows: rows, Cols: cols, Func: func(row, col int) any {
				return fmt.Sprintf("R%dC%d", row+1, col+1)
			}},
		}, nil
	}

	ds := &dataSource{name: filepath.Base(path)}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		tbl, err := model.LoadJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		ds.model = tbl

	case ".xlsx", ".xlsm":
		s, err := model.LoadXLSX(path, sheet)
		if err != nil {
			return nil, err
		}
		ds.name += ":" + s.Name
		ds.model = s.Table
		ds.spans = s.Spans
		ds.widths = s.ColumnWidths

	case ".db", ".sqlite", ".sqlite3":
		tbl, err := model.LoadSQLite(ctx, path, query)
		if err != nil {
			return nil, err
		}
		ds.model = tbl

	case ".lua":
		sm, err := model.LoadScript(path)
		if err != nil {
			return nil, err
		}
		ds.model = sm
		ds.close = sm.Close

	default:
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, ext)
	}
	return ds, nil
}

// apply copies the source's merged cells and column widths onto g.
func (ds *dataSource) apply(g *table.Grid, log interface{ Debug(string, ...any) }) {
	for col, w := range ds.widths {
		g.Dimensions().SetColumnWidth(col, w)
	}
	for _, r := range ds.spans {
		if !g.Spans().Add(r) {
			log.Debug("span %v rejected", r)
		}
	}
}

func (ds *dataSource) Close() {
	if ds.close != nil {
		ds.close()
	}
}
