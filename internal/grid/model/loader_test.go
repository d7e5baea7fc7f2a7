package model

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"

	"github.com/dshills/tablegrid/internal/grid/core"
)

func TestLoadJSON(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		rows    int
		cols    int
		checks  map[[2]int]any
		wantErr bool
	}{
		{
			name:   "array of arrays",
			doc:    `[[1, "a", true], [2.5, null]]`,
			rows:   2,
			cols:   3,
			checks: map[[2]int]any{{0, 0}: 1, {0, 1}: "a", {0, 2}: true, {1, 0}: 2.5, {1, 1}: nil},
		},
		{
			name:   "array of objects",
			doc:    `[{"id": 1, "name": "x"}, {"name": "y", "extra": 3}]`,
			rows:   3,
			cols:   3,
			checks: map[[2]int]any{{0, 0}: "id", {0, 2}: "extra", {1, 1}: "x", {2, 0}: nil, {2, 1}: "y", {2, 2}: 3},
		},
		{
			name:   "columns and rows",
			doc:    `{"columns": ["a", "b"], "rows": [[1, 2], {"b": 4}]}`,
			rows:   3,
			cols:   2,
			checks: map[[2]int]any{{0, 1}: "b", {1, 0}: 1, {2, 1}: 4},
		},
		{name: "malformed", doc: `[[1,`, wantErr: true},
		{name: "wrong shape", doc: `{"rows": 3}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := LoadJSON([]byte(tt.doc))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidJSON) {
					t.Fatalf("err = %v, want ErrInvalidJSON", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadJSON: %v", err)
			}
			if tbl.NumRows() != tt.rows || tbl.NumColumns() != tt.cols {
				t.Errorf("size = %dx%d, want %dx%d", tbl.NumRows(), tbl.NumColumns(), tt.rows, tt.cols)
			}
			for k, want := range tt.checks {
				if got := tbl.Item(k[0], k[1]); got != want {
					t.Errorf("Item(%d,%d) = %v, want %v", k[0], k[1], got, want)
				}
			}
		})
	}
}

func TestExportJSON(t *testing.T) {
	tbl := NewTableFromRows([][]any{{"a", "b", "c"}, {1, 2, 3}})
	out, err := ExportJSON(tbl, []core.Region{
		core.NewRegion(0, 0, 1, 0),
		core.NewRegion(1, 0, 1, 1), // (1,0) already exported
		core.EntireRows(5, 6),      // outside the model
	})
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	doc := gjson.ParseBytes(out)
	if got := doc.Get("count").Int(); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
	cells := doc.Get("cells").Array()
	if len(cells) != 3 {
		t.Fatalf("cells = %d, want 3", len(cells))
	}
	if cells[0].Get("value").String() != "a" || cells[2].Get("col").Int() != 1 {
		t.Errorf("unexpected cells: %s", out)
	}
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	if err := f.SetCellValue(sheet, "A1", "Title"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sheet, "A2", 42); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sheet, "C2", "x"); err != nil {
		t.Fatal(err)
	}
	if err := f.MergeCell(sheet, "A1", "C1"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 24); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	got, err := LoadXLSX(path, "")
	if err != nil {
		t.Fatalf("LoadXLSX: %v", err)
	}
	if got.Name != sheet {
		t.Errorf("Name = %q, want %q", got.Name, sheet)
	}
	if v := got.Table.Item(0, 0); v != "Title" {
		t.Errorf("Item(0,0) = %v, want Title", v)
	}
	if v := got.Table.Item(1, 0); v != 42 {
		t.Errorf("Item(1,0) = %v, want 42", v)
	}
	if len(got.Spans) != 1 || got.Spans[0] != core.NewRegion(0, 0, 0, 2) {
		t.Errorf("Spans = %v, want [(0,0)-(0,2)]", got.Spans)
	}
	if w := got.ColumnWidths[1]; w != 24 {
		t.Errorf("ColumnWidths[1] = %d, want 24", w)
	}

	if _, err := LoadXLSX(path, "Missing"); !errors.Is(err, ErrNoSheet) {
		t.Errorf("missing sheet err = %v, want ErrNoSheet", err)
	}
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	stmts := []string{
		`CREATE TABLE items (id INTEGER, name TEXT, price REAL)`,
		`INSERT INTO items VALUES (1, 'bolt', 0.25), (2, 'nut', 0.1)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatal(err)
		}
	}
	_ = db.Close()

	tbl, err := LoadSQLite(context.Background(), path, "SELECT id, name, price FROM items ORDER BY id")
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	if tbl.NumRows() != 3 || tbl.NumColumns() != 3 {
		t.Fatalf("size = %dx%d, want 3x3", tbl.NumRows(), tbl.NumColumns())
	}
	if tbl.Item(0, 1) != "name" || tbl.Item(1, 0) != 1 || tbl.Item(2, 1) != "nut" {
		t.Errorf("unexpected rows: %v %v %v", tbl.Item(0, 1), tbl.Item(1, 0), tbl.Item(2, 1))
	}

	if _, err := LoadSQLite(context.Background(), path, "  "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("empty query err = %v", err)
	}
}

func TestScriptModel(t *testing.T) {
	m, err := NewScriptModel(`
rows = 5
cols = 3
function cell(row, col)
  if col == 2 then return "r" .. row end
  if row == 4 and col == 1 then error("boom") end
  return row * 10 + col + 0.5 * (col % 2)
end
`)
	if err != nil {
		t.Fatalf("NewScriptModel: %v", err)
	}
	defer m.Close()

	if m.LastRow() != 4 || m.LastColumn() != 2 {
		t.Errorf("bounds = %d,%d", m.LastRow(), m.LastColumn())
	}
	tests := []struct {
		row, col int
		want     any
	}{
		{1, 0, 10},
		{1, 1, 11.5},
		{3, 2, "r3"},
		{9, 0, nil},
	}
	for _, tt := range tests {
		if got := m.Item(tt.row, tt.col); got != tt.want {
			t.Errorf("Item(%d,%d) = %v, want %v", tt.row, tt.col, got, tt.want)
		}
	}
	if m.Err() != nil {
		t.Errorf("unexpected Err: %v", m.Err())
	}
	if got := m.Item(4, 1); got != "#ERR" {
		t.Errorf("failing cell = %v, want #ERR", got)
	}
	if m.Err() == nil {
		t.Error("Err should report the failing call")
	}
}

func TestScriptModelTimeout(t *testing.T) {
	m, err := NewScriptModel(`
rows = 2
cols = 2
function cell(row, col)
  if row == 1 then while true do end end
  return row + col
end
`, WithExecutionTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewScriptModel: %v", err)
	}
	defer m.Close()

	if got := m.Item(1, 0); got != "#ERR" {
		t.Errorf("looping cell = %v, want #ERR", got)
	}
	if !errors.Is(m.Err(), ErrExecutionTimeout) {
		t.Errorf("Err() = %v, want ErrExecutionTimeout", m.Err())
	}
	if got := m.Item(0, 1); got != 1 {
		t.Errorf("Item(0,1) after a timeout = %v, want 1", got)
	}

	_, err = NewScriptModel("while true do end", WithExecutionTimeout(20*time.Millisecond))
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("looping script body err = %v, want ErrExecutionTimeout", err)
	}
}

func TestScriptModelInvalid(t *testing.T) {
	tests := []string{
		`rows = `,
		`rows = 1`,
		`rows = 1 cols = 2 cell = 3`,
	}
	for _, src := range tests {
		if _, err := NewScriptModel(src); !errors.Is(err, ErrInvalidScript) {
			t.Errorf("NewScriptModel(%q) err = %v, want ErrInvalidScript", src, err)
		}
	}
}
