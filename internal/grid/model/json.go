package model

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

// LoadJSON builds a table from a JSON document. Accepted shapes:
//
//	[[1, "a"], [2, "b"]]                       rows of values
//	[{"id": 1, "name": "a"}, ...]              objects; keys become a header row
//	{"columns": ["id", "name"], "rows": [...]} explicit header
//
// Object keys missing from a row read as nil. Keys are ordered by first
// appearance.
func LoadJSON(data []byte) (*Table, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)

	var rows gjson.Result
	var header []string
	keyIndex := make(map[string]int)

	switch {
	case root.IsArray():
		rows = root
	case root.IsObject():
		rows = root.Get("rows")
		for _, c := range root.Get("columns").Array() {
			keyIndex[c.String()] = len(header)
			header = append(header, c.String())
		}
	}
	if !rows.IsArray() {
		return nil, fmt.Errorf("%w: expected an array of rows", ErrInvalidJSON)
	}

	var out [][]any
	rows.ForEach(func(_, row gjson.Result) bool {
		switch {
		case row.IsArray():
			var rec []any
			row.ForEach(func(_, v gjson.Result) bool {
				rec = append(rec, jsonValue(v))
				return true
			})
			out = append(out, rec)
		case row.IsObject():
			rec := make([]any, len(header))
			row.ForEach(func(k, v gjson.Result) bool {
				idx, ok := keyIndex[k.String()]
				if !ok {
					idx = len(header)
					keyIndex[k.String()] = idx
					header = append(header, k.String())
				}
				for idx >= len(rec) {
					rec = append(rec, nil)
				}
				rec[idx] = jsonValue(v)
				return true
			})
			out = append(out, rec)
		default:
			out = append(out, []any{jsonValue(row)})
		}
		return true
	})

	if len(header) > 0 {
		head := make([]any, len(header))
		for i, h := range header {
			head[i] = h
		}
		out = append([][]any{head}, out...)
	}
	return NewTableFromRows(out), nil
}

func jsonValue(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.True, gjson.False:
		return v.Bool()
	case gjson.Number:
		f := v.Float()
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int(f)
		}
		return f
	case gjson.String:
		return v.String()
	default:
		return v.Raw
	}
}
