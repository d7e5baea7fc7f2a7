package model

import (
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/dshills/tablegrid/internal/grid/core"
)

// ExportJSON writes the cells of regions as
//
//	{"cells": [{"col": c, "row": r, "value": v}, ...], "count": n}
//
// Regions are clamped to the model bounds and cells covered by more than
// one region are written once, in row-major order per region.
func ExportJSON(m Model, regions []core.Region) ([]byte, error) {
	out := []byte(`{"cells":[]}`)
	seen := make(map[[2]int]bool)
	count := 0

	for _, r := range regions {
		r = r.Clamp(m.LastRow(), m.LastColumn())
		if !r.IsValid() {
			continue
		}
		for row := r.StartRow; row <= r.EndRow; row++ {
			for col := r.StartCol; col <= r.EndCol; col++ {
				k := [2]int{row, col}
				if seen[k] {
					continue
				}
				seen[k] = true

				var err error
				out, err = sjson.SetBytes(out, "cells.-1", map[string]any{
					"row":   row,
					"col":   col,
					"value": m.Item(row, col),
				})
				if err != nil {
					return nil, fmt.Errorf("exporting cell (%d,%d): %w", row, col, err)
				}
				count++
			}
		}
	}

	out, err := sjson.SetBytes(out, "count", count)
	if err != nil {
		return nil, fmt.Errorf("exporting count: %w", err)
	}
	return out, nil
}
