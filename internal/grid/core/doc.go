// Package core provides the value types shared by the grid subsystem.
//
// Cell addresses and regions are in model coordinates (row/column
// indices). Rects are in pixel coordinates; the terminal front end maps one
// pixel to one terminal cell. Drawing primitives (Color, Style, Cell) are
// what the renderer writes into its off-screen canvas.
//
// This package has no dependencies on other grid packages so that it can
// break import cycles between layout, render and selection.
package core
