package game

import "github.com/mosaicmind/mosaic/tiles"

const (
	// WallDim is the side length of the scoring wall.
	WallDim = 5
	// NumPatternLines is the number of staging rows per player.
	NumPatternLines = 5
	// FloorCapacity is the number of penalty slots on the floor line.
	FloorCapacity = 7
)

// floorPenalties[i] is the penalty for the i-th occupied floor slot.
var floorPenalties = [FloorCapacity]int{1, 1, 2, 2, 2, 3, 3}

// WallColorAt returns the canonical color of the wall cell at (row,
// col): the top row runs through the colors in order, and each
// following row is shifted one cell to the right.
func WallColorAt(row, col int) tiles.Color {
	return tiles.Color((col - row + WallDim) % WallDim)
}

// WallColumnFor returns the column where the given color sits in the
// given wall row.
func WallColumnFor(row int, c tiles.Color) int {
	return (row + int(c)) % WallDim
}

// PatternLine is a staging row. Line i holds at most i+1 tiles, all of
// one color.
type PatternLine struct {
	Color tiles.Color `json:"color"`
	Count uint8       `json:"count"`
}

// WallGrid is the 5x5 scoring wall; a cell is true once tiled.
type WallGrid [WallDim][WallDim]bool

// RowHasColor reports whether the given color is already tiled in the
// given row.
func (w *WallGrid) RowHasColor(row int, c tiles.Color) bool {
	return w[row][WallColumnFor(row, c)]
}

// RowCount returns the number of tiled cells in a row.
func (w *WallGrid) RowCount(row int) int {
	n := 0
	for col := 0; col < WallDim; col++ {
		if w[row][col] {
			n++
		}
	}
	return n
}

// ColCount returns the number of tiled cells in a column.
func (w *WallGrid) ColCount(col int) int {
	n := 0
	for row := 0; row < WallDim; row++ {
		if w[row][col] {
			n++
		}
	}
	return n
}

// ColorCount returns how many cells of the given color are tiled.
func (w *WallGrid) ColorCount(c tiles.Color) int {
	n := 0
	for row := 0; row < WallDim; row++ {
		if w[row][WallColumnFor(row, c)] {
			n++
		}
	}
	return n
}

// FloorLine is the ordered overflow area. The first-player marker, when
// taken, occupies a slot like a tile does.
type FloorLine struct {
	Tiles        [FloorCapacity]tiles.Color `json:"tiles"`
	Count        uint8                      `json:"count"`
	HasStartTile bool                       `json:"has_start_tile"`
}

// Slots returns the number of occupied floor slots, marker included.
func (f *FloorLine) Slots() int {
	n := int(f.Count)
	if f.HasStartTile {
		n++
	}
	if n > FloorCapacity {
		n = FloorCapacity
	}
	return n
}

// Penalty returns the total penalty for the occupied slots.
func (f *FloorLine) Penalty() int {
	pen := 0
	for i := 0; i < f.Slots(); i++ {
		pen += floorPenalties[i]
	}
	return pen
}

// PlayerState is one player's entire tableau.
type PlayerState struct {
	Score int                           `json:"score"`
	Lines [NumPatternLines]PatternLine  `json:"lines"`
	Wall  WallGrid                      `json:"wall"`
	Floor FloorLine                     `json:"floor"`
}
