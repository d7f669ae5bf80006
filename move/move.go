// Package move defines the draft move type shared by the move
// generator and both search engines.
package move

import (
	"fmt"

	"github.com/mosaicmind/mosaic/tiles"
)

// Source is where the tiles are drafted from.
type Source uint8

const (
	// SourceFactory drafts from a numbered factory display.
	SourceFactory Source = iota
	// SourcePool drafts from the shared pool in the table center.
	SourcePool
)

// Dest is where the drafted tiles are placed.
type Dest uint8

const (
	// DestLine places tiles on a numbered pattern line.
	DestLine Dest = iota
	// DestFloor sends every drafted tile straight to the floor line.
	DestFloor
)

// Move is a single draft: take every tile of one color from a factory
// or the shared pool, and route them to a pattern line (overflow to the
// floor) or entirely to the floor.
type Move struct {
	Source  Source      `json:"source"`
	Factory int         `json:"factory,omitempty"` // valid when Source == SourceFactory
	Color   tiles.Color `json:"color"`
	Dest    Dest        `json:"dest"`
	Line    int         `json:"line,omitempty"` // valid when Dest == DestLine
	// CountToLine tiles land on the pattern line; CountToFloor spill
	// over to the floor line. Their sum is the number of tiles drafted.
	CountToLine  int `json:"count_to_line"`
	CountToFloor int `json:"count_to_floor"`
}

// Taken returns the total number of tiles this move drafts.
func (m Move) Taken() int {
	return m.CountToLine + m.CountToFloor
}

// Equals reports whether two moves are the same draft.
func (m Move) Equals(o Move) bool {
	return m == o
}

// ShortDescription provides a short description, useful for logging or
// user display.
func (m Move) ShortDescription() string {
	src := "pool"
	if m.Source == SourceFactory {
		src = fmt.Sprintf("factory %d", m.Factory)
	}
	if m.Dest == DestFloor {
		return fmt.Sprintf("%s: %dx%v -> floor", src, m.Taken(), m.Color)
	}
	if m.CountToFloor > 0 {
		return fmt.Sprintf("%s: %dx%v -> line %d (+%d floor)",
			src, m.Taken(), m.Color, m.Line+1, m.CountToFloor)
	}
	return fmt.Sprintf("%s: %dx%v -> line %d", src, m.Taken(), m.Color, m.Line+1)
}

func (m Move) String() string {
	return fmt.Sprintf("<move %s>", m.ShortDescription())
}
