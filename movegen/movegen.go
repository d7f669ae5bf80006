// Package movegen generates every legal draft for a position. It is a
// pure function of the state: no randomness, no mutation, and a
// deterministic output order that the search engines rely on for
// reproducibility.
package movegen

import (
	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/move"
	"github.com/mosaicmind/mosaic/tiles"
)

// Generate returns the legal moves for the given agent, in canonical
// order: factories ascending, then the shared pool; within a source,
// colors ascending; within a color, pattern lines ascending and the
// all-to-floor move last. An empty slice means the round is over.
func Generate(g *game.State, agentID int) []move.Move {
	var moves []move.Move
	for f := range g.Factories {
		moves = appendSourceMoves(moves, g, agentID, move.SourceFactory, f, g.Factories[f])
	}
	moves = appendSourceMoves(moves, g, agentID, move.SourcePool, 0, g.Pool)
	return moves
}

func appendSourceMoves(moves []move.Move, g *game.State, agentID int,
	src move.Source, factory int, held tiles.Count) []move.Move {

	for c := tiles.Color(0); c < tiles.NumColors; c++ {
		n := int(held[c])
		if n == 0 {
			continue
		}
		for line := 0; line < game.NumPatternLines; line++ {
			if !g.LineLegal(agentID, line, c) {
				continue
			}
			space := line + 1 - int(g.Players[agentID].Lines[line].Count)
			toLine := n
			if toLine > space {
				toLine = space
			}
			moves = append(moves, move.Move{
				Source:       src,
				Factory:      factory,
				Color:        c,
				Dest:         move.DestLine,
				Line:         line,
				CountToLine:  toLine,
				CountToFloor: n - toLine,
			})
		}
		moves = append(moves, move.Move{
			Source:       src,
			Factory:      factory,
			Color:        c,
			Dest:         move.DestFloor,
			CountToFloor: n,
		})
	}
	return moves
}
