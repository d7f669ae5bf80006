package movegen

import (
	"testing"

	"github.com/matryer/is"

	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/move"
	"github.com/mosaicmind/mosaic/tiles"
)

func TestGenerateAllLegal(t *testing.T) {
	is := is.New(t)
	g, err := game.NewGame(2, 11)
	is.NoErr(err)

	moves := Generate(g, 0)
	is.True(len(moves) > 0)
	for _, m := range moves {
		c := g.Copy()
		is.NoErr(c.ApplyMove(0, m))
	}
}

func TestGenerateDeterministicOrder(t *testing.T) {
	is := is.New(t)
	g, err := game.NewGame(3, 99)
	is.NoErr(err)

	a := Generate(g, 0)
	b := Generate(g, 0)
	is.Equal(len(a), len(b))
	for i := range a {
		is.True(a[i].Equals(b[i]))
	}

	// Factories come before the pool, colors ascend within a source,
	// and every color group ends with its all-to-floor move.
	seenPool := false
	var prev *move.Move
	for i := range a {
		m := &a[i]
		if m.Source == move.SourcePool {
			seenPool = true
		} else {
			is.True(!seenPool)
		}
		if prev != nil && prev.Source == m.Source && prev.Factory == m.Factory {
			is.True(prev.Color <= m.Color)
			if prev.Color == m.Color {
				is.True(prev.Dest == move.DestLine)
			}
		}
		prev = m
	}
}

func TestGenerateSplitsOverflowToFloor(t *testing.T) {
	is := is.New(t)
	g := &game.State{
		Players:   make([]game.PlayerState, 2),
		Factories: make([]tiles.Count, game.NumFactories(2)),
		NextFirst: -1,
		Round:     1,
	}
	g.Factories[0].Add(tiles.Blue, 3)
	g.Players[0].Lines[1] = game.PatternLine{Color: tiles.Blue, Count: 1}

	moves := Generate(g, 0)
	var found bool
	for _, m := range moves {
		if m.Dest == move.DestLine && m.Line == 1 {
			is.Equal(m.CountToLine, 1) // one slot left on line 2
			is.Equal(m.CountToFloor, 2)
			found = true
		}
	}
	is.True(found)
}

func TestGenerateSkipsTiledWallColors(t *testing.T) {
	is := is.New(t)
	g := &game.State{
		Players:   make([]game.PlayerState, 2),
		Factories: make([]tiles.Count, game.NumFactories(2)),
		NextFirst: -1,
		Round:     1,
	}
	g.Pool.Add(tiles.Red, 2)
	for row := 0; row < game.WallDim; row++ {
		g.Players[0].Wall[row][game.WallColumnFor(row, tiles.Red)] = true
	}

	moves := Generate(g, 0)
	// Red is on every wall row, so only the floor move remains.
	is.Equal(len(moves), 1)
	is.Equal(moves[0].Dest, move.DestFloor)
	is.Equal(moves[0].CountToFloor, 2)
}

func TestGenerateEmptyAtRoundEnd(t *testing.T) {
	is := is.New(t)
	g := &game.State{
		Players:   make([]game.PlayerState, 2),
		Factories: make([]tiles.Count, game.NumFactories(2)),
		NextFirst: -1,
		Round:     1,
	}
	is.Equal(len(Generate(g, 0)), 0)
}
