// Package game encapsulates the main mechanics of the tile-drafting
// game: the full position value type, move application, and the
// end-of-round wall tiling and scoring.
package game

import (
	"errors"
	"fmt"

	"github.com/mosaicmind/mosaic/move"
	"github.com/mosaicmind/mosaic/tiles"
)

const (
	// MinPlayers and MaxPlayers bound the player count.
	MinPlayers = 2
	MaxPlayers = 4
	// FactoryCapacity is the number of tiles a filled factory holds.
	FactoryCapacity = 4
	// TilesPerColor is the bag supply of each color.
	TilesPerColor = 20
)

// ErrIllegalMove is returned when a caller-supplied move violates the
// generator invariants. The state is left unchanged.
var ErrIllegalMove = errors.New("illegal move")

// State is the complete game position. It is a value type: engines
// receive their own Copy and branches diverge independently; a State
// handed to a search engine is never mutated through it.
type State struct {
	Players   []PlayerState `json:"players"`
	Factories []tiles.Count `json:"factories"`

	// Pool is the shared pool in the table center; PoolHasStartTile is
	// the one-shot goes-first-next-round marker.
	Pool             tiles.Count `json:"pool"`
	PoolHasStartTile bool        `json:"pool_has_start_tile"`

	Round  int `json:"round"`
	OnTurn int `json:"on_turn"`
	// NextFirst is the player who drafted the start tile this round,
	// or -1 while it is still in the pool.
	NextFirst int `json:"next_first"`

	Bag     tiles.Count `json:"bag"`
	Discard tiles.Count `json:"discard"`
	// Seed drives factory refills, so that replaying a game from the
	// same seed reproduces every draw.
	Seed uint64 `json:"seed"`
}

// NumFactories returns the factory count for a player count.
func NumFactories(players int) int {
	return 2*players + 2
}

// NewGame deals the first round for the given number of players.
func NewGame(players int, seed uint64) (*State, error) {
	if players < MinPlayers || players > MaxPlayers {
		return nil, fmt.Errorf("game: player count %d out of range [%d, %d]",
			players, MinPlayers, MaxPlayers)
	}
	g := &State{
		Players:   make([]PlayerState, players),
		Factories: make([]tiles.Count, NumFactories(players)),
		Round:     1,
		OnTurn:    0,
		NextFirst: -1,
		Seed:      seed,
	}
	for c := tiles.Color(0); c < tiles.NumColors; c++ {
		g.Bag.Add(c, TilesPerColor)
	}
	g.PoolHasStartTile = true
	g.refillFactories()
	return g, nil
}

// Copy returns a deep, independent copy of the state.
func (g *State) Copy() *State {
	c := *g
	c.Players = make([]PlayerState, len(g.Players))
	copy(c.Players, g.Players)
	c.Factories = make([]tiles.Count, len(g.Factories))
	copy(c.Factories, g.Factories)
	return &c
}

// NumPlayers returns the number of players.
func (g *State) NumPlayers() int {
	return len(g.Players)
}

// RoundOver reports whether the drafting round is finished: no tiles
// remain on any factory or in the pool.
func (g *State) RoundOver() bool {
	for i := range g.Factories {
		if !g.Factories[i].Empty() {
			return false
		}
	}
	return g.Pool.Empty()
}

// GameOver reports whether any player has completed a wall row, which
// ends the game after that round's scoring.
func (g *State) GameOver() bool {
	for p := range g.Players {
		for row := 0; row < WallDim; row++ {
			if g.Players[p].Wall.RowCount(row) == WallDim {
				return true
			}
		}
	}
	return false
}

// LineLegal reports whether the given color may be routed to the given
// pattern line for the given player: the line is empty or already holds
// that color, has spare capacity, and the color is not yet on the wall
// in that row.
func (g *State) LineLegal(agentID, line int, c tiles.Color) bool {
	pl := &g.Players[agentID]
	l := &pl.Lines[line]
	capacity := line + 1
	if l.Count > 0 && l.Color != c {
		return false
	}
	if int(l.Count) >= capacity {
		return false
	}
	return !pl.Wall.RowHasColor(line, c)
}

// ApplyMove validates m for the given agent and applies it. On any
// violation it returns ErrIllegalMove and leaves the state unchanged.
func (g *State) ApplyMove(agentID int, m move.Move) error {
	if err := g.validateMove(agentID, m); err != nil {
		return err
	}

	// Draft the color out of its source; non-matching factory tiles
	// move to the pool.
	taken := 0
	if m.Source == move.SourceFactory {
		fac := &g.Factories[m.Factory]
		taken = int(fac[m.Color])
		fac.Remove(m.Color, taken)
		for c := tiles.Color(0); c < tiles.NumColors; c++ {
			if n := int(fac[c]); n > 0 {
				fac.Remove(c, n)
				g.Pool.Add(c, n)
			}
		}
	} else {
		taken = int(g.Pool[m.Color])
		g.Pool.Remove(m.Color, taken)
		if g.PoolHasStartTile {
			g.PoolHasStartTile = false
			g.NextFirst = agentID
			g.Players[agentID].Floor.HasStartTile = true
		}
	}

	pl := &g.Players[agentID]
	if m.Dest == move.DestLine && m.CountToLine > 0 {
		l := &pl.Lines[m.Line]
		l.Color = m.Color
		l.Count += uint8(m.CountToLine)
	}
	// Overflow past the floor capacity is discarded.
	for i := 0; i < m.CountToFloor; i++ {
		if pl.Floor.Slots() < FloorCapacity {
			pl.Floor.Tiles[pl.Floor.Count] = m.Color
			pl.Floor.Count++
		} else {
			g.Discard.Add(m.Color, 1)
		}
	}

	g.OnTurn = (g.OnTurn + 1) % len(g.Players)
	return nil
}

func (g *State) validateMove(agentID int, m move.Move) error {
	if agentID < 0 || agentID >= len(g.Players) {
		return fmt.Errorf("%w: no player %d", ErrIllegalMove, agentID)
	}
	if agentID != g.OnTurn {
		return fmt.Errorf("%w: player %d is not on turn", ErrIllegalMove, agentID)
	}
	var available int
	switch m.Source {
	case move.SourceFactory:
		if m.Factory < 0 || m.Factory >= len(g.Factories) {
			return fmt.Errorf("%w: no factory %d", ErrIllegalMove, m.Factory)
		}
		available = int(g.Factories[m.Factory][m.Color])
	case move.SourcePool:
		available = int(g.Pool[m.Color])
	default:
		return fmt.Errorf("%w: unknown source %d", ErrIllegalMove, m.Source)
	}
	if available == 0 {
		return fmt.Errorf("%w: no %v tiles at source", ErrIllegalMove, m.Color)
	}
	if m.Taken() != available {
		return fmt.Errorf("%w: move drafts %d tiles, source holds %d",
			ErrIllegalMove, m.Taken(), available)
	}
	switch m.Dest {
	case move.DestFloor:
		if m.CountToLine != 0 {
			return fmt.Errorf("%w: floor move places %d on a line",
				ErrIllegalMove, m.CountToLine)
		}
	case move.DestLine:
		if m.Line < 0 || m.Line >= NumPatternLines {
			return fmt.Errorf("%w: no pattern line %d", ErrIllegalMove, m.Line)
		}
		if !g.LineLegal(agentID, m.Line, m.Color) {
			return fmt.Errorf("%w: %v not placeable on line %d",
				ErrIllegalMove, m.Color, m.Line+1)
		}
		space := m.Line + 1 - int(g.Players[agentID].Lines[m.Line].Count)
		wantLine := available
		if wantLine > space {
			wantLine = space
		}
		if m.CountToLine != wantLine || m.CountToFloor != available-wantLine {
			return fmt.Errorf("%w: split %d/%d does not match line space %d",
				ErrIllegalMove, m.CountToLine, m.CountToFloor, space)
		}
	default:
		return fmt.Errorf("%w: unknown destination %d", ErrIllegalMove, m.Dest)
	}
	return nil
}
