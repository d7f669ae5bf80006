package game

import "github.com/mosaicmind/mosaic/tiles"

// End-of-game bonus values.
const (
	RowBonus   = 2
	ColBonus   = 7
	ColorBonus = 10
)

// ScorePlacement returns the points for tiling the cell at (row, col)
// on the given wall: the length of each contiguous run (horizontal and
// vertical) through the cell that is longer than one, or a single point
// for an isolated tile. The cell must already be set.
func ScorePlacement(w *WallGrid, row, col int) int {
	h := 1
	for c := col - 1; c >= 0 && w[row][c]; c-- {
		h++
	}
	for c := col + 1; c < WallDim && w[row][c]; c++ {
		h++
	}
	v := 1
	for r := row - 1; r >= 0 && w[r][col]; r-- {
		v++
	}
	for r := row + 1; r < WallDim && w[r][col]; r++ {
		v++
	}
	score := 0
	if h > 1 {
		score += h
	}
	if v > 1 {
		score += v
	}
	if score == 0 {
		score = 1
	}
	return score
}

// ScoreRound performs the end-of-round wall tiling: every complete
// pattern line sends one tile to its wall cell and the remainder to the
// discard, placements score their adjacency runs, floor penalties are
// applied (a score never drops below zero), and the next round is dealt
// unless the game is over.
func (g *State) ScoreRound() {
	for p := range g.Players {
		pl := &g.Players[p]
		for li := range pl.Lines {
			l := &pl.Lines[li]
			capacity := li + 1
			if int(l.Count) < capacity {
				continue
			}
			col := WallColumnFor(li, l.Color)
			pl.Wall[li][col] = true
			pl.Score += ScorePlacement(&pl.Wall, li, col)
			// One tile goes on the wall; the other capacity-1 are
			// discarded.
			g.Discard.Add(l.Color, capacity-1)
			*l = PatternLine{}
		}
		pl.Score -= pl.Floor.Penalty()
		if pl.Score < 0 {
			pl.Score = 0
		}
		for i := 0; i < int(pl.Floor.Count); i++ {
			g.Discard.Add(pl.Floor.Tiles[i], 1)
		}
		pl.Floor = FloorLine{}
	}

	if g.NextFirst >= 0 {
		g.OnTurn = g.NextFirst
	}
	g.NextFirst = -1
	g.Round++

	if !g.GameOver() {
		g.PoolHasStartTile = true
		g.refillFactories()
	}
}

// FinalScores returns each player's score with the end-of-game bonuses
// applied: completed rows, columns, and full color sets.
func (g *State) FinalScores() []int {
	scores := make([]int, len(g.Players))
	for p := range g.Players {
		pl := &g.Players[p]
		total := pl.Score
		for row := 0; row < WallDim; row++ {
			if pl.Wall.RowCount(row) == WallDim {
				total += RowBonus
			}
		}
		for col := 0; col < WallDim; col++ {
			if pl.Wall.ColCount(col) == WallDim {
				total += ColBonus
			}
		}
		for c := tiles.Color(0); c < tiles.NumColors; c++ {
			if pl.Wall.ColorCount(c) == WallDim {
				total += ColorBonus
			}
		}
		scores[p] = total
	}
	return scores
}
