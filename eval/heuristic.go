package eval

import (
	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/tiles"
)

// Term weights for the heuristic. Wall progress terms are quadratic in
// the fill fraction so that a nearly complete row, column, or color set
// is worth strictly more than the same tiles spread out.
const (
	lineProgressWeight = 0.5
	wallCellDenom      = float64(game.WallDim)
)

// Heuristic is the closed-form evaluator: banked score, plus the
// projected wall-tiling delta for the current round, minus the floor
// penalty, plus completion-progress terms.
type Heuristic struct{}

func NewHeuristic() Heuristic { return Heuristic{} }

func (h Heuristic) Score(g *game.State, agentID int) float64 {
	pl := &g.Players[agentID]

	// Project this round's wall tiling onto a scratch wall.
	wall := pl.Wall
	projected := 0
	for li := range pl.Lines {
		l := pl.Lines[li]
		if int(l.Count) < li+1 {
			continue
		}
		col := game.WallColumnFor(li, l.Color)
		wall[li][col] = true
		projected += game.ScorePlacement(&wall, li, col)
	}

	score := pl.Score + projected - pl.Floor.Penalty()
	if score < 0 {
		score = 0
	}
	v := float64(score)

	// Partially filled pattern lines carry some of their eventual value.
	for li := range pl.Lines {
		l := pl.Lines[li]
		capacity := li + 1
		if l.Count == 0 || int(l.Count) >= capacity {
			continue
		}
		v += lineProgressWeight * float64(l.Count) / float64(capacity)
	}

	// Completion progress toward the end-of-game bonuses, on the
	// projected wall.
	for row := 0; row < game.WallDim; row++ {
		frac := float64(wall.RowCount(row)) / wallCellDenom
		v += game.RowBonus * frac * frac
	}
	for col := 0; col < game.WallDim; col++ {
		frac := float64(wall.ColCount(col)) / wallCellDenom
		v += game.ColBonus * frac * frac
	}
	for c := tiles.Color(0); c < tiles.NumColors; c++ {
		frac := float64(wall.ColorCount(c)) / wallCellDenom
		v += game.ColorBonus * frac * frac
	}
	return v
}
