package eval

import (
	"math/rand/v2"

	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/movegen"
)

// DefaultRolloutCutoff is how many plies a rollout plays before the
// terminal heuristic is applied.
const DefaultRolloutCutoff = 12

// Rollout estimates a position by playing uniformly random legal moves
// to a cutoff (or the round boundary) and scoring the terminal with the
// heuristic. The RNG is seeded, so a fixed seed reproduces the same
// estimates.
type Rollout struct {
	rng    *rand.Rand
	cutoff int
	heur   Heuristic
}

func NewRollout(seed uint64, cutoff int) *Rollout {
	if cutoff <= 0 {
		cutoff = DefaultRolloutCutoff
	}
	return &Rollout{
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		cutoff: cutoff,
	}
}

func (r *Rollout) Score(g *game.State, agentID int) float64 {
	st := g.Copy()
	for ply := 0; ply < r.cutoff; ply++ {
		moves := movegen.Generate(st, st.OnTurn)
		if len(moves) == 0 {
			break
		}
		m := moves[r.rng.IntN(len(moves))]
		if err := st.ApplyMove(st.OnTurn, m); err != nil {
			// Generated moves are legal; nothing sane to do here.
			panic(err)
		}
	}
	return r.heur.Score(st, agentID)
}
