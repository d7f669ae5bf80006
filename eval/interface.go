// Package eval contains the position evaluators shared by both search
// engines: a closed-form heuristic, a playout-based estimator, and a
// wrapper that delegates to an external model provider.
package eval

import "github.com/mosaicmind/mosaic/game"

// Evaluator scores a position from one agent's perspective. Higher is
// better for that agent. Implementations must not mutate the state.
type Evaluator interface {
	Score(g *game.State, agentID int) float64
}
