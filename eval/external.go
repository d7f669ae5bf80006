package eval

import (
	"github.com/rs/zerolog/log"

	"github.com/mosaicmind/mosaic/game"
)

// ModelClient is the fixed-signature scoring call into an external
// model provider. The training subsystem behind it is not part of this
// module; only this interface is.
type ModelClient interface {
	Evaluate(g *game.State, agentID int) (float64, error)
}

// External delegates scoring to a model provider. If the provider is
// absent or fails, it falls back to the heuristic; callers never see an
// error from this evaluator.
type External struct {
	client ModelClient
	heur   Heuristic
}

func NewExternal(client ModelClient) *External {
	return &External{client: client}
}

func (e *External) Score(g *game.State, agentID int) float64 {
	if e.client == nil {
		return e.heur.Score(g, agentID)
	}
	v, err := e.client.Evaluate(g, agentID)
	if err != nil {
		log.Debug().Err(err).Int("agent", agentID).Msg("model-eval-failed; using heuristic")
		return e.heur.Score(g, agentID)
	}
	return v
}
