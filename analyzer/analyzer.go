// Package analyzer is the thin orchestration layer over the search
// engines and the analysis cache: read-through lookup, engine
// dispatch, write-through store. Callers supply a resolved game state;
// parsing and formatting belong to the request layer.
package analyzer

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mosaicmind/mosaic/alphabeta"
	"github.com/mosaicmind/mosaic/cache"
	"github.com/mosaicmind/mosaic/config"
	"github.com/mosaicmind/mosaic/eval"
	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/montecarlo"
	"github.com/mosaicmind/mosaic/search"
)

// Request is one analysis request. State is never mutated; the engine
// works on its own copy.
type Request struct {
	State  *game.State
	Agent  int
	Type   search.Type
	Params search.Params
	// Seed, when nonzero, makes rollout searches reproducible.
	Seed uint64
}

// Analyzer owns one explicitly injected cache instance; there is no
// process-global state. A nil cache disables memoization, searches
// still run.
type Analyzer struct {
	cache *cache.AnalysisCache
	model eval.ModelClient
	cfg   *config.Config
}

// New builds an analyzer. cacheStore and model may be nil.
func New(cacheStore *cache.AnalysisCache, model eval.ModelClient, cfg *config.Config) *Analyzer {
	return &Analyzer{cache: cacheStore, model: model, cfg: cfg}
}

// Analyze serves req: a read-through cache lookup precedes every new
// search, and every completed search is written through. Cache failures
// degrade to an uncached search; they are never returned to the caller.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*search.Result, error) {
	if err := req.Params.Validate(req.Type); err != nil {
		return nil, err
	}

	key := cache.Key{
		Position: req.State.Fingerprint(),
		Agent:    req.Agent,
		Type:     req.Type,
	}
	if a.cache != nil {
		ent, err := a.cache.Get(ctx, key)
		if err != nil {
			log.Warn().Err(err).Msg("cache lookup failed; searching uncached")
		} else if ent != nil {
			if err := a.cache.RecordSearch(ctx, ent.Result, true); err != nil {
				log.Warn().Err(err).Msg("cache counter update failed")
			}
			log.Debug().Str("position", key.Position).Str("type", string(req.Type)).
				Msg("cache-hit")
			return ent.Result, nil
		}
	}

	engine, err := a.newEngine(req)
	if err != nil {
		return nil, err
	}
	res, err := engine.Search(req.State, req.Agent)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if err := a.cache.Put(ctx, key, res, req.State); err != nil {
			log.Warn().Err(err).Msg("cache write failed; result returned uncached")
		}
		if err := a.cache.RecordSearch(ctx, res, false); err != nil {
			log.Warn().Err(err).Msg("cache counter update failed")
		}
	}
	return res, nil
}

// newEngine constructs a fresh single-use engine for the request; no
// search state survives across calls.
func (a *Analyzer) newEngine(req Request) (search.Engine, error) {
	switch req.Type {
	case search.TypeRollout:
		opts := []montecarlo.Option{
			montecarlo.WithUCBConstant(a.cfg.UCBConstant),
			montecarlo.WithRolloutCutoff(a.cfg.RolloutCutoff),
		}
		if req.Seed != 0 {
			opts = append(opts, montecarlo.WithSeed(req.Seed))
		}
		return montecarlo.New(eval.NewHeuristic(), req.Params, opts...), nil
	case search.TypePruning:
		return alphabeta.New(eval.NewHeuristic(), req.Params), nil
	case search.TypeExternal:
		// Externally guided: the pruning search with the model-backed
		// evaluator at its leaves. Model failures degrade to the
		// heuristic inside the evaluator.
		return alphabeta.New(eval.NewExternal(a.model), req.Params), nil
	}
	_, err := search.ParseType(string(req.Type))
	return nil, err
}
