// Package alphabeta implements a depth-limited adversarial search with
// fail-soft alpha-beta pruning and iterative deepening.
//
// Scoring is per-player rather than zero-sum, so each ply's player is
// modeled as maximizing their own score ("paranoid" best-reply
// approximation): the search carries a full per-agent score vector,
// branch selection at a node maximizes the on-turn agent's component,
// and the pruning window tracks the searching agent's component. This
// is an intentional, documented simplification, kept because replacing
// it with true zero-sum minimax changes the recommended moves.
//
// The transposition table stores fail-soft values without bound flags,
// so a value that was clipped by the search window can later be reused
// as if exact, which can perturb lines across transpositions.
// TODO: store upper/lower bound flags alongside the values.
package alphabeta

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mosaicmind/mosaic/eval"
	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/move"
	"github.com/mosaicmind/mosaic/movegen"
	"github.com/mosaicmind/mosaic/search"
	"github.com/mosaicmind/mosaic/zobrist"
)

// Infinity bounds the pruning window.
const Infinity = 1e9

// deadlineCheckMask throttles clock reads to every 64 nodes.
const deadlineCheckMask = 63

var (
	errBudgetExhausted = errors.New("alphabeta: time budget exhausted")
	// ErrNoSolution is returned when not even a depth-1 search
	// completed within the budget.
	ErrNoSolution = errors.New("alphabeta: no completed depth within budget")

	errAlreadySearched = errors.New("alphabeta: engine instances are single-use")
)

type ttEntry struct {
	depth uint8
	vals  []float64
}

// Engine is a single-use iterative-deepening solver.
type Engine struct {
	evaluator eval.Evaluator
	params    search.Params

	agent    int
	zobrist  zobrist.Zobrist
	ttable   map[uint64]ttEntry
	deadline time.Time

	currentIDDepth int
	lastPV         []move.Move
	nodes          uint64
	searched       bool
}

// New creates an engine for exactly one Search call.
func New(ev eval.Evaluator, params search.Params) *Engine {
	return &Engine{
		evaluator: ev,
		params:    params,
		ttable:    make(map[uint64]ttEntry),
	}
}

// Search runs iterative deepening from depth 1. Each fully completed
// depth replaces the previous best result; if the clock expires
// mid-depth, the last completed depth's result is returned, never a
// partial one.
func (e *Engine) Search(g *game.State, agentID int) (*search.Result, error) {
	if e.searched {
		return nil, errAlreadySearched
	}
	e.searched = true
	if err := e.params.Validate(search.TypePruning); err != nil {
		return nil, err
	}

	tstart := time.Now()
	e.agent = agentID
	e.deadline = tstart.Add(e.params.MaxTime)
	e.zobrist.Initialize()

	st := g.Copy()
	var best *search.Result
	for depth := 1; depth <= e.params.MaxDepth; depth++ {
		e.currentIDDepth = depth
		pv := pvLine{}
		vals, err := e.search(st, depth, -Infinity, Infinity, &pv)
		if err != nil {
			log.Debug().Int("depth", depth).
				Msg("clock expired mid-depth; keeping previous result")
			break
		}
		if len(pv.moves) == 0 {
			return nil, errors.New("alphabeta: no legal moves in position")
		}
		e.lastPV = pv.moves
		best = &search.Result{
			BestMove:  pv.moves[0],
			BestScore: vals[agentID],
			PV:        append([]move.Move(nil), pv.moves...),
			Depth:     depth,
		}
		log.Debug().Int("depth", depth).Float64("value", vals[agentID]).
			Str("best", pv.moves[0].ShortDescription()).
			Msg("depth-complete")
	}
	if best == nil {
		return nil, ErrNoSolution
	}
	best.Nodes = e.nodes
	best.Elapsed = time.Since(tstart)
	return best, nil
}

// search returns the per-agent score vector of the best line from g.
// Fail-soft: the returned values may lie outside the [α, β] window.
func (e *Engine) search(g *game.State, depth int, α, β float64, pv *pvLine) ([]float64, error) {
	e.nodes++
	if e.nodes&deadlineCheckMask == 0 && time.Now().After(e.deadline) {
		return nil, errBudgetExhausted
	}

	moves := movegen.Generate(g, g.OnTurn)
	if depth == 0 || len(moves) == 0 {
		pv.clear()
		return e.evalAll(g), nil
	}
	e.orderMoves(moves, e.currentIDDepth-depth)

	onTurn := g.OnTurn
	var best []float64
	childPV := pvLine{}
	for _, m := range moves {
		child := g.Copy()
		if err := child.ApplyMove(onTurn, m); err != nil {
			return nil, err
		}

		var vals []float64
		key := e.zobrist.Hash(child)
		if ent, ok := e.ttable[key]; ok && int(ent.depth) >= depth-1 {
			// Favor deeper searches.
			vals = ent.vals
			childPV.clear()
		} else {
			var err error
			vals, err = e.search(child, depth-1, α, β, &childPV)
			if err != nil {
				return nil, err
			}
			e.ttable[key] = ttEntry{depth: uint8(depth - 1), vals: vals}
		}

		if best == nil || vals[onTurn] > best[onTurn] {
			best = vals
			pv.update(m, childPV)
		}
		if onTurn == e.agent {
			if vals[e.agent] > α {
				α = vals[e.agent]
			}
		} else {
			if vals[e.agent] < β {
				β = vals[e.agent]
			}
		}
		if α >= β {
			break
		}
	}
	return best, nil
}

func (e *Engine) evalAll(g *game.State) []float64 {
	vals := make([]float64, g.NumPlayers())
	for i := range vals {
		vals[i] = e.evaluator.Score(g, i)
	}
	return vals
}

// orderMoves brings the prior depth's principal-variation move for this
// ply to the front; the rest stay in generator order to keep results
// reproducible.
func (e *Engine) orderMoves(moves []move.Move, ply int) {
	if ply >= len(e.lastPV) {
		return
	}
	pvMove := e.lastPV[ply]
	for i, m := range moves {
		if m.Equals(pvMove) {
			copy(moves[1:i+1], moves[:i])
			moves[0] = pvMove
			return
		}
	}
}
