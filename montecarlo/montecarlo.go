// Package montecarlo implements Monte-Carlo tree search over drafting
// positions. The branching factor of a draft turn is large, so instead
// of tracking wins and losses each node tracks a per-agent score
// vector, and the value being maximized at a node is the score of the
// agent on turn there. Node selection uses UCB1.
package montecarlo

import (
	"compress/gzip"
	"errors"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/mosaicmind/mosaic/eval"
	"github.com/mosaicmind/mosaic/game"
	"github.com/mosaicmind/mosaic/move"
	"github.com/mosaicmind/mosaic/movegen"
	"github.com/mosaicmind/mosaic/search"
	"github.com/mosaicmind/mosaic/stats"
)

// DefaultUCBConstant is the exploration constant C in
// UCB1 = mean + C*sqrt(ln(parentVisits)/childVisits).
var DefaultUCBConstant = math.Sqrt2

var errAlreadySearched = errors.New("montecarlo: engine instances are single-use")

// LogIteration is a struct meant for serializing to a log-file, for
// debug and other purposes.
type LogIteration struct {
	Iteration int       `json:"iteration" yaml:"iteration"`
	Move      string    `json:"move" yaml:"move"`
	Depth     int       `json:"depth" yaml:"depth"`
	Values    []float64 `json:"values" yaml:"values,flow"`
}

// Engine is a single-use MCTS engine. Budgets are checked once per full
// iteration, so every returned result reflects only whole iterations.
type Engine struct {
	evaluator eval.Evaluator
	params    search.Params

	c             float64
	rng           *rand.Rand
	rolloutCutoff int
	logStream     io.Writer

	root      *node
	rollouts  uint64
	nodes     uint64
	depthStat stats.Statistic
	searched  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithUCBConstant overrides the exploration constant.
func WithUCBConstant(c float64) Option {
	return func(e *Engine) { e.c = c }
}

// WithSeed seeds the rollout RNG; a fixed seed makes repeated searches
// on the same state reproduce the same best move.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0xa5a5a5a5a5a5a5a5))
	}
}

// WithRolloutCutoff bounds the playout length in plies.
func WithRolloutCutoff(plies int) Option {
	return func(e *Engine) { e.rolloutCutoff = plies }
}

// WithLogStream writes one YAML document per iteration to w, for
// offline inspection of long runs.
func WithLogStream(w io.Writer) Option {
	return func(e *Engine) { e.logStream = w }
}

// New creates an engine for exactly one Search call.
func New(ev eval.Evaluator, params search.Params, opts ...Option) *Engine {
	e := &Engine{
		evaluator:     ev,
		params:        params,
		c:             DefaultUCBConstant,
		rolloutCutoff: eval.DefaultRolloutCutoff,
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Search runs rollouts until the time or rollout budget is exhausted
// and returns the robust-child recommendation. Budget exhaustion is
// normal termination; the result is valid after even one iteration.
func (e *Engine) Search(g *game.State, agentID int) (*search.Result, error) {
	if e.searched {
		return nil, errAlreadySearched
	}
	e.searched = true
	if err := e.params.Validate(search.TypeRollout); err != nil {
		return nil, err
	}

	tstart := time.Now()
	numPlayers := g.NumPlayers()
	e.root = newNode(move.Move{}, nil, g.OnTurn, numPlayers)

	// Assign into the io.Writer only when a stream is configured, so
	// iterate's nil check sees a truly nil interface otherwise.
	var logW io.Writer
	if e.logStream != nil {
		gzWriter := gzip.NewWriter(e.logStream)
		defer gzWriter.Close()
		logW = gzWriter
	}

	for {
		if err := e.iterate(g, logW); err != nil {
			return nil, err
		}
		// One stop check per full iteration keeps the tree internally
		// consistent at all times.
		if int(e.rollouts) >= e.params.MaxRollouts ||
			time.Since(tstart) >= e.params.MaxTime {
			break
		}
	}

	best := e.root.robustChild()
	if best == nil {
		return nil, errors.New("montecarlo: no legal moves in position")
	}
	res := &search.Result{
		BestMove:         best.m,
		BestScore:        best.mean(agentID),
		PV:               e.principalVariation(),
		Elapsed:          time.Since(tstart),
		Nodes:            e.nodes,
		Rollouts:         e.rollouts,
		MeanRolloutDepth: e.depthStat.Mean(),
	}
	log.Debug().Uint64("rollouts", e.rollouts).Uint64("nodes", e.nodes).
		Float64("avg-rollout-depth", e.depthStat.Mean()).
		Str("best", best.m.ShortDescription()).
		Float64("best-mean", best.stat.Mean()).
		Float64("best-ci95", best.stat.StandardError()*stats.Z95).
		Msg("mcts-search-done")
	return res, nil
}

// iterate runs one full selection/expansion/simulation/backpropagation
// pass.
func (e *Engine) iterate(g *game.State, logW io.Writer) error {
	st := g.Copy()
	n := e.root

	// Selection: descend while fully expanded.
	if !n.expanded {
		n.expand(st)
	}
	for n.expanded && !n.terminal && len(n.untried) == 0 {
		n = n.selectChild(e.c)
		if err := st.ApplyMove(st.OnTurn, n.m); err != nil {
			return err
		}
		e.nodes++
		if !n.expanded {
			n.expand(st)
		}
	}

	// Expansion: one untried child, in generation order.
	if !n.terminal && len(n.untried) > 0 {
		m := n.untried[0]
		n.untried = n.untried[1:]
		if err := st.ApplyMove(st.OnTurn, m); err != nil {
			return err
		}
		e.nodes++
		child := newNode(m, n, st.OnTurn, st.NumPlayers())
		child.expand(st)
		n.children = append(n.children, child)
		n = child
	}

	// Simulation: uniform playout to the cutoff, terminal value from
	// the evaluator, one entry per agent.
	values, depth := e.simulate(st)
	e.rollouts++
	e.depthStat.Push(float64(depth))

	// Backpropagation.
	for ; n != nil; n = n.parent {
		n.visits++
		for i, v := range values {
			n.values[i] += v
		}
		if n.parent == e.root {
			n.stat.Push(values[e.root.onTurn])
		}
	}

	if logW != nil {
		out, err := yaml.Marshal([]LogIteration{{
			Iteration: int(e.rollouts),
			Move:      "(root)",
			Depth:     depth,
			Values:    values,
		}})
		if err != nil {
			return err
		}
		if _, err := logW.Write(out); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) simulate(st *game.State) ([]float64, int) {
	depth := 0
	for ; depth < e.rolloutCutoff; depth++ {
		moves := movegen.Generate(st, st.OnTurn)
		if len(moves) == 0 {
			break
		}
		m := moves[e.rng.IntN(len(moves))]
		if err := st.ApplyMove(st.OnTurn, m); err != nil {
			panic(err)
		}
		e.nodes++
	}
	values := make([]float64, st.NumPlayers())
	for i := range values {
		values[i] = e.evaluator.Score(st, i)
	}
	return values, depth
}

// principalVariation follows the highest-visit chain until a zero-visit
// node.
func (e *Engine) principalVariation() []move.Move {
	var pv []move.Move
	n := e.root
	for {
		best := n.robustChild()
		if best == nil || best.visits == 0 {
			break
		}
		pv = append(pv, best.m)
		n = best
	}
	return pv
}
